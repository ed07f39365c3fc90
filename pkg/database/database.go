package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/libradesk/circulation/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		data["error"] = event.Err.Error()
	}
	qh.log.Debug(event.Query, data)
}

func New(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB

	switch cfg.DatabaseDriver {
	case config.DriverMySQL:
		connector, err := mysql.NewConnector(mysqlConfig(cfg))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		db = bun.NewDB(sql.OpenDB(connector), mysqldialect.New())
	case config.DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseFilePath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	// A single long-lived connection unless configured otherwise. Idle
	// connections are never recycled so an in-memory SQLite database survives.
	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxOpenConns)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	// print out all queries in debug mode
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	// Retry up to a few times to ensure that the database can connect.
	var err error
	attempts := cfg.DatabaseConnectRetryCount
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		_, err = db.Exec("SELECT 1")
		if err == nil {
			break
		}
		if i < attempts-1 {
			time.Sleep(cfg.DatabaseConnectRetryDelay)
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if cfg.DatabaseDriver == config.DriverSQLite {
		// WAL mode allows concurrent reads during writes.
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to enable WAL mode")
		}
		_, err = db.Exec("PRAGMA busy_timeout=5000")
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to set busy_timeout")
		}
	}

	return db, nil
}

func mysqlConfig(cfg *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.DatabaseUser
	mc.Passwd = cfg.DatabasePassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.DatabaseHost, cfg.DatabasePort)
	mc.DBName = cfg.DatabaseName
	mc.ParseTime = true
	// Report matched rows rather than changed rows so an UPDATE that writes
	// identical values still counts as a hit.
	mc.ClientFoundRows = true
	return mc
}
