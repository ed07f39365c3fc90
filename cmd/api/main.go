package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/libradesk/circulation/pkg/config"
	"github.com/libradesk/circulation/pkg/database"
	"github.com/libradesk/circulation/pkg/migrations"
	"github.com/libradesk/circulation/pkg/server"
	"github.com/libradesk/circulation/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Config string `short:"c" long:"config" description:"Path to a YAML config file (defaults to $CONFIG_FILE)"`
	}
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	log.Info("starting circulation", logger.Data{"version": version.Version, "hostname": cfg.Hostname, "environment": cfg.Environment})

	// The service refuses to start without a reachable database.
	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	log.Info("database connected", logger.Data{"driver": cfg.DatabaseDriver})

	if cfg.AutoMigrate {
		group, err := migrations.BringUpToDate(ctx, db)
		if err != nil {
			log.Err(err).Fatal("migrations error")
		}
		if group.ID == 0 {
			log.Info("no new migrations to run")
		} else {
			log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
		}
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"addr": srv.Addr})
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New()
	}
	return config.Load(path)
}
