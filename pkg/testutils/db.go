package testutils

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/libradesk/circulation/pkg/config"
	"github.com/libradesk/circulation/pkg/database"
	"github.com/libradesk/circulation/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// NewDB opens a migrated in-memory SQLite database that no other caller can
// see. Callers are responsible for closing it.
func NewDB(ctx context.Context) (*bun.DB, error) {
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := database.New(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return db, nil
}
