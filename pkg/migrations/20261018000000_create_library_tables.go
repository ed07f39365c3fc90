package migrations

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		mysql := db.Dialect().Name() == dialect.MySQL

		_, err := db.Exec(fmt.Sprintf(`
			CREATE TABLE books (
				idBook %s,
				title %s,
				author %s,
				description TEXT,
				categories %s,
				qty INTEGER,
				booked INTEGER DEFAULT 0
			)
`, primaryKey(mysql), varchar(mysql), varchar(mysql), varchar(mysql)))
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE members (
				idMember %s,
				name %s,
				phone %s,
				email %s,
				address TEXT
			)
`, primaryKey(mysql), varchar(mysql), varchar(mysql), varchar(mysql)))
		if err != nil {
			return errors.WithStack(err)
		}

		// idMember and idBook are not foreign keys.
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE transactions (
				idTransaction %s,
				date %s NOT NULL,
				idMember INTEGER,
				idBook INTEGER,
				status %s
			)
`, primaryKey(mysql), timestamp(mysql), varchar(mysql)))
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS transactions`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DROP TABLE IF EXISTS members`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DROP TABLE IF EXISTS books`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}

func primaryKey(mysql bool) string {
	if mysql {
		return "INT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func varchar(mysql bool) string {
	if mysql {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

func timestamp(mysql bool) string {
	if mysql {
		return "DATETIME(6)"
	}
	return "TIMESTAMP"
}
