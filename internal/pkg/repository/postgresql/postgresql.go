package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/auth"
	"rollbook/backend/internal/pkg/config"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Database wraps the bun connection together with the request helpers every
// repository needs.
type Database struct {
	*bun.DB
}

// NewDB opens the postgres connection described by cfg.
func NewDB(cfg *config.Config) *Database {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.DBUsername, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	pgconn := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithInsecure(cfg.DisableTLS),
	)

	sqldb := sql.OpenDB(pgconn)
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(false)))

	return &Database{DB: db}
}

// CheckClaims pulls the auth claims stored by the authenticate middleware
// out of the context and optionally enforces a role.
func (d Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized)
	}

	return claims, nil
}

// ValidateStruct enforces that the named fields of a request struct are
// present: pointer fields non-nil, value fields non-zero.
func (d Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	v := reflect.Indirect(reflect.ValueOf(s))

	for _, name := range requiredFields {
		field := v.FieldByName(name)
		if !field.IsValid() {
			return web.NewRequestError(fmt.Errorf("unknown required field %s", name), http.StatusInternalServerError)
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return web.NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
			}
			continue
		}
		if field.IsZero() {
			return web.NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
		}
	}

	return nil
}

// DeleteRow soft deletes one row by id, stamping the acting user.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := d.NewUpdate().
		Table(table).
		Where("deleted_at IS NULL AND id = ?", id).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusBadRequest)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking delete result"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(errors.New("row not found"), http.StatusNotFound)
	}

	return nil
}
