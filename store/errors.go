package store

import (
	"database/sql"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises unique constraint failures from either
// driver, before or after go-repository-bun error mapping.
func isUniqueViolation(db *bun.DB, err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if repository.IsDuplicatedKey(err) {
		return true
	}
	return repository.IsDuplicatedKey(repository.MapDatabaseError(err, repository.DetectDriver(db)))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err)
}
