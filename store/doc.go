// Package store persists volunteers and the skill catalog with bun.
//
// SQLite (mattn/go-sqlite3) and PostgreSQL (pgx through database/sql) are
// supported. Document attributes are stored as JSON text columns and go
// through the document codec on every read and write, so a corrupt column
// degrades to an empty value instead of failing the row.
package store
