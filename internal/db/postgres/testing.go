package postgres

import "database/sql"

// NewStoreForTest wraps an existing *sql.DB (e.g. go-sqlmock).
func NewStoreForTest(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}
