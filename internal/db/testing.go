package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
)

var testDBSeq atomic.Int64

// OpenForTesting returns a migrated, private in-memory SQLite database. The
// pool is pinned to one connection because the database lives only as long as
// a connection holds it open.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:atelier_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", testDBSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := Migrate(db, SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
