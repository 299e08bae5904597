package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"src.agwa.name/go-dbutil"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS atom_document(
	path TEXT NOT NULL PRIMARY KEY,
	body %s NOT NULL
);
`

// blobTypes maps each supported driver to its binary column type.
var blobTypes = map[string]string{
	"sqlite3":  "BLOB",
	"postgres": "BYTEA",
}

// SQL stores documents in a SQLite or PostgreSQL table.
type SQL struct {
	db *sql.DB
}

// OpenSQL opens the database and creates the document table if it does not
// exist. driver is "sqlite3" or "postgres".
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	blob, ok := blobTypes[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(sqlSchema, blob)); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return &SQL{db: db}, nil
}

// Get returns the document stored under path, or ErrNotFound.
func (s *SQL) Get(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM atom_document WHERE path = $1`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error querying atom_document: %w", err)
	}
	return body, nil
}

// Put inserts or replaces the document stored under path.
func (s *SQL) Put(ctx context.Context, path string, body []byte) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO atom_document (path, body) VALUES ($1, $2) ON CONFLICT (path) DO UPDATE SET body = excluded.body`, path, body); err != nil {
		return fmt.Errorf("error inserting into atom_document: %w", err)
	}
	return nil
}

// Delete removes the document under path. It returns ErrNotFound if no
// row was deleted.
func (s *SQL) Delete(ctx context.Context, path string) error {
	err := dbutil.MustAffectRow(s.db.ExecContext(ctx, `DELETE FROM atom_document WHERE path = $1`, path))
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error deleting from atom_document: %w", err)
	}
	return nil
}

// List returns every stored path in sorted order.
func (s *SQL) List(ctx context.Context) ([]string, error) {
	var paths []string
	if err := dbutil.QueryAll(ctx, s.db, &paths, `SELECT path FROM atom_document ORDER BY path`); err != nil {
		return nil, fmt.Errorf("error querying atom_document: %w", err)
	}
	return paths, nil
}

// Close closes the database.
func (s *SQL) Close() error { return s.db.Close() }
