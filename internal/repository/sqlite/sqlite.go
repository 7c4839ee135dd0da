package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/migrations"
	_ "modernc.org/sqlite"
)

// Verify that *DB implements domain.Database at compile time.
var _ domain.Database = (*DB)(nil)

// DB is the embedded document store. Each document is kept as a BSON body
// next to the columns it is looked up by.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps the per-connection pragmas below in effect.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// NewFromConn wraps an already opened connection. It is used with drivers
// other than SQLite in tests.
func NewFromConn(db *sql.DB) *DB {
	return &DB{SqlDB: db}
}

// Migrate applies pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Users() domain.UserRepository       { return NewUserRepository(d) }
func (d *DB) Profiles() domain.ProfileRepository { return NewProfileRepository(d) }
func (d *DB) Posts() domain.PostRepository       { return NewPostRepository(d) }

// FileStore returns a domain.FileStore that keeps file bytes as BLOBs.
func (d *DB) FileStore() domain.FileStore {
	return &fileStore{db: d.SqlDB}
}
