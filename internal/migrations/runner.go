package migrations

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"time"
)

// table records every applied migration with a checksum of its contents.
const table = "schema_migrations"

// ErrChecksumMismatch is returned when a migration file changed after it was
// applied.
var ErrChecksumMismatch = errors.New("migration checksum mismatch")

// Run applies the embedded migrations.
func Run(ctx context.Context, db *sql.DB) error {
	_, err := Apply(ctx, db, FS)
	return err
}

// Apply runs every *.sql file at the root of fsys that is not yet recorded
// in schema_migrations, in lexical order, each in its own transaction. It
// returns the number of files applied.
func Apply(ctx context.Context, db *sql.DB, fsys fs.FS) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
		filename   TEXT PRIMARY KEY,
		checksum   TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("create %s: %w", table, err)
	}

	recorded, err := loadRecorded(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", table, err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(files)

	applied := 0
	for _, name := range files {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		sum := checksum(body)

		if prev, ok := recorded[name]; ok {
			if prev != sum {
				return applied, fmt.Errorf("migration %s: %w", name, ErrChecksumMismatch)
			}
			continue
		}

		if err := applyOne(ctx, db, name, string(body), sum); err != nil {
			return applied, fmt.Errorf("apply migration %s to %s: %w", name, table, err)
		}
		slog.Info("migration applied", "file", name)
		applied++
	}

	slog.Info("migrations complete", "driver", "sqlite", "applied", applied, "total", len(files))
	return applied, nil
}

func loadRecorded(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename, checksum FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recorded := make(map[string]string)
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		recorded[name] = sum
	}
	return recorded, rows.Err()
}

func applyOne(ctx context.Context, db *sql.DB, name, body, sum string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" (filename, checksum, applied_at) VALUES (?, ?, ?)",
		name, sum, time.Now().UTC().UnixNano(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

func checksum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
