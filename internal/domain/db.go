package domain

import "context"

// Database defines lifecycle operations for the underlying document store.
// Each implementation (SQLite, MongoDB) owns its own schema/index setup,
// ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	Users() UserRepository
	Profiles() ProfileRepository
	Posts() PostRepository
}
