package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	doc, err := encode(user)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at, doc) VALUES (?, ?, ?, ?)`,
		user.ID.Hex(), user.Email, user.CreatedAt.UnixNano(), doc,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	user, err := decode[domain.User](r.db.QueryRowContext(ctx,
		`SELECT doc FROM users WHERE id = ?`, id.Hex(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := decode[domain.User](r.db.QueryRowContext(ctx,
		`SELECT doc FROM users WHERE email = ?`, email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(result)
}

// requireAffected maps a statement that touched no rows to domain.ErrNotFound.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
