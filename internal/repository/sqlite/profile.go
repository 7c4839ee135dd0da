package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileRepository implements domain.ProfileRepository using SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite-backed ProfileRepository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.SqlDB}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = bson.NewObjectID()
	}
	doc, err := encode(profile)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		profile.ID.Hex(), profile.UserID.Hex(), profile.CreatedAt.UnixNano(), doc,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("user %s: %w", profile.UserID.Hex(), domain.ErrDuplicateProfile)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID bson.ObjectID) (*domain.Profile, error) {
	profile, err := decode[domain.Profile](r.db.QueryRowContext(ctx,
		`SELECT doc FROM profiles WHERE user_id = ?`, userID.Hex(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query profile by user: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := decode[domain.Profile](rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	doc, err := encode(profile)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET doc = ? WHERE id = ?`, doc, profile.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(result)
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID.Hex())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireAffected(result)
}
