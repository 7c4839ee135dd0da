package mongo

import (
	"context"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ProfileRepository implements domain.ProfileRepository on the profiles collection.
type ProfileRepository struct {
	coll *mongo.Collection
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = bson.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", profile.UserID.Hex(), domain.ErrDuplicateProfile)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID bson.ObjectID) (*domain.Profile, error) {
	profile, err := findOne[domain.Profile](ctx, r.coll, bson.D{{Key: "user", Value: userID}})
	if err != nil {
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	profiles := []domain.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if err := replaceByID(ctx, r.coll, profile.ID, profile); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	if err := deleteOne(ctx, r.coll, bson.D{{Key: "user", Value: userID}}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
