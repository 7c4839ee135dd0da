package mongo

import (
	"context"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository implements domain.UserRepository on the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	user, err := findOne[domain.User](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := findOne[domain.User](ctx, r.coll, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := deleteOne(ctx, r.coll, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
