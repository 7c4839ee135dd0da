package mongo

import (
	"context"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository implements domain.PostRepository on the posts collection.
type PostRepository struct {
	coll *mongo.Collection
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Post, error) {
	post, err := findOne[domain.Post](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	posts := []domain.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	if err := replaceByID(ctx, r.coll, post.ID, post); err != nil {
		return fmt.Errorf("replace post: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := deleteOne(ctx, r.coll, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
