// Package mongo implements the document store on a MongoDB server.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"

	disconnectTimeout = 5 * time.Second
)

// Verify that *DB implements domain.Database at compile time.
var _ domain.Database = (*DB)(nil)

// DB is a domain.Database backed by one MongoDB database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the server at uri and verifies the connection.
func New(ctx context.Context, uri, name string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &DB{client: client, db: client.Database(name)}, nil
}

// Migrate creates the indexes the repositories rely on. It is idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	indexes := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{profilesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{postsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "date", Value: -1}},
		}},
	}
	for _, ix := range indexes {
		if _, err := d.db.Collection(ix.coll).Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("create %s index: %w", ix.coll, err)
		}
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func (d *DB) Users() domain.UserRepository {
	return &UserRepository{coll: d.db.Collection(usersCollection)}
}

func (d *DB) Profiles() domain.ProfileRepository {
	return &ProfileRepository{coll: d.db.Collection(profilesCollection)}
}

func (d *DB) Posts() domain.PostRepository {
	return &PostRepository{coll: d.db.Collection(postsCollection)}
}

// findOne decodes the single document matching filter into a new T.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	v := new(T)
	if err := coll.FindOne(ctx, filter).Decode(v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// replaceByID replaces the whole document whose _id equals id.
func replaceByID(ctx context.Context, coll *mongo.Collection, id bson.ObjectID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter any) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
