package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a status update written by a user.
type Post struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    bson.ObjectID `bson:"user"`
	Text      string        `bson:"text"`
	Image     string        `bson:"image,omitempty"`
	Likes     []Like        `bson:"likes"`
	Comments  []Comment     `bson:"comments"`
	CreatedAt time.Time     `bson:"date"`
}

// Like records that a user liked a post. A post holds at most one like per user.
type Like struct {
	ID     bson.ObjectID `bson:"_id"`
	UserID bson.ObjectID `bson:"user"`
}

func (l Like) EntryID() bson.ObjectID       { return l.ID }
func (l *Like) SetEntryID(id bson.ObjectID) { l.ID = id }

// Comment is a reply embedded in a post.
type Comment struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    bson.ObjectID `bson:"user"`
	Text      string        `bson:"text"`
	CreatedAt time.Time     `bson:"date"`
}

func (c Comment) EntryID() bson.ObjectID       { return c.ID }
func (c *Comment) SetEntryID(id bson.ObjectID) { c.ID = id }

// PostRepository defines persistence operations for posts.
// Update replaces the whole stored document, embedded collections included.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id bson.ObjectID) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id bson.ObjectID) error
}
