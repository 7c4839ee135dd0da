package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostRepository implements domain.PostRepository using SQLite.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLite-backed PostRepository.
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db.SqlDB}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	doc, err := encode(post)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		post.ID.Hex(), post.UserID.Hex(), post.CreatedAt.UnixNano(), doc,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Post, error) {
	post, err := decode[domain.Post](r.db.QueryRowContext(ctx,
		`SELECT doc FROM posts WHERE id = ?`, id.Hex(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query post by id: %w", err)
	}
	return post, nil
}

// List returns all posts, newest first. Ties on creation time fall back to
// the id, whose leading bytes are its own creation timestamp.
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := decode[domain.Post](rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	doc, err := encode(post)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET doc = ? WHERE id = ?`, doc, post.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return requireAffected(result)
}

func (r *PostRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(result)
}
