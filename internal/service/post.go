package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostView is a post with its author and the authors of its comments
// resolved. Users that no longer exist are absent from People.
type PostView struct {
	*domain.Post
	People map[bson.ObjectID]*UserSummary
}

// Author returns the summary of the post's author, or nil.
func (v *PostView) Author() *UserSummary {
	return v.People[v.UserID]
}

// PostService manages posts and their likes and comments.
type PostService struct {
	posts  domain.PostRepository
	users  domain.UserRepository
	images *ImageService
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository, users domain.UserRepository, images *ImageService) *PostService {
	return &PostService{posts: posts, users: users, images: images}
}

// Create publishes a new post for userID with an optional image.
func (s *PostService) Create(ctx context.Context, userID bson.ObjectID, text string, image *domain.Upload) (*PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		verr := &domain.ValidationError{}
		verr.Add("text", "Text is required")
		return nil, verr
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	post := &domain.Post{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Text:      text,
		Likes:     []domain.Like{},
		Comments:  []domain.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	if image != nil && s.images != nil {
		key, err := s.images.Store(ctx, ImageKindPosts, image)
		if err != nil {
			return nil, fmt.Errorf("store post image: %w", err)
		}
		post.Image = key
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.view(ctx, post, nil)
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	people := make(map[bson.ObjectID]*UserSummary)
	views := make([]PostView, len(posts))
	for i := range posts {
		v, err := s.view(ctx, &posts[i], people)
		if err != nil {
			return nil, err
		}
		views[i] = *v
	}
	return views, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (*PostView, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return s.view(ctx, post, nil)
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, id bson.ObjectID) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post.UserID != userID {
		return domain.ErrForbidden
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.discardImage(ctx, post.Image)
	return nil
}

// ToggleLike likes the post for userID, or unlikes it when userID already
// liked it. It returns the resulting likes.
func (s *PostService) ToggleLike(ctx context.Context, userID, id bson.ObjectID) ([]domain.Like, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	post.Likes, _ = ToggleLike(post.Likes, userID)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post.Likes, nil
}

// AddComment inserts a comment by userID at the front of the post's comments.
func (s *PostService) AddComment(ctx context.Context, userID, id bson.ObjectID, text string) (*PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		verr := &domain.ValidationError{}
		verr.Add("text", "Text is required")
		return nil, verr
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	post.Comments, _ = InsertFront(post.Comments, domain.Comment{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.view(ctx, post, nil)
}

// ErrCommentNotFound is returned by RemoveComment when the post has no
// comment with the requested id.
var ErrCommentNotFound = fmt.Errorf("comment %w", domain.ErrNotFound)

// RemoveComment deletes one of the post's comments. Only the comment's
// author may do so.
func (s *PostService) RemoveComment(ctx context.Context, userID, id, commentID bson.ObjectID) (*PostView, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	comment, ok := FindByID(post.Comments, commentID)
	if !ok {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, domain.ErrForbidden
	}

	post.Comments, _ = RemoveByID(post.Comments, commentID)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.view(ctx, post, nil)
}

// view resolves the people referenced by post, consulting and filling
// people when it is non-nil.
func (s *PostService) view(ctx context.Context, post *domain.Post, people map[bson.ObjectID]*UserSummary) (*PostView, error) {
	if people == nil {
		people = make(map[bson.ObjectID]*UserSummary)
	}

	ids := make([]bson.ObjectID, 0, len(post.Comments)+1)
	ids = append(ids, post.UserID)
	for _, c := range post.Comments {
		ids = append(ids, c.UserID)
	}

	for _, id := range ids {
		if _, seen := people[id]; seen {
			continue
		}
		user, err := s.users.GetByID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		people[id] = summarize(user)
	}
	return &PostView{Post: post, People: people}, nil
}

func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		slog.Warn("discard post image", "key", key, "error", err)
	}
}
