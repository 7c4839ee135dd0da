package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
)

// PostHandler handles post, like and comment requests.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// HandleCreate publishes a post.
// POST /api/posts
// Request: JSON {"text"} or multipart with "text" and an optional "file"
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	var upload *domain.Upload

	if isMultipart(r) {
		form, err := readMultipart(w, r)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
			return
		}
		req.Text = form.value("text")
		upload = form.upload
	} else if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	view, err := h.posts.Create(r.Context(), userID, req.Text, upload)
	if err != nil {
		writeServiceError(w, r, "create post", err, userReply)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(view))
}

// HandleList returns all posts, newest first.
// GET /api/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.posts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list posts", err, postReply)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTOs(views))
}

// HandleGet returns one post.
// GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get post", err, postReply)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(view))
}

// HandleDelete removes one of the caller's posts.
// DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, "delete post", err, postReply)
		return
	}
	writeMsg(w, http.StatusOK, "Post removed")
}

// HandleToggleLike likes or unlikes a post and returns its likes.
// PUT /api/posts/like/{id}
func (h *PostHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	likes, err := h.posts.ToggleLike(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, r, "toggle like", err, postReply)
		return
	}
	writeJSON(w, http.StatusOK, toLikeDTOs(likes))
}

// HandleAddComment comments on a post.
// POST /api/posts/comment/{id}
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	view, err := h.posts.AddComment(r.Context(), userID, id, req.Text)
	if err != nil {
		writeServiceError(w, r, "add comment", err, postReply)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(view))
}

// HandleRemoveComment removes one of the caller's comments.
// DELETE /api/posts/comment/{id}/{comment_id}
func (h *PostHandler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	view, err := h.posts.RemoveComment(r.Context(), userID, id, commentID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			writeMsg(w, http.StatusNotFound, "Comment does not exist")
			return
		}
		writeServiceError(w, r, "remove comment", err, errorReply{
			notFound:        postReply.notFound,
			forbiddenStatus: http.StatusNotFound,
		})
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(view))
}
