package handler

import (
	"net/http"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
)

// AuthHandler handles registration, login and current-user requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister creates an account.
// POST /api/users
// Request:  JSON {"name","email","password"} or multipart with the same fields and an optional "file"
// Response: {"token": "...", "user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var upload *domain.Upload

	if isMultipart(r) {
		form, err := readMultipart(w, r)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
			return
		}
		req.Name = form.value("name")
		req.Email = form.value("email")
		req.Password = form.value("password")
		upload = form.upload
	} else if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	token, user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, upload)
	if err != nil {
		writeServiceError(w, r, "register user", err, userReply)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleLogin exchanges credentials for a token.
// POST /api/auth
// Request:  {"email":"...","password":"..."}
// Response: {"token": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login user", err, userReply)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the authenticated user.
// GET /api/auth
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "get current user", err, userReply)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
