package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileHandler handles profile, experience and education requests.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleList returns every profile.
// GET /api/profile
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.profiles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list profiles", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileViewDTOs(views))
}

// HandleMe returns the caller's profile.
// GET /api/profile/me
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	h.writeProfile(w, r, userID)
}

// HandleGetByUser returns the profile of the given user.
// GET /api/profile/user/{user_id}
func (h *ProfileHandler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	h.writeProfile(w, r, userID)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID bson.ObjectID) {
	view, err := h.profiles.GetByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "get profile", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileViewDTO(view))
}

// HandleUpsert creates or updates the caller's profile.
// POST /api/profile
// Request: {"status","skills","company","website","location","bio","githubusername",
//
//	"youtube","twitter","facebook","linkedin","instagram"}
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req struct {
		Company        string `json:"company"`
		Website        string `json:"website"`
		Location       string `json:"location"`
		Bio            string `json:"bio"`
		Status         string `json:"status"`
		GitHubUsername string `json:"githubusername"`
		Skills         string `json:"skills"`
		YouTube        string `json:"youtube"`
		Twitter        string `json:"twitter"`
		Facebook       string `json:"facebook"`
		LinkedIn       string `json:"linkedin"`
		Instagram      string `json:"instagram"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	view, err := h.profiles.Upsert(r.Context(), userID, service.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Skills:         req.Skills,
		Social: domain.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		writeServiceError(w, r, "upsert profile", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileViewDTO(view))
}

// HandleDeleteAccount removes the caller's profile and user.
// DELETE /api/profile
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.profiles.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, r, "delete account", err, userReply)
		return
	}
	writeMsg(w, http.StatusOK, "The user has been deleted successfully")
}

type entryRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	Location     string `json:"location"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (e entryRequest) input() service.EntryInput {
	return service.EntryInput(e)
}

// HandleAddExperience adds an experience entry to the caller's profile.
// PUT /api/profile/experience
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req entryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, req.input())
	if err != nil {
		writeServiceError(w, r, "add experience", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleRemoveExperience removes an experience entry from the caller's profile.
// DELETE /api/profile/experience/{exp_id}
func (h *ProfileHandler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	entryID, ok := pathID(w, r, "exp_id")
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveExperience(r.Context(), userID, entryID)
	if err != nil {
		writeServiceError(w, r, "remove experience", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleAddEducation adds an education entry to the caller's profile.
// PUT /api/profile/education
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req entryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidBody})
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, req.input())
	if err != nil {
		writeServiceError(w, r, "add education", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleRemoveEducation removes an education entry from the caller's profile.
// DELETE /api/profile/education/{edu_id}
func (h *ProfileHandler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	entryID, ok := pathID(w, r, "edu_id")
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveEducation(r.Context(), userID, entryID)
	if err != nil {
		writeServiceError(w, r, "remove education", err, profileReply)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleGitHubRepos passes through a GitHub user's latest repositories.
// GET /api/profile/github/{username}
func (h *ProfileHandler) HandleGitHubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.profiles.GitHubRepos(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMsg(w, http.StatusNotFound, "No Github Profile found")
			return
		}
		writeServiceError(w, r, "github repos", err, errorReply{})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(repos)
}

// pathID parses the named path value as an object id, writing a 422 when
// it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		writeServiceError(w, r, "parse id", domain.InvalidID(name), errorReply{})
		return bson.NilObjectID, false
	}
	return id, true
}
