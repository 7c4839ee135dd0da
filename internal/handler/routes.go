package handler

import (
	"net/http"

	"github.com/msomdec/dev-connect/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. limiter guards
// registration and login; metrics may be nil.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	profiles *service.ProfileService,
	posts *service.PostService,
	images *service.ImageService,
	limiter service.RateLimiter,
	db Pinger,
	metrics *Metrics,
) {
	authHandler := NewAuthHandler(auth)
	profileHandler := NewProfileHandler(profiles)
	postHandler := NewPostHandler(posts)
	uploadHandler := NewUploadHandler(images)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth.Tokens(), h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return RateLimit(limiter, metrics, h)
	}

	// Operational endpoints.
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /readyz", HandleReadyz(db))
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Users and auth.
	mux.Handle("POST /api/users", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth", limited(authHandler.HandleLogin))
	mux.Handle("GET /api/auth", requireAuth(authHandler.HandleMe))

	// Profiles.
	mux.HandleFunc("GET /api/profile", profileHandler.HandleList)
	mux.Handle("GET /api/profile/me", requireAuth(profileHandler.HandleMe))
	mux.HandleFunc("GET /api/profile/user/{user_id}", profileHandler.HandleGetByUser)
	mux.Handle("POST /api/profile", requireAuth(profileHandler.HandleUpsert))
	mux.Handle("DELETE /api/profile", requireAuth(profileHandler.HandleDeleteAccount))
	mux.Handle("PUT /api/profile/experience", requireAuth(profileHandler.HandleAddExperience))
	mux.Handle("DELETE /api/profile/experience/{exp_id}", requireAuth(profileHandler.HandleRemoveExperience))
	mux.Handle("PUT /api/profile/education", requireAuth(profileHandler.HandleAddEducation))
	mux.Handle("DELETE /api/profile/education/{edu_id}", requireAuth(profileHandler.HandleRemoveEducation))
	mux.HandleFunc("GET /api/profile/github/{username}", profileHandler.HandleGitHubRepos)

	// Posts.
	mux.Handle("POST /api/posts", requireAuth(postHandler.HandleCreate))
	mux.Handle("GET /api/posts", requireAuth(postHandler.HandleList))
	mux.Handle("GET /api/posts/{id}", requireAuth(postHandler.HandleGet))
	mux.Handle("DELETE /api/posts/{id}", requireAuth(postHandler.HandleDelete))
	mux.Handle("PUT /api/posts/like/{id}", requireAuth(postHandler.HandleToggleLike))
	mux.Handle("POST /api/posts/comment/{id}", requireAuth(postHandler.HandleAddComment))
	mux.Handle("DELETE /api/posts/comment/{id}/{comment_id}", requireAuth(postHandler.HandleRemoveComment))

	// Uploaded images.
	mux.HandleFunc("GET /uploads/{kind}/{name}", uploadHandler.HandleGet)
}
