package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/dev-connect/internal/domain"
)

const (
	msgServerError        = "Server Error"
	msgNotAuthorized      = "User not authorized"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid Credentials"
	msgInvalidBody        = "Invalid request body"
)

// errorReply tells writeServiceError how a route words the outcomes that
// differ between routes.
type errorReply struct {
	notFound        string
	forbiddenStatus int
}

var (
	profileReply = errorReply{notFound: "No Profile found for this user"}
	postReply    = errorReply{notFound: "Post not found", forbiddenStatus: http.StatusUnauthorized}
	userReply    = errorReply{notFound: "User not found"}
)

// writeServiceError maps a service error to its HTTP response. Unexpected
// errors are logged with op and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, reply errorReply) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrors(w, http.StatusUnprocessableEntity, verr.Errors...)
	case errors.Is(err, domain.ErrInvalidInput):
		writeErrors(w, http.StatusUnprocessableEntity, domain.FieldError{Msg: err.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgUserExists})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeErrors(w, http.StatusBadRequest, domain.FieldError{Msg: msgInvalidCredentials})
	case errors.Is(err, domain.ErrInvalidToken):
		writeMsg(w, http.StatusUnauthorized, msgTokenInvalid)
	case errors.Is(err, domain.ErrForbidden):
		status := reply.forbiddenStatus
		if status == 0 {
			status = http.StatusUnauthorized
		}
		writeMsg(w, status, msgNotAuthorized)
	case errors.Is(err, domain.ErrNotFound):
		msg := reply.notFound
		if msg == "" {
			msg = "Not found"
		}
		writeMsg(w, http.StatusNotFound, msg)
	default:
		slog.ErrorContext(r.Context(), op, "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeMsg(w, http.StatusInternalServerError, msgServerError)
	}
}
