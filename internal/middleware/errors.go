package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every handled failure
type ErrorBody struct {
	Message   string   `json:"message"`
	Code      string   `json:"code"`
	RequestID string   `json:"requestId,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{service.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
	{service.ErrDuplicateEmail, http.StatusBadRequest, "duplicate_email"},
	{service.ErrDuplicateUsername, http.StatusBadRequest, "duplicate_username"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{service.ErrMissingCredential, http.StatusUnauthorized, "missing_credential"},
	{service.ErrUnknownUser, http.StatusUnauthorized, "unknown_user"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
}

// Classify maps an error from the service layer to a status code, a stable
// machine-readable code and a client-safe message.
func Classify(err error) (status int, code, message string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code, k.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal_error", "Internal server error"
}

// RespondError writes err as a JSON error body and aborts the chain.
func RespondError(c *gin.Context, err error) {
	status, _, _ := Classify(err)
	RespondErrorStatus(c, status, err)
}

// RespondErrorStatus is RespondError with the status code forced.
func RespondErrorStatus(c *gin.Context, status int, err error) {
	_, code, message := Classify(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "err", err, "route", c.FullPath(), "request_id", RequestIDFromContext(c))
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		Code:      code,
		RequestID: RequestIDFromContext(c),
	})
}
