package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/middleware"

	"go.uber.org/zap"
)

// respondWithServiceError maps a service error onto the response envelope.
// Only validation messages are echoed; everything else gets a fixed message
// and internal detail goes to the log.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
			middleware.RespondWithValidationErrors(w, fields)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// validationMessage strips wrapping context so only the reason reaches the
// client, e.g. "malformed cursor".
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return "invalid request"
}

// respondWithDecodeError answers a body that failed DecodeAndValidate.
func respondWithDecodeError(w http.ResponseWriter, err error) {
	if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
		middleware.RespondWithValidationErrors(w, fields)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

// pageParams reads the cursor and limit query parameters. A limit below one
// is raised to one.
func pageParams(r *http.Request) (cursor string, limit int, ok bool) {
	cursor = r.URL.Query().Get("cursor")
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return cursor, 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, false
	}
	return cursor, max(1, n), true
}

// DeleteManyRequest lists the ids to remove in one call
type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

// DeleteManyResponse reports how many of the requested ids existed
type DeleteManyResponse struct {
	DeletedCount int      `json:"deletedCount"`
	IDs          []string `json:"ids"`
}

// DeleteResponse reports whether a single delete removed anything
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// nonEmpty drops blank ids from a bulk delete request.
func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
