package api

import (
	"encoding/json"
	"net/http"

	"github.com/sudotliu/bonsai/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps error codes onto HTTP statuses. Unknown codes are treated
// as internal failures.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidTree,
		errors.ErrCodeInvalidConfiguration:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeDocumentNotFound,
		errors.ErrCodeNodeNotFound,
		errors.ErrCodeUnidentifiedRoot:
		return http.StatusNotFound
	case errors.ErrCodeMaxDepthExceeded,
		errors.ErrCodeOutOfRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a JSON error response with the mapped status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
	respondJSON(w, status, errorBody{Error: errorDetail{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: requestIDFromContext(r.Context()),
	}})
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
