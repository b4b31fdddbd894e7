package web

// errors.go maps action errors onto HTTP responses.
//
// Every action error is logged with the request ID and returned to the user as
// a readable message. None of them stop the server: the user fixes the upload
// and presses the button again.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ginjaninja78/grn-comparison/internal/logging"
	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/ginjaninja78/grn-comparison/internal/types"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// classifyError returns the HTTP status and machine-readable code for err.
func classifyError(err error) (int, string) {
	var missing *types.MissingColumnError
	var malformed *types.MalformedInputError

	switch {
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, "missing_column"
	case errors.As(err, &malformed):
		return http.StatusBadRequest, "malformed_input"
	default:
		return http.StatusInternalServerError, "unexpected"
	}
}

// respondError renders an action error inside the shell page.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	logError(r, err, status, code)

	s.renderPage(w, r, status, page{Error: reporter.Describe(err)})
}

// respondErrorJSON writes an action error as JSON.
func (s *Server) respondErrorJSON(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	logError(r, err, status, code)

	writeErrorJSON(w, status, code, err.Error())
}

func writeErrorJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Message: message,
		Code:    code,
	})
}

func logError(r *http.Request, err error, status int, code string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)
}
