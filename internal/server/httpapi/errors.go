package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

type errorItem struct {
	Code string `json:"code"`
}

type errorEnvelope struct {
	Errors []errorItem `json:"errors"`
}

// writeError maps a service error to a status code and the stable error-code
// envelope. Messages never cross the wire; clients localize from codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	codes := []string{common.CodeInternal}

	var vErr *validatex.Error
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
		codes = vErr.Codes
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
		codes = []string{"ERR_VALIDATION"}
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		codes = []string{common.CodeNotFound}
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
		codes = []string{common.CodeUnauthorized}
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
		codes = []string{common.CodeMemberOnly}
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
		codes = []string{common.CodeConflict}
	default:
		s.logger.Error(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	items := make([]errorItem, 0, len(codes))
	for _, code := range codes {
		items = append(items, errorItem{Code: code})
	}
	writeJSON(w, status, errorEnvelope{Errors: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
