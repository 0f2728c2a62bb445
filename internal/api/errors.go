package api

import (
	"encoding/json"
	"net/http"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// errorPayload is the JSON body of every failure response.
type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps error codes to HTTP statuses. Everything the caller can
// fix is a 4xx; anything else is a 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidZone,
		errors.ErrCodeInvalidMapping,
		errors.ErrCodeInvalidMode,
		errors.ErrCodeParseFailure,
		errors.ErrCodeCorruptArchive,
		errors.ErrCodeUnsupportedCodec,
		errors.ErrCodeEmptyArchive,
		errors.ErrCodeRowImageMissing,
		errors.ErrCodeRowImageColumnEmpty,
		errors.ErrCodeInsufficientImages,
		errors.ErrCodeTooManyRows:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports a failure to the caller. Structured errors surface
// their message and underlying detail; anything else is logged and
// reported as a generic internal error without leaking internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	payload := errorPayload{
		Error:   errors.UserMessage(err),
		Details: errors.Detail(err),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error",
			"err", err,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
		)
		payload = errorPayload{Error: "internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
