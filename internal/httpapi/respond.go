package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/repository"
	"github.com/alexanderramin/toil/internal/service"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondJSON writes payload as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError writes an error body.
func RespondError(w http.ResponseWriter, status int, name, message string) {
	RespondJSON(w, status, errorBody{Error: name, Message: message})
}

// errorResponder maps service errors onto HTTP statuses.
type errorResponder struct {
	logger     zerolog.Logger
	production bool
}

func (e errorResponder) respond(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		RespondError(w, http.StatusBadRequest, "Validation Error", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		RespondError(w, http.StatusNotFound, "Not Found", "Session not found")
	case errors.Is(err, service.ErrNoOpenSession):
		RespondError(w, http.StatusConflict, "Conflict", "No open session found. Please clock in before clocking out.")
	default:
		e.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Unhandled error")
		message := err.Error()
		if e.production {
			message = "Internal Server Error"
		}
		RespondError(w, http.StatusInternalServerError, "Internal Server Error", message)
	}
}
