package httpapi

import (
	"net/http"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/service"
	"github.com/go-chi/chi/v5"
)

// Handler serves the /api routes.
type Handler struct {
	sessions service.SessionService
	settings service.SettingsService
	summary  service.SummaryService
	reports  service.ReportService
	errs     errorResponder
}

// RegisterRoutes mounts every API route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
		r.Get("/current", h.handleCurrent)
		r.Get("/", h.handleListSessions)
		r.Post("/", h.handleCreateSession)
		r.Get("/{id}", h.handleGetSession)
		r.Patch("/{id}", h.handleUpdateSession)
		r.Delete("/{id}", h.handleDeleteSession)
	})
	r.Get("/summary", h.handleSummary)
	r.Get("/report", h.handleReport)
	r.Get("/settings", h.handleGetSettings)
	r.Put("/settings", h.handleUpdateSettings)
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	var body clockInBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	resp, err := h.sessions.ClockIn(r.Context(), contract.ClockInRequest{
		StartedAt:      body.StartedAt,
		IdempotencyKey: body.IdempotencyKey,
		ViaShortcut:    viaAPIKey(r.Context()),
		Details: domain.SessionDetails{
			LocationLabel: body.LocationLabel,
			Latitude:      body.Latitude,
			Longitude:     body.Longitude,
			Notes:         body.Notes,
		},
	})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyClockedIn {
		status = http.StatusOK
	}
	RespondJSON(w, status, map[string]any{
		"alreadyClockedIn": resp.AlreadyClockedIn,
		"session":          toSessionJSON(resp.Session),
	})
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	var body clockOutBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	resp, err := h.sessions.ClockOut(r.Context(), contract.ClockOutRequest{
		EndedAt:        body.EndedAt,
		IdempotencyKey: body.IdempotencyKey,
	})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"session": toSessionJSON(resp.Session)})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := h.sessions.Current(r.Context())
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"session": toSessionJSON(current)})
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessions, err := h.sessions.List(r.Context(), contract.ListSessionsRequest{
		From: q.Get("from"),
		To:   q.Get("to"),
	})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"sessions": toSessionsJSON(sessions)})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"session": toSessionJSON(session)})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	req, err := body.toRequest()
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	resp, err := h.sessions.Create(r.Context(), req)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	out := map[string]any{"session": toSessionJSON(resp.Session)}
	if resp.Warning != "" {
		out["warning"] = resp.Warning
		out["overlappingSessionId"] = resp.OverlappingSessionID
	}
	RespondJSON(w, http.StatusCreated, out)
}

func (h *Handler) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var body updateSessionBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	req, err := body.toRequest()
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	session, err := h.sessions.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"session": toSessionJSON(session)})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sum, err := h.summary.Summary(r.Context(), contract.SummaryRequest{From: q.Get("from"), To: q.Get("to")})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summaryJSON{
		From:               sum.From,
		To:                 sum.To,
		Timezone:           sum.Zone,
		Days:               sum.Days,
		TotalWorkedMinutes: sum.TotalWorkedMinutes,
		TotalTilMinutes:    sum.TotalTilMinutes,
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.reports.Render(r.Context(), contract.ReportRequest{
		SummaryRequest: contract.SummaryRequest{From: q.Get("from"), To: q.Get("to")},
		Format:         contract.ReportFormat(q.Get("format")),
	})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	switch resp.Format {
	case contract.ReportHTML:
		w.Header().Set("Content-Disposition", `inline; filename="`+resp.Filename+`"`)
	case contract.ReportCSV:
		w.Header().Set("Content-Disposition", `attachment; filename="`+resp.Filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toSettingsJSON(settings))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body updateSettingsBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	settings, err := h.settings.Update(r.Context(), body.toPatch())
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toSettingsJSON(settings))
}
