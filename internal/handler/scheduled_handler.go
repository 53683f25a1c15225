// internal/handler/scheduled_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/silversky/partnersms-backend/internal/service"
)

// ScheduledHandler manages parked broadcasts.
type ScheduledHandler struct {
	Scheduler *service.SchedulerService
}

func (h *ScheduledHandler) List(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Scheduler.ListPending()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *ScheduledHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message       string  `json:"message"`
		PartnerIDs    []int64 `json:"partner_ids"`
		MediaURL      string  `json:"media_url"`
		MediaType     string  `json:"media_type"`
		ScheduledTime string  `json:"scheduled_time"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	at, err := time.Parse(time.RFC3339, body.ScheduledTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scheduled_time must be RFC3339"})
		return
	}

	var media *service.Media
	if body.MediaURL != "" {
		media = &service.Media{URL: body.MediaURL, Type: body.MediaType}
	}

	scheduled, err := h.Scheduler.Schedule(body.Message, body.PartnerIDs, media, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scheduled)
}

func (h *ScheduledHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.Scheduler.Cancel(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
