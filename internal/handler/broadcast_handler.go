// internal/handler/broadcast_handler.go
package handler

import (
	"net/http"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/service"
)

// BroadcastHandler exposes segment preview, one-off send and batch
// broadcast.
type BroadcastHandler struct {
	Broadcast *service.BroadcastService
}

type broadcastRequest struct {
	Message    string           `json:"message"`
	Criteria   service.Criteria `json:"criteria"`
	PartnerIDs []int64          `json:"partner_ids"`
	MediaURL   string           `json:"media_url"`
	MediaType  string           `json:"media_type"`
}

func (req *broadcastRequest) media() *service.Media {
	if req.MediaURL == "" {
		return nil
	}
	return &service.Media{URL: req.MediaURL, Type: req.MediaType}
}

// segment resolves explicit partner ids when given, criteria otherwise.
func (h *BroadcastHandler) segment(req broadcastRequest) ([]model.Partner, error) {
	if len(req.PartnerIDs) == 0 {
		return h.Broadcast.Segment(req.Criteria)
	}
	segment := []model.Partner{}
	for _, pid := range req.PartnerIDs {
		partner, err := h.Broadcast.PartnerRepo.GetByID(pid)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			return nil, appErrors.NewNotFound("partner", pid)
		}
		segment = append(segment, *partner)
	}
	return segment, nil
}

// PreviewSegment returns the partners a criteria set would reach,
// without sending anything.
func (h *BroadcastHandler) PreviewSegment(w http.ResponseWriter, r *http.Request) {
	var criteria service.Criteria
	if !decodeBody(w, r, &criteria) {
		return
	}
	segment, err := h.Broadcast.Segment(criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(segment),
		"partners": segment,
	})
}

func (h *BroadcastHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PartnerID int64  `json:"partner_id"`
		Message   string `json:"message"`
		MediaURL  string `json:"media_url"`
		MediaType string `json:"media_type"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	var media *service.Media
	if body.MediaURL != "" {
		media = &service.Media{URL: body.MediaURL, Type: body.MediaType}
	}
	rec, err := h.Broadcast.SendToPartner(r.Context(), body.PartnerID, body.Message, media)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *BroadcastHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !decodeBody(w, r, &req) {
		return
	}
	segment, err := h.segment(req)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.Broadcast.Dispatch(r.Context(), segment, req.Message, req.media())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BroadcastHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PartnerID int64  `json:"partner_id"`
		Message   string `json:"message"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	rendered, err := h.Broadcast.Preview(body.PartnerID, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rendered_message": rendered,
		"partner_id":       body.PartnerID,
	})
}

func (h *BroadcastHandler) Variables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"variables": service.TemplateVariables()})
}
