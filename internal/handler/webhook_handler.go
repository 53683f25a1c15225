// internal/handler/webhook_handler.go
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/service"
)

// WebhookHandler receives transport callbacks. Twilio posts
// application/x-www-form-urlencoded bodies.
type WebhookHandler struct {
	Conversation *service.ConversationService
	MessageRepo  repository.MessageRepositoryInterface
	SendRepo     repository.SendRecordRepositoryInterface
	Log          *zap.Logger
}

// Incoming handles a new inbound message. Delivery is at-least-once;
// duplicates are an accepted limitation.
func (h *WebhookHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := r.FormValue("From")
	body := r.FormValue("Body")

	mediaURL, mediaType := "", ""
	if numMedia, _ := strconv.Atoi(r.FormValue("NumMedia")); numMedia > 0 {
		mediaURL = r.FormValue("MediaUrl0")
		contentType := r.FormValue("MediaContentType0")
		switch {
		case strings.Contains(contentType, "image"):
			mediaType = "image"
		case strings.Contains(contentType, "video"):
			mediaType = "video"
		case strings.Contains(contentType, "audio"):
			mediaType = "audio"
		}
	}

	if _, err := h.Conversation.RecordInbound(from, body, mediaURL, mediaType); err != nil {
		h.Log.Error("failed to record inbound message", zap.String("from", from), zap.Error(err))
		http.Error(w, "failed to record message", http.StatusInternalServerError)
		return
	}

	// Empty TwiML response: acknowledge without auto-replying.
	w.Header().Set("Content-Type", "text/xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`))
}

// Status handles delivery status callbacks, updating the matching
// thread entry and send record.
func (h *WebhookHandler) Status(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sid := r.FormValue("MessageSid")
	status := r.FormValue("MessageStatus")
	if sid == "" || status == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.MessageRepo.UpdateStatusBySID(sid, model.MessageStatus(status)); err != nil {
		h.Log.Warn("failed to update message status", zap.String("sid", sid), zap.Error(err))
	}
	if status == "failed" || status == "undelivered" {
		if err := h.SendRepo.UpdateStatusBySID(sid, model.SendStatusFailed); err != nil {
			h.Log.Warn("failed to update send record status", zap.String("sid", sid), zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusOK)
}
