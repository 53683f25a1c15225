// internal/handler/message_handler.go
package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/silversky/partnersms-backend/internal/service"
)

// MessageHandler serves conversation threads and the inbox view.
type MessageHandler struct {
	Conversation *service.ConversationService
}

// Thread returns a partner's full message history, marking unread
// inbound entries read.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	messages, err := h.Conversation.GetThread(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Conversation.Conversations()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// ExportThread downloads a thread as plain text.
func (h *MessageHandler) ExportThread(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	content, err := h.Conversation.ExportThread(id, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=conversation_%d.txt", id))
	w.Write([]byte(content))
}
