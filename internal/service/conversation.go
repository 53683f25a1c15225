// internal/service/conversation.go
package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// Inbound messages whose whole body is one of these opt the partner out.
var optOutKeywords = map[string]bool{
	"stop": true, "unsubscribe": true, "cancel": true, "quit": true, "end": true,
}

// ReplyPublisher hands an inbound-reply summary to the notification
// relay. Fire and forget: failures never affect the recorded thread.
type ReplyPublisher interface {
	PublishReply(partnerName, body string) error
}

// ConversationService reconciles inbound replies and outbound sends into
// per-partner ordered threads.
type ConversationService struct {
	PartnerRepo        repository.PartnerRepositoryInterface
	MessageRepo        repository.MessageRepositoryInterface
	Publisher          ReplyPublisher
	DefaultPhoneRegion string
	Log                *zap.Logger
}

// RecordOutbound appends an outbound entry to the partner's thread.
// Failed attempts are recorded too, for audit visibility.
func (s *ConversationService) RecordOutbound(partnerID int64, body, mediaURL, mediaType string, status model.MessageStatus, transportSID string) (*model.Message, error) {
	msg := &model.Message{
		PartnerID:    partnerID,
		Direction:    model.DirectionOutbound,
		Body:         body,
		MediaURL:     mediaURL,
		MediaType:    mediaType,
		Status:       status,
		TransportSID: transportSID,
	}
	if err := s.MessageRepo.Append(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// RecordInbound resolves the sender address to a partner and appends an
// inbound entry. An address matching no partner gets a placeholder
// partner auto-created, so the message is never dropped and the number
// can later be linked to a real contact.
func (s *ConversationService) RecordInbound(fromAddress, body, mediaURL, mediaType string) (*model.Message, error) {
	address := fromAddress
	if normalized, err := sms.Normalize(fromAddress, s.DefaultPhoneRegion); err == nil {
		address = normalized
	}

	partner, err := s.PartnerRepo.GetByPhone(address)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		partner = &model.Partner{
			FirstName: address,
			Phone:     address,
			Notes:     "Auto-created from incoming message",
		}
		if err := s.PartnerRepo.Create(partner, nil, nil); err != nil {
			return nil, fmt.Errorf("create unknown-sender partner: %w", err)
		}
		s.Log.Info("created placeholder partner for unknown sender",
			zap.String("from", address), zap.Int64("partner_id", partner.ID))
	}

	if optOutKeywords[strings.ToLower(strings.TrimSpace(body))] {
		if err := s.PartnerRepo.SetOptedOut(partner.ID, true); err != nil {
			s.Log.Warn("failed to record opt-out", zap.Int64("partner_id", partner.ID), zap.Error(err))
		} else {
			s.Log.Info("partner opted out", zap.Int64("partner_id", partner.ID))
		}
	}

	msg := &model.Message{
		PartnerID: partner.ID,
		Direction: model.DirectionInbound,
		Body:      body,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Status:    model.MessageStatusReceived,
	}
	if err := s.MessageRepo.Append(msg); err != nil {
		return nil, err
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishReply(partner.FullName(), body); err != nil {
			s.Log.Warn("reply notification publish failed", zap.Error(err))
		}
	}

	return msg, nil
}

// GetThread returns the partner's full thread oldest-first and marks
// unread inbound entries as read.
func (s *ConversationService) GetThread(partnerID int64) ([]model.Message, error) {
	partner, err := s.PartnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, appErrors.NewNotFound("partner", partnerID)
	}

	messages, err := s.MessageRepo.ListByPartner(partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.MessageRepo.MarkThreadRead(partnerID); err != nil {
		s.Log.Warn("failed to mark thread read", zap.Int64("partner_id", partnerID), zap.Error(err))
	}
	return messages, nil
}

// Conversations lists inbox summaries, pinned first.
func (s *ConversationService) Conversations() ([]model.ConversationSummary, error) {
	return s.MessageRepo.Conversations()
}

// ExportThread renders a thread as plain text for download.
func (s *ConversationService) ExportThread(partnerID int64, now time.Time) (string, error) {
	partner, err := s.PartnerRepo.GetByID(partnerID)
	if err != nil {
		return "", err
	}
	if partner == nil {
		return "", appErrors.NewNotFound("partner", partnerID)
	}
	messages, err := s.MessageRepo.ListByPartner(partnerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation with %s\n", partner.FullName())
	fmt.Fprintf(&b, "Phone: %s\n", partner.Phone)
	company := partner.Company
	if company == "" {
		company = "N/A"
	}
	fmt.Fprintf(&b, "Company: %s\n", company)
	fmt.Fprintf(&b, "Exported: %s\n", now.UTC().Format("2006-01-02 15:04 UTC"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, m := range messages {
		who := "→ You"
		if m.Direction == model.DirectionInbound {
			who = "← " + partner.FirstName
		}
		body := m.Body
		if body == "" {
			body = "[Media]"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", m.CreatedAt.Format("2006-01-02 15:04"), who, body)
	}
	return b.String(), nil
}
