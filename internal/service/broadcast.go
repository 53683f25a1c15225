// internal/service/broadcast.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// Media is an optional already-hosted attachment for a send.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"` // image, video, audio
}

// BroadcastService renders one message per segment recipient and hands
// each to the transport, recording outcomes.
type BroadcastService struct {
	PartnerRepo  repository.PartnerRepositoryInterface
	SendRepo     repository.SendRecordRepositoryInterface
	Conversation *ConversationService
	Transport    sms.Transport
	Log          *zap.Logger
}

// BroadcastResult summarizes one dispatched batch.
type BroadcastResult struct {
	BroadcastID string             `json:"broadcast_id"`
	Sent        int                `json:"sent"`
	Failed      int                `json:"failed"`
	Skipped     int                `json:"skipped"`
	Records     []model.SendRecord `json:"records"`
}

// Segment resolves broadcast criteria against the current partner list.
func (s *BroadcastService) Segment(criteria Criteria) ([]model.Partner, error) {
	partners, err := s.PartnerRepo.List(repository.PartnerFilter{})
	if err != nil {
		return nil, err
	}
	return Select(partners, criteria), nil
}

// Dispatch sends the rendered template to every partner in the segment,
// sequentially and in input order. Per-recipient transport failures are
// recorded and never abort the batch; only precondition violations
// (blank template, empty segment) error out, before any send.
func (s *BroadcastService) Dispatch(ctx context.Context, segment []model.Partner, template string, media *Media) (*BroadcastResult, error) {
	if strings.TrimSpace(template) == "" {
		return nil, appErrors.NewValidation("template cannot be empty")
	}
	if len(segment) == 0 {
		return nil, appErrors.NewValidation("no recipients match the segment")
	}

	result := &BroadcastResult{
		BroadcastID: uuid.NewString(),
		Records:     make([]model.SendRecord, 0, len(segment)),
	}

	mediaURL, mediaType := "", ""
	if media != nil {
		mediaURL, mediaType = media.URL, media.Type
	}

	for _, partner := range segment {
		rec := model.SendRecord{
			BroadcastID: result.BroadcastID,
			PartnerID:   partner.ID,
			Body:        Render(template, partner),
		}

		switch {
		case partner.OptedOut:
			rec.Status = model.SendStatusSkipped
			rec.LastError = "partner has opted out"
			result.Skipped++
		default:
			sid, err := s.Transport.Send(ctx, sms.SMS{
				To:        partner.Phone,
				Body:      rec.Body,
				MediaURL:  mediaURL,
				MediaType: mediaType,
			})
			if err != nil {
				rec.Status = model.SendStatusFailed
				rec.LastError = err.Error()
				result.Failed++
				s.Log.Warn("send failed",
					zap.Int64("partner_id", partner.ID), zap.Error(err))
			} else {
				rec.Status = model.SendStatusSent
				rec.TransportSID = sid
				result.Sent++
				if err := s.PartnerRepo.TouchLastContacted(partner.ID, time.Now().UTC()); err != nil {
					s.Log.Warn("failed to update last_contacted",
						zap.Int64("partner_id", partner.ID), zap.Error(err))
				}
			}
		}

		if err := s.SendRepo.Create(&rec); err != nil {
			s.Log.Error("failed to persist send record",
				zap.Int64("partner_id", partner.ID), zap.Error(err))
		}

		// Every attempt lands in the thread, failed and skipped included.
		status := model.MessageStatusSent
		if rec.Status != model.SendStatusSent {
			status = model.MessageStatusFailed
		}
		if _, err := s.Conversation.RecordOutbound(
			partner.ID, rec.Body, mediaURL, mediaType, status, rec.TransportSID,
		); err != nil {
			s.Log.Error("failed to append outbound message",
				zap.Int64("partner_id", partner.ID), zap.Error(err))
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// SendToPartner renders and sends a one-off message to a single partner.
func (s *BroadcastService) SendToPartner(ctx context.Context, partnerID int64, template string, media *Media) (*model.SendRecord, error) {
	if strings.TrimSpace(template) == "" {
		return nil, appErrors.NewValidation("template cannot be empty")
	}
	partner, err := s.PartnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, appErrors.NewNotFound("partner", partnerID)
	}
	if partner.OptedOut {
		return nil, appErrors.NewValidation("partner has opted out")
	}

	result, err := s.Dispatch(ctx, []model.Partner{*partner}, template, media)
	if err != nil {
		return nil, err
	}
	return &result.Records[0], nil
}

// Preview renders the template for one partner without sending.
func (s *BroadcastService) Preview(partnerID int64, template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", appErrors.NewValidation("template cannot be empty")
	}
	partner, err := s.PartnerRepo.GetByID(partnerID)
	if err != nil {
		return "", err
	}
	if partner == nil {
		return "", appErrors.NewNotFound("partner", partnerID)
	}
	return Render(template, *partner), nil
}
