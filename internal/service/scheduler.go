// internal/service/scheduler.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/silversky/partnersms-backend/internal/errors"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
)

// SchedulerService parks broadcasts until their scheduled time and
// dispatches due ones from a background loop.
type SchedulerService struct {
	ScheduledRepo repository.ScheduledRepositoryInterface
	PartnerRepo   repository.PartnerRepositoryInterface
	Broadcast     *BroadcastService
	Log           *zap.Logger
}

func (s *SchedulerService) Schedule(template string, partnerIDs []int64, media *Media, at time.Time) (*model.ScheduledBroadcast, error) {
	if template == "" {
		return nil, appErrors.NewValidation("template cannot be empty")
	}
	if len(partnerIDs) == 0 {
		return nil, appErrors.NewValidation("no recipients selected")
	}

	sb := &model.ScheduledBroadcast{
		Template:      template,
		PartnerIDs:    partnerIDs,
		ScheduledTime: at.UTC(),
	}
	if media != nil {
		sb.MediaURL = media.URL
		sb.MediaType = media.Type
	}
	if err := s.ScheduledRepo.Create(sb); err != nil {
		return nil, err
	}
	return sb, nil
}

func (s *SchedulerService) ListPending() ([]model.ScheduledBroadcast, error) {
	return s.ScheduledRepo.ListPending()
}

func (s *SchedulerService) Cancel(id int64) error {
	return s.ScheduledRepo.Cancel(id)
}

// RunDue dispatches every pending broadcast whose time has passed.
// A broadcast whose recipients have all disappeared is still marked
// sent so it is not retried forever.
func (s *SchedulerService) RunDue(ctx context.Context, now time.Time) error {
	due, err := s.ScheduledRepo.Due(now)
	if err != nil {
		return err
	}

	for _, sb := range due {
		segment := []model.Partner{}
		for _, pid := range sb.PartnerIDs {
			partner, err := s.PartnerRepo.GetByID(pid)
			if err != nil {
				s.Log.Warn("scheduled broadcast: partner lookup failed",
					zap.Int64("partner_id", pid), zap.Error(err))
				continue
			}
			if partner == nil || partner.Archived {
				continue
			}
			segment = append(segment, *partner)
		}

		var media *Media
		if sb.MediaURL != "" {
			media = &Media{URL: sb.MediaURL, Type: sb.MediaType}
		}

		if len(segment) > 0 {
			result, err := s.Broadcast.Dispatch(ctx, segment, sb.Template, media)
			if err != nil {
				s.Log.Error("scheduled broadcast dispatch failed",
					zap.Int64("scheduled_id", sb.ID), zap.Error(err))
				continue
			}
			s.Log.Info("scheduled broadcast dispatched",
				zap.Int64("scheduled_id", sb.ID),
				zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
		}

		if err := s.ScheduledRepo.MarkSent(sb.ID); err != nil {
			s.Log.Error("failed to mark scheduled broadcast sent",
				zap.Int64("scheduled_id", sb.ID), zap.Error(err))
		}
	}
	return nil
}

// StartLoop runs RunDue on a ticker until the context is cancelled.
func (s *SchedulerService) StartLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.RunDue(ctx, now); err != nil {
				s.Log.Error("scheduler pass failed", zap.Error(err))
			}
		}
	}
}
