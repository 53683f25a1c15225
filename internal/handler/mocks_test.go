package handler_test

import (
	"context"
	"time"

	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

type stubPartnerRepo struct {
	partners map[int64]*model.Partner
	nextID   int64
	optOuts  []int64
}

func newStubPartnerRepo(partners ...model.Partner) *stubPartnerRepo {
	s := &stubPartnerRepo{partners: map[int64]*model.Partner{}, nextID: 1}
	for i := range partners {
		p := partners[i]
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.partners[p.ID] = &p
	}
	return s
}

func (s *stubPartnerRepo) Create(p *model.Partner, productIDs, tagIDs []int64) error {
	p.ID = s.nextID
	s.nextID++
	cp := *p
	s.partners[p.ID] = &cp
	return nil
}

func (s *stubPartnerRepo) GetByID(id int64) (*model.Partner, error) {
	if p, ok := s.partners[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *stubPartnerRepo) GetByPhone(phone string) (*model.Partner, error) {
	for _, p := range s.partners {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubPartnerRepo) List(f repository.PartnerFilter) ([]model.Partner, error) {
	partners := []model.Partner{}
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.partners[id]; ok && !p.Archived {
			partners = append(partners, *p)
		}
	}
	return partners, nil
}

func (s *stubPartnerRepo) Update(p *model.Partner) error {
	cp := *p
	s.partners[p.ID] = &cp
	return nil
}

func (s *stubPartnerRepo) ReplaceProducts(partnerID int64, productIDs []int64) error { return nil }
func (s *stubPartnerRepo) ReplaceTags(partnerID int64, tagIDs []int64) error         { return nil }
func (s *stubPartnerRepo) SetArchived(id int64, archived bool) error                 { return nil }
func (s *stubPartnerRepo) SetPinned(id int64, pinned bool) error                     { return nil }
func (s *stubPartnerRepo) UpdateNotes(id int64, notes string) error                  { return nil }

func (s *stubPartnerRepo) SetOptedOut(id int64, optedOut bool) error {
	s.partners[id].OptedOut = optedOut
	s.optOuts = append(s.optOuts, id)
	return nil
}

func (s *stubPartnerRepo) TouchLastContacted(id int64, at time.Time) error {
	s.partners[id].LastContacted = &at
	return nil
}

var _ repository.PartnerRepositoryInterface = (*stubPartnerRepo)(nil)

type stubMessageRepo struct {
	msgs       []model.Message
	nextID     int64
	sidUpdates map[string]model.MessageStatus
}

func (s *stubMessageRepo) Append(msg *model.Message) error {
	s.nextID++
	msg.ID = s.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.msgs = append(s.msgs, *msg)
	return nil
}

func (s *stubMessageRepo) ListByPartner(partnerID int64) ([]model.Message, error) {
	thread := []model.Message{}
	for _, m := range s.msgs {
		if m.PartnerID == partnerID {
			thread = append(thread, m)
		}
	}
	return thread, nil
}

func (s *stubMessageRepo) MarkThreadRead(partnerID int64) error { return nil }

func (s *stubMessageRepo) UpdateStatusBySID(sid string, status model.MessageStatus) error {
	if s.sidUpdates == nil {
		s.sidUpdates = map[string]model.MessageStatus{}
	}
	s.sidUpdates[sid] = status
	return nil
}

func (s *stubMessageRepo) Conversations() ([]model.ConversationSummary, error) {
	return []model.ConversationSummary{}, nil
}

var _ repository.MessageRepositoryInterface = (*stubMessageRepo)(nil)

type stubSendRepo struct {
	records    []model.SendRecord
	sidUpdates map[string]model.SendStatus
}

func (s *stubSendRepo) Create(rec *model.SendRecord) error {
	rec.ID = int64(len(s.records) + 1)
	s.records = append(s.records, *rec)
	return nil
}

func (s *stubSendRepo) ListByBroadcast(broadcastID string) ([]model.SendRecord, error) {
	return s.records, nil
}

func (s *stubSendRepo) UpdateStatusBySID(sid string, status model.SendStatus) error {
	if s.sidUpdates == nil {
		s.sidUpdates = map[string]model.SendStatus{}
	}
	s.sidUpdates[sid] = status
	return nil
}

var _ repository.SendRecordRepositoryInterface = (*stubSendRepo)(nil)

type stubTransport struct {
	calls    []sms.SMS
	sendFunc func(msg sms.SMS) (string, error)
}

func (t *stubTransport) Send(ctx context.Context, msg sms.SMS) (string, error) {
	t.calls = append(t.calls, msg)
	if t.sendFunc != nil {
		return t.sendFunc(msg)
	}
	return "SM-ok", nil
}

var _ sms.Transport = (*stubTransport)(nil)
