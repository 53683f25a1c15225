package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// --- Mock repositories ---

type MockPartnerRepo struct {
	partners map[int64]*model.Partner
	nextID   int64
	optOuts  []int64
	touched  []int64
}

func NewMockPartnerRepo(partners ...model.Partner) *MockPartnerRepo {
	m := &MockPartnerRepo{partners: map[int64]*model.Partner{}, nextID: 1}
	for i := range partners {
		p := partners[i]
		if p.ID == 0 {
			p.ID = m.nextID
		}
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
		m.partners[p.ID] = &p
	}
	return m
}

func (m *MockPartnerRepo) Create(p *model.Partner, productIDs, tagIDs []int64) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	m.partners[p.ID] = &cp
	return nil
}

func (m *MockPartnerRepo) GetByID(id int64) (*model.Partner, error) {
	if p, ok := m.partners[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *MockPartnerRepo) GetByPhone(phone string) (*model.Partner, error) {
	for _, p := range m.partners {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockPartnerRepo) List(f repository.PartnerFilter) ([]model.Partner, error) {
	ids := make([]int64, 0, len(m.partners))
	for id := range m.partners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	partners := []model.Partner{}
	for _, id := range ids {
		p := m.partners[id]
		if p.Archived && !f.IncludeArchived {
			continue
		}
		partners = append(partners, *p)
	}
	return partners, nil
}

func (m *MockPartnerRepo) Update(p *model.Partner) error {
	cp := *p
	m.partners[p.ID] = &cp
	return nil
}

func (m *MockPartnerRepo) ReplaceProducts(partnerID int64, productIDs []int64) error { return nil }
func (m *MockPartnerRepo) ReplaceTags(partnerID int64, tagIDs []int64) error         { return nil }

func (m *MockPartnerRepo) SetArchived(id int64, archived bool) error {
	m.partners[id].Archived = archived
	return nil
}

func (m *MockPartnerRepo) SetPinned(id int64, pinned bool) error {
	m.partners[id].Pinned = pinned
	return nil
}

func (m *MockPartnerRepo) SetOptedOut(id int64, optedOut bool) error {
	m.partners[id].OptedOut = optedOut
	m.optOuts = append(m.optOuts, id)
	return nil
}

func (m *MockPartnerRepo) UpdateNotes(id int64, notes string) error {
	m.partners[id].Notes = notes
	return nil
}

func (m *MockPartnerRepo) TouchLastContacted(id int64, at time.Time) error {
	m.partners[id].LastContacted = &at
	m.touched = append(m.touched, id)
	return nil
}

var _ repository.PartnerRepositoryInterface = (*MockPartnerRepo)(nil)

type MockMessageRepo struct {
	msgs   []model.Message
	nextID int64
}

func (m *MockMessageRepo) Append(msg *model.Message) error {
	m.nextID++
	msg.ID = m.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *MockMessageRepo) ListByPartner(partnerID int64) ([]model.Message, error) {
	thread := []model.Message{}
	for _, msg := range m.msgs {
		if msg.PartnerID == partnerID {
			thread = append(thread, msg)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		if thread[i].CreatedAt.Equal(thread[j].CreatedAt) {
			return thread[i].ID < thread[j].ID
		}
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread, nil
}

func (m *MockMessageRepo) MarkThreadRead(partnerID int64) error {
	for i := range m.msgs {
		if m.msgs[i].PartnerID == partnerID &&
			m.msgs[i].Direction == model.DirectionInbound &&
			m.msgs[i].Status == model.MessageStatusReceived {
			m.msgs[i].Status = model.MessageStatusRead
		}
	}
	return nil
}

func (m *MockMessageRepo) UpdateStatusBySID(sid string, status model.MessageStatus) error {
	for i := range m.msgs {
		if m.msgs[i].TransportSID == sid {
			m.msgs[i].Status = status
		}
	}
	return nil
}

func (m *MockMessageRepo) Conversations() ([]model.ConversationSummary, error) {
	return []model.ConversationSummary{}, nil
}

var _ repository.MessageRepositoryInterface = (*MockMessageRepo)(nil)

type MockSendRepo struct {
	records []model.SendRecord
	nextID  int64
}

func (m *MockSendRepo) Create(rec *model.SendRecord) error {
	m.nextID++
	rec.ID = m.nextID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *MockSendRepo) ListByBroadcast(broadcastID string) ([]model.SendRecord, error) {
	records := []model.SendRecord{}
	for _, rec := range m.records {
		if rec.BroadcastID == broadcastID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *MockSendRepo) UpdateStatusBySID(sid string, status model.SendStatus) error {
	for i := range m.records {
		if m.records[i].TransportSID == sid {
			m.records[i].Status = status
		}
	}
	return nil
}

var _ repository.SendRecordRepositoryInterface = (*MockSendRepo)(nil)

type MockScheduledRepo struct {
	scheduled []model.ScheduledBroadcast
	nextID    int64
}

func (m *MockScheduledRepo) Create(s *model.ScheduledBroadcast) error {
	m.nextID++
	s.ID = m.nextID
	if s.Status == "" {
		s.Status = model.ScheduleStatusPending
	}
	m.scheduled = append(m.scheduled, *s)
	return nil
}

func (m *MockScheduledRepo) ListPending() ([]model.ScheduledBroadcast, error) {
	pending := []model.ScheduledBroadcast{}
	for _, s := range m.scheduled {
		if s.Status == model.ScheduleStatusPending {
			pending = append(pending, s)
		}
	}
	return pending, nil
}

func (m *MockScheduledRepo) Due(now time.Time) ([]model.ScheduledBroadcast, error) {
	due := []model.ScheduledBroadcast{}
	for _, s := range m.scheduled {
		if s.Status == model.ScheduleStatusPending && !s.ScheduledTime.After(now) {
			due = append(due, s)
		}
	}
	return due, nil
}

func (m *MockScheduledRepo) MarkSent(id int64) error {
	for i := range m.scheduled {
		if m.scheduled[i].ID == id {
			m.scheduled[i].Status = model.ScheduleStatusSent
		}
	}
	return nil
}

func (m *MockScheduledRepo) Cancel(id int64) error {
	for i := range m.scheduled {
		if m.scheduled[i].ID == id {
			m.scheduled[i].Status = model.ScheduleStatusCancelled
		}
	}
	return nil
}

var _ repository.ScheduledRepositoryInterface = (*MockScheduledRepo)(nil)

// --- Mock transport ---

type FakeTransport struct {
	calls    []sms.SMS
	sendFunc func(msg sms.SMS) (string, error)
}

func (t *FakeTransport) Send(ctx context.Context, msg sms.SMS) (string, error) {
	t.calls = append(t.calls, msg)
	if t.sendFunc != nil {
		return t.sendFunc(msg)
	}
	return "SM-ok", nil
}

var _ sms.Transport = (*FakeTransport)(nil)

type FakePublisher struct {
	published []string
	err       error
}

func (p *FakePublisher) PublishReply(partnerName, body string) error {
	p.published = append(p.published, partnerName+": "+body)
	return p.err
}

func int64Ptr(n int64) *int64 { return &n }
