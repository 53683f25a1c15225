package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/silversky/partnersms-backend/internal/handler"
	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/service"
)

func newBroadcastHandler(partnerRepo *stubPartnerRepo, transport *stubTransport) (*handler.BroadcastHandler, *stubSendRepo) {
	sendRepo := &stubSendRepo{}
	messageRepo := &stubMessageRepo{}
	h := &handler.BroadcastHandler{
		Broadcast: &service.BroadcastService{
			PartnerRepo: partnerRepo,
			SendRepo:    sendRepo,
			Conversation: &service.ConversationService{
				PartnerRepo:        partnerRepo,
				MessageRepo:        messageRepo,
				DefaultPhoneRegion: "US",
				Log:                zap.NewNop(),
			},
			Transport: transport,
			Log:       zap.NewNop(),
		},
	}
	return h, sendRepo
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func regionPartners() []model.Partner {
	west := int64(1)
	east := int64(2)
	return []model.Partner{
		{ID: 1, FirstName: "Alice", Phone: "+15550000001", RegionID: &west},
		{ID: 2, FirstName: "Bob", Phone: "+15550000002", RegionID: &east},
		{ID: 3, FirstName: "Carol", Phone: "+15550000003", RegionID: &west},
	}
}

func TestBroadcastDispatchByCriteria(t *testing.T) {
	transport := &stubTransport{}
	h, sendRepo := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), transport)

	rec := postJSON(t, h.Dispatch, "/api/broadcast", map[string]interface{}{
		"message":  "Hi {{first_name}}",
		"criteria": map[string]interface{}{"region_id": 1},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.BroadcastResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.NotEmpty(t, result.BroadcastID)

	require.Len(t, transport.calls, 2)
	assert.Equal(t, "Hi Alice", transport.calls[0].Body)
	assert.Equal(t, "Hi Carol", transport.calls[1].Body)
	assert.Len(t, sendRepo.records, 2)
}

func TestBroadcastDispatchByExplicitIDs(t *testing.T) {
	transport := &stubTransport{}
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), transport)

	rec := postJSON(t, h.Dispatch, "/api/broadcast", map[string]interface{}{
		"message":     "ping",
		"partner_ids": []int64{2},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, transport.calls, 1)
	assert.Equal(t, "+15550000002", transport.calls[0].To)
}

func TestBroadcastDispatchUnknownExplicitID(t *testing.T) {
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), &stubTransport{})

	rec := postJSON(t, h.Dispatch, "/api/broadcast", map[string]interface{}{
		"message":     "ping",
		"partner_ids": []int64{99},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBroadcastDispatchEmptyMessage(t *testing.T) {
	transport := &stubTransport{}
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), transport)

	rec := postJSON(t, h.Dispatch, "/api/broadcast", map[string]interface{}{
		"message": "",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, transport.calls)
}

func TestBroadcastDispatchNoMatches(t *testing.T) {
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), &stubTransport{})

	rec := postJSON(t, h.Dispatch, "/api/broadcast", map[string]interface{}{
		"message":  "ping",
		"criteria": map[string]interface{}{"region_id": 9},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewSegment(t *testing.T) {
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), &stubTransport{})

	rec := postJSON(t, h.PreviewSegment, "/api/segment/preview", map[string]interface{}{
		"region_id": 1,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count    int             `json:"count"`
		Partners []model.Partner `json:"partners"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Partners, 2)
	assert.Equal(t, "Alice", resp.Partners[0].FirstName)
}

func TestSendToSinglePartner(t *testing.T) {
	transport := &stubTransport{}
	h, _ := newBroadcastHandler(newStubPartnerRepo(regionPartners()...), transport)

	rec := postJSON(t, h.Send, "/api/send", map[string]interface{}{
		"partner_id": 1,
		"message":    "Hi {{first_name}}",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var record model.SendRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, model.SendStatusSent, record.Status)
	assert.Equal(t, "Hi Alice", record.Body)
}

func TestPreviewRendering(t *testing.T) {
	transport := &stubTransport{}
	partnerRepo := newStubPartnerRepo(model.Partner{
		ID: 1, FirstName: "Sam", Company: "Acme", Phone: "+15550000001",
	})
	h, _ := newBroadcastHandler(partnerRepo, transport)

	rec := postJSON(t, h.Preview, "/api/broadcast/preview", map[string]interface{}{
		"partner_id": 1,
		"message":    "Hi {{first_name}}, re: {{company}} rollout",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RenderedMessage string `json:"rendered_message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hi Sam, re: Acme rollout", resp.RenderedMessage)
	assert.Empty(t, transport.calls)
}

func TestVariablesEndpoint(t *testing.T) {
	h, _ := newBroadcastHandler(newStubPartnerRepo(), &stubTransport{})

	req := httptest.NewRequest(http.MethodGet, "/api/broadcast/variables", nil)
	rec := httptest.NewRecorder()
	h.Variables(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Variables []string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"first_name", "name", "company", "region", "tsd"}, resp.Variables)
}
