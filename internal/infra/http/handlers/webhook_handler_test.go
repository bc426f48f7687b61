package handlers_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/http/handlers"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/instantly"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
	"github.com/xavierca1/prospexa-sync/internal/usecase"
)

// Mocks dos repositórios (o parse de webhook usa o adapter real da Instantly)

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) UpdateAnalytics(ctx context.Context, campaignID string, a entity.CampaignAnalytics) error {
	return m.Called(ctx, campaignID, a).Error(0)
}

func (m *MockCampaignRepository) MarkLeadSync(ctx context.Context, campaignID string, at time.Time) error {
	return m.Called(ctx, campaignID, at).Error(0)
}

func (m *MockCampaignRepository) MarkEmailSync(ctx context.Context, campaignID string, at time.Time) error {
	return m.Called(ctx, campaignID, at).Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsSent(ctx context.Context, campaignID string) error {
	return m.Called(ctx, campaignID).Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsReplied(ctx context.Context, campaignID string) error {
	return m.Called(ctx, campaignID).Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsBounced(ctx context.Context, campaignID string) error {
	return m.Called(ctx, campaignID).Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByCampaignAndEmail(ctx context.Context, campaignID, email string) (*entity.Lead, error) {
	args := m.Called(ctx, campaignID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) UpsertBatch(ctx context.Context, leads []*entity.Lead) error {
	return m.Called(ctx, leads).Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

type MockLeadEmailRepository struct {
	mock.Mock
}

func (m *MockLeadEmailRepository) Upsert(ctx context.Context, email *entity.LeadEmail) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockLeadEmailRepository) ListProviderEmailIDs(ctx context.Context, leadID string) (map[string]bool, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockLeadEmailRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) Save(ctx context.Context, entry *entity.WebhookLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishPositiveReply(ctx context.Context, payload queue.PositiveReplyPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type handlerFixture struct {
	handler      *handlers.WebhookHandler
	router       *chi.Mux
	campaignRepo *MockCampaignRepository
	clientRepo   *MockClientRepository
	leadRepo     *MockLeadRepository
	emailRepo    *MockLeadEmailRepository
	webhookLogs  *MockWebhookLogRepository
	producer     *MockQueueProducer
}

func newHandlerFixture(secrets map[string]string) *handlerFixture {
	f := &handlerFixture{
		campaignRepo: new(MockCampaignRepository),
		clientRepo:   new(MockClientRepository),
		leadRepo:     new(MockLeadRepository),
		emailRepo:    new(MockLeadEmailRepository),
		webhookLogs:  new(MockWebhookLogRepository),
		producer:     new(MockQueueProducer),
	}

	uc := usecase.NewProcessWebhookUseCase(
		f.campaignRepo, f.clientRepo, f.leadRepo, f.emailRepo, f.webhookLogs, f.producer,
	)

	registry := provider.NewRegistry(instantly.NewClient("test-key", ""))

	f.handler = handlers.NewWebhookHandler(
		registry, uc, f.campaignRepo, f.leadRepo, f.emailRepo, secrets,
	)

	f.router = chi.NewRouter()
	f.router.Post("/webhooks/{provider}/{campaignId}", f.handler.Handle)
	f.router.Get("/webhooks/{provider}/{campaignId}", f.handler.HandleStatus)
	return f
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func testCampaign() *entity.Campaign {
	c := entity.NewCampaign("client-1", "Campanha Teste")
	c.ID = "camp-1"
	c.Provider = "instantly"
	c.ProviderCampaignID = "ext-1"
	return c
}

// TestWebhookSignature - validação HMAC sobre o corpo cru
func TestWebhookSignature(t *testing.T) {
	secret := "segredo-de-teste"
	body := []byte(`{"event_type":"reply_received","lead_email":"lead@empresa.com"}`)

	t.Run("Assinatura válida é aceita", func(t *testing.T) {
		f := newHandlerFixture(map[string]string{"instantly": secret})

		lead := entity.NewLead("camp-1", "lead@empresa.com")
		f.campaignRepo.On("FindByID", mock.Anything, "camp-1").Return(testCampaign(), nil)
		f.campaignRepo.On("IncrementEmailsReplied", mock.Anything, "camp-1").Return(nil)
		f.leadRepo.On("FindByCampaignAndEmail", mock.Anything, "camp-1", "lead@empresa.com").Return(lead, nil)
		f.leadRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
		f.webhookLogs.On("Save", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader(body))
		req.Header.Set("X-Provider-Signature", sign(body, secret))
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("Assinatura inválida recebe 401", func(t *testing.T) {
		f := newHandlerFixture(map[string]string{"instantly": secret})

		req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader(body))
		req.Header.Set("X-Provider-Signature", "assinatura-errada")
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_signature")
		f.webhookLogs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Header ausente recebe 401", func(t *testing.T) {
		f := newHandlerFixture(map[string]string{"instantly": secret})

		req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader(body))
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Sem secret configurado aceita sem verificar", func(t *testing.T) {
		f := newHandlerFixture(map[string]string{})

		lead := entity.NewLead("camp-1", "lead@empresa.com")
		f.campaignRepo.On("FindByID", mock.Anything, "camp-1").Return(testCampaign(), nil)
		f.campaignRepo.On("IncrementEmailsReplied", mock.Anything, "camp-1").Return(nil)
		f.leadRepo.On("FindByCampaignAndEmail", mock.Anything, "camp-1", "lead@empresa.com").Return(lead, nil)
		f.leadRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
		f.webhookLogs.On("Save", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader(body))
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestWebhookSempre200 - falha interna não vira erro HTTP (senão o provedor
// entra em tempestade de retry)
func TestWebhookSempre200(t *testing.T) {
	f := newHandlerFixture(map[string]string{})
	body := []byte(`{"event_type":"reply_received","lead_email":"lead@empresa.com"}`)

	f.campaignRepo.On("FindByID", mock.Anything, "camp-1").Return(nil, entity.ErrCampaignNotFound)
	f.webhookLogs.On("Save", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader(body))
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "falha de processamento responde 200 mesmo assim")
	assert.Contains(t, w.Body.String(), `"success":false`)
	// A falha fica registrada na auditoria
	f.webhookLogs.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(e *entity.WebhookLogEntry) bool {
		return !e.Success && e.ErrorMessage != ""
	}))
}

// TestWebhookPayloadInvalido - corpo não parseável recebe 400
func TestWebhookPayloadInvalido(t *testing.T) {
	f := newHandlerFixture(map[string]string{})

	req := httptest.NewRequest("POST", "/webhooks/instantly/camp-1", bytes.NewReader([]byte("não é json")))
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_payload")
}

// TestWebhookProvedorDesconhecido
func TestWebhookProvedorDesconhecido(t *testing.T) {
	f := newHandlerFixture(map[string]string{})

	req := httptest.NewRequest("POST", "/webhooks/lemlist/camp-1", bytes.NewReader([]byte(`{"event_type":"x"}`)))
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_provider")
}

// TestWebhookStatus - GET devolve o estado do sync sem efeito colateral
func TestWebhookStatus(t *testing.T) {
	f := newHandlerFixture(map[string]string{})

	campaign := testCampaign()
	syncedAt := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	campaign.LastLeadSyncAt = &syncedAt

	f.campaignRepo.On("FindByID", mock.Anything, "camp-1").Return(campaign, nil)
	f.leadRepo.On("CountByCampaign", mock.Anything, "camp-1").Return(42, nil)
	f.emailRepo.On("CountByCampaign", mock.Anything, "camp-1").Return(7, nil)

	req := httptest.NewRequest("GET", "/webhooks/instantly/camp-1", nil)
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lead_count":42`)
	assert.Contains(t, w.Body.String(), `"email_count":7`)
	assert.Contains(t, w.Body.String(), `"linked":true`)
	f.webhookLogs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
