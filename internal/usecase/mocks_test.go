package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
)

// Mocks compartilhados pelos testes do pacote.

// MockCampaignRepository
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
	args := m.Called(ctx, campaignID, a)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkLeadSync(ctx context.Context, campaignID string, at time.Time) error {
	args := m.Called(ctx, campaignID, at)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkEmailSync(ctx context.Context, campaignID string, at time.Time) error {
	args := m.Called(ctx, campaignID, at)
	return args.Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsSent(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsReplied(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

func (m *MockCampaignRepository) IncrementEmailsBounced(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

// MockClientRepository
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

// MockLeadRepository
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
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockLeadEmailRepository
type MockLeadEmailRepository struct {
	mock.Mock
}

func (m *MockLeadEmailRepository) Upsert(ctx context.Context, email *entity.LeadEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
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

// MockWebhookLogRepository
type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) Save(ctx context.Context, entry *entity.WebhookLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishPositiveReply(ctx context.Context, payload queue.PositiveReplyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockAdapter implementa provider.Adapter (sem capabilities opcionais).
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAdapter) FetchCampaigns(ctx context.Context) ([]provider.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Campaign), args.Error(1)
}

func (m *MockAdapter) FetchCampaign(ctx context.Context, providerCampaignID string) (*provider.Campaign, error) {
	args := m.Called(ctx, providerCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Campaign), args.Error(1)
}

func (m *MockAdapter) FetchAllLeads(ctx context.Context, providerCampaignID string) ([]provider.Lead, error) {
	args := m.Called(ctx, providerCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Lead), args.Error(1)
}

func (m *MockAdapter) FetchCampaignAnalytics(ctx context.Context, providerCampaignID string) (*provider.Analytics, error) {
	args := m.Called(ctx, providerCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Analytics), args.Error(1)
}

func (m *MockAdapter) FetchEmailsForLead(ctx context.Context, providerCampaignID, email, providerLeadID string) ([]provider.EmailMessage, error) {
	args := m.Called(ctx, providerCampaignID, email, providerLeadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.EmailMessage), args.Error(1)
}

func (m *MockAdapter) ParseWebhook(body []byte) (*provider.WebhookEvent, error) {
	args := m.Called(body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.WebhookEvent), args.Error(1)
}

// MockPositiveAdapter = MockAdapter + endpoint de leads positivos.
type MockPositiveAdapter struct {
	MockAdapter
}

func (m *MockPositiveAdapter) FetchPositiveLeads(ctx context.Context, providerCampaignID string) ([]provider.Lead, error) {
	args := m.Called(ctx, providerCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Lead), args.Error(1)
}

// MockStatsAdapter = MockAdapter + estatísticas por categoria.
type MockStatsAdapter struct {
	MockAdapter
}

func (m *MockStatsAdapter) FetchLeadStatistics(ctx context.Context, providerCampaignID string) ([]provider.LeadStatistic, error) {
	args := m.Called(ctx, providerCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.LeadStatistic), args.Error(1)
}

// MockAdapterResolver
type MockAdapterResolver struct {
	mock.Mock
}

func (m *MockAdapterResolver) Get(name string) (provider.Adapter, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Adapter), args.Error(1)
}
