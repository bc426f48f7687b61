package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
)

type CampaignRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Campaign, error)

	// UpdateAnalytics sobrescreve o cache inteiro (replace, nunca merge).
	UpdateAnalytics(ctx context.Context, campaignID string, a entity.CampaignAnalytics) error

	MarkLeadSync(ctx context.Context, campaignID string, at time.Time) error
	MarkEmailSync(ctx context.Context, campaignID string, at time.Time) error

	IncrementEmailsSent(ctx context.Context, campaignID string) error
	IncrementEmailsReplied(ctx context.Context, campaignID string) error
	IncrementEmailsBounced(ctx context.Context, campaignID string) error
}

type ClientRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Client, error)
}

type LeadRepositoryInterface interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Lead, error)
	FindByCampaignAndEmail(ctx context.Context, campaignID, email string) (*entity.Lead, error)
	CountByCampaign(ctx context.Context, campaignID string) (int, error)

	// UpsertBatch grava com ON CONFLICT (campaign_id, email) fazendo merge,
	// para que sync e webhook concorrentes convirjam em vez de conflitar.
	UpsertBatch(ctx context.Context, leads []*entity.Lead) error
	Update(ctx context.Context, lead *entity.Lead) error
}

type LeadEmailRepositoryInterface interface {
	Upsert(ctx context.Context, email *entity.LeadEmail) error
	ListProviderEmailIDs(ctx context.Context, leadID string) (map[string]bool, error)
	CountByCampaign(ctx context.Context, campaignID string) (int, error)
}

type WebhookLogRepositoryInterface interface {
	Save(ctx context.Context, entry *entity.WebhookLogEntry) error
}

// AdapterResolver devolve o adapter configurado para o provedor da campanha.
type AdapterResolver interface {
	Get(name string) (provider.Adapter, error)
}

// QueueProducerInterface publica os efeitos colaterais de resposta positiva
// (notificação + CRM) sem bloquear a resposta do webhook.
type QueueProducerInterface interface {
	PublishPositiveReply(ctx context.Context, payload queue.PositiveReplyPayload) error
}

// --- DTOs ---

type SyncCampaignOutput struct {
	CampaignID string `json:"campaign_id"`

	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`

	PositiveClassified int `json:"positive_classified"`
	PositiveSkipped    int `json:"positive_skipped"`
	Backfilled         int `json:"backfilled"`
	EmailsSynced       int `json:"emails_synced"`

	Analytics *entity.CampaignAnalytics `json:"analytics,omitempty"`

	// Falhas isoladas dos passos 9-11 (não derrubam o sync principal).
	StepErrors []string `json:"step_errors,omitempty"`
}

type ClassifyPositiveOutput struct {
	Classified int `json:"classified"`
	Skipped    int `json:"skipped"`
	Backfilled int `json:"backfilled"`
}

type ProcessWebhookInput struct {
	Provider   string
	CampaignID string
	Event      *provider.WebhookEvent
	RawBody    []byte
}

type ProcessWebhookOutput struct {
	Success     bool      `json:"success"`
	EventType   string    `json:"event_type"`
	LeadEmail   string    `json:"lead_email"`
	IsPositive  bool      `json:"is_positive"`
	ProcessedAt time.Time `json:"processed_at"`
}

type SyncStatusOutput struct {
	CampaignID      string     `json:"campaign_id"`
	Provider        string     `json:"provider,omitempty"`
	Linked          bool       `json:"linked"`
	LeadCount       int        `json:"lead_count"`
	EmailCount      int        `json:"email_count"`
	LastLeadSyncAt  *time.Time `json:"last_lead_sync_at,omitempty"`
	LastEmailSyncAt *time.Time `json:"last_email_sync_at,omitempty"`
}
