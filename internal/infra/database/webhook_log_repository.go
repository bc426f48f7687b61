package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/prospexa-sync/internal/entity"
)

type WebhookLogRepository struct {
	DB *sql.DB
}

func NewWebhookLogRepository(db *sql.DB) *WebhookLogRepository {
	return &WebhookLogRepository{DB: db}
}

// Save é append-only: o engine só escreve, leitura é ferramenta de debug.
func (r *WebhookLogRepository) Save(ctx context.Context, entry *entity.WebhookLogEntry) error {
	query := `
		INSERT INTO webhook_log (
			id, campaign_id, provider, event_type, lead_email, raw_payload,
			duration_ms, success, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		entry.ID, nullString(entry.CampaignID), entry.Provider, entry.EventType,
		nullString(entry.LeadEmail), nullString(entry.RawPayload),
		entry.DurationMs, entry.Success, nullString(entry.ErrorMessage),
		entry.CreatedAt,
	)
	return err
}
