package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `
		SELECT id, client_id, name, provider, provider_campaign_id,
		       emails_sent, emails_opened, emails_replied, emails_bounced, opportunity_count,
		       last_lead_sync_at, last_email_sync_at, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var c entity.Campaign
	var provider, providerCampaignID sql.NullString
	var lastLeadSync, lastEmailSync sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ClientID, &c.Name, &provider, &providerCampaignID,
		&c.EmailsSent, &c.EmailsOpened, &c.EmailsReplied, &c.EmailsBounced, &c.OpportunityCount,
		&lastLeadSync, &lastEmailSync, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Provider = provider.String
	c.ProviderCampaignID = providerCampaignID.String
	if lastLeadSync.Valid {
		c.LastLeadSyncAt = &lastLeadSync.Time
	}
	if lastEmailSync.Valid {
		c.LastEmailSyncAt = &lastEmailSync.Time
	}
	return &c, nil
}

// UpdateAnalytics sobrescreve o cache inteiro (replace, nunca merge).
func (r *CampaignRepository) UpdateAnalytics(ctx context.Context, campaignID string, a entity.CampaignAnalytics) error {
	query := `
		UPDATE campaigns SET
			emails_sent = $2, emails_opened = $3, emails_replied = $4,
			emails_bounced = $5, opportunity_count = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, campaignID,
		a.EmailsSent, a.EmailsOpened, a.EmailsReplied, a.EmailsBounced, a.OpportunityCount)
	return err
}

func (r *CampaignRepository) MarkLeadSync(ctx context.Context, campaignID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET last_lead_sync_at = $2, updated_at = NOW() WHERE id = $1`,
		campaignID, at)
	return err
}

func (r *CampaignRepository) MarkEmailSync(ctx context.Context, campaignID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET last_email_sync_at = $2, updated_at = NOW() WHERE id = $1`,
		campaignID, at)
	return err
}

func (r *CampaignRepository) IncrementEmailsSent(ctx context.Context, campaignID string) error {
	return r.increment(ctx, campaignID, "emails_sent")
}

func (r *CampaignRepository) IncrementEmailsReplied(ctx context.Context, campaignID string) error {
	return r.increment(ctx, campaignID, "emails_replied")
}

func (r *CampaignRepository) IncrementEmailsBounced(ctx context.Context, campaignID string) error {
	return r.increment(ctx, campaignID, "emails_bounced")
}

func (r *CampaignRepository) increment(ctx context.Context, campaignID, column string) error {
	// column vem de constantes internas, nunca de input do usuário
	query := `UPDATE campaigns SET ` + column + ` = ` + column + ` + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, campaignID)
	return err
}
