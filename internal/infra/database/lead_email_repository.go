package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/xavierca1/prospexa-sync/internal/entity"
)

type LeadEmailRepository struct {
	DB *sql.DB
}

func NewLeadEmailRepository(db *sql.DB) *LeadEmailRepository {
	return &LeadEmailRepository{DB: db}
}

// Upsert grava a mensagem idempotente pela chave do provedor: rodar o sync
// de novo com o mesmo histórico não duplica nada. Nunca há DELETE aqui.
func (r *LeadEmailRepository) Upsert(ctx context.Context, email *entity.LeadEmail) error {
	query := `
		INSERT INTO lead_emails (
			id, lead_id, campaign_id, provider_email_id, direction,
			from_email, to_email, subject, body_text, body_html,
			sequence_step, sent_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (provider_email_id)
		DO UPDATE SET
			subject   = COALESCE(EXCLUDED.subject, lead_emails.subject),
			body_text = COALESCE(EXCLUDED.body_text, lead_emails.body_text),
			body_html = COALESCE(EXCLUDED.body_html, lead_emails.body_html),
			sent_at   = COALESCE(EXCLUDED.sent_at, lead_emails.sent_at)
	`

	_, err := r.DB.ExecContext(ctx, query,
		email.ID, email.LeadID, email.CampaignID, email.ProviderEmailID, email.Direction,
		nullString(email.FromEmail), nullString(email.ToEmail), nullString(email.Subject),
		nullString(email.BodyText), nullString(email.BodyHTML),
		email.SequenceStep, email.SentAt, email.CreatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Corrida no id primário (duas escritas simultâneas da mesma
			// mensagem): a primeira ganhou, idempotente por definição
			return nil
		}
		log.Printf("Erro crítico no banco (lead_email %s): %v", email.ProviderEmailID, err)
		return err
	}
	return nil
}

func (r *LeadEmailRepository) ListProviderEmailIDs(ctx context.Context, leadID string) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT provider_email_id FROM lead_emails WHERE lead_id = $1`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (r *LeadEmailRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lead_emails WHERE campaign_id = $1`, campaignID).Scan(&count)
	return count, err
}
