package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/xavierca1/prospexa-sync/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, campaign_id, email, provider_lead_id, name, company, phone, linkedin_url,
	open_count, click_count, reply_count, has_replied, is_positive_reply,
	status, notes, created_at, updated_at
`

func (r *LeadRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE campaign_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByCampaignAndEmail(ctx context.Context, campaignID, email string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE campaign_id = $1 AND email = $2`

	row := r.DB.QueryRowContext(ctx, query, campaignID, entity.NormalizeEmail(email))
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE campaign_id = $1`, campaignID).Scan(&count)
	return count, err
}

// UpsertBatch grava o lote num INSERT só, com merge no conflito da chave
// natural (campaign_id, email). As regras conservadoras repetem aqui o que
// usecase.MergeLeadUpdate garante na aplicação: is_positive_reply só sobe
// (OR), notes e created_at nunca são tocados.
func (r *LeadRepository) UpsertBatch(ctx context.Context, leads []*entity.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(leads))
	args := make([]interface{}, 0, len(leads)*17)
	for i, lead := range leads {
		base := i * 17
		ph := make([]string, 17)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			lead.ID, lead.CampaignID, entity.NormalizeEmail(lead.Email),
			nullString(lead.ProviderLeadID), nullString(lead.Name), nullString(lead.Company),
			nullString(lead.Phone), nullString(lead.LinkedInURL),
			lead.OpenCount, lead.ClickCount, lead.ReplyCount,
			lead.HasReplied, lead.IsPositiveReply, lead.Status,
			nullString(lead.Notes), lead.CreatedAt, lead.UpdatedAt,
		)
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (campaign_id, email)
		DO UPDATE SET
			provider_lead_id  = COALESCE(leads.provider_lead_id, EXCLUDED.provider_lead_id),
			name              = COALESCE(EXCLUDED.name, leads.name),
			company           = COALESCE(EXCLUDED.company, leads.company),
			phone             = COALESCE(EXCLUDED.phone, leads.phone),
			linkedin_url      = COALESCE(EXCLUDED.linkedin_url, leads.linkedin_url),
			open_count        = EXCLUDED.open_count,
			click_count       = EXCLUDED.click_count,
			reply_count       = EXCLUDED.reply_count,
			has_replied       = leads.has_replied OR EXCLUDED.has_replied,
			is_positive_reply = leads.is_positive_reply OR EXCLUDED.is_positive_reply,
			status            = EXCLUDED.status,
			updated_at        = EXCLUDED.updated_at
	`

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Printf("Erro crítico no banco (upsert de %d leads): %v", len(leads), err)
		return err
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	// Caminho de sync: notes fica de fora de propósito (campo do operador)
	query := `
		UPDATE leads SET
			provider_lead_id  = COALESCE($2, provider_lead_id),
			name              = COALESCE($3, name),
			company           = COALESCE($4, company),
			phone             = COALESCE($5, phone),
			linkedin_url      = COALESCE($6, linkedin_url),
			open_count        = $7,
			click_count       = $8,
			reply_count       = $9,
			has_replied       = has_replied OR $10,
			is_positive_reply = is_positive_reply OR $11,
			status            = $12,
			updated_at        = $13
		WHERE id = $1
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		nullString(lead.ProviderLeadID), nullString(lead.Name), nullString(lead.Company),
		nullString(lead.Phone), nullString(lead.LinkedInURL),
		lead.OpenCount, lead.ClickCount, lead.ReplyCount,
		lead.HasReplied, lead.IsPositiveReply, lead.Status,
		lead.UpdatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var providerLeadID, name, company, phone, linkedin, notes sql.NullString

	err := row.Scan(
		&lead.ID, &lead.CampaignID, &lead.Email,
		&providerLeadID, &name, &company, &phone, &linkedin,
		&lead.OpenCount, &lead.ClickCount, &lead.ReplyCount,
		&lead.HasReplied, &lead.IsPositiveReply,
		&lead.Status, &notes,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.ProviderLeadID = providerLeadID.String
	lead.Name = name.String
	lead.Company = company.String
	lead.Phone = phone.String
	lead.LinkedInURL = linkedin.String
	lead.Notes = notes.String
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
