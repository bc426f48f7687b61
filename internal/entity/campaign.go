package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entidade: Campaign
// Cada campanha pertence a um cliente da agência e pode estar vinculada a
// exatamente uma campanha externa (Provider + ProviderCampaignID).
type Campaign struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`

	Provider           string `json:"provider,omitempty"` // "instantly", "smartlead"
	ProviderCampaignID string `json:"provider_campaign_id,omitempty"`

	// Cache de analytics: sempre sobrescrito por inteiro no sync, nunca mesclado.
	EmailsSent       int `json:"emails_sent"`
	EmailsOpened     int `json:"emails_opened"`
	EmailsReplied    int `json:"emails_replied"`
	EmailsBounced    int `json:"emails_bounced"`
	OpportunityCount int `json:"opportunity_count"`

	// Watermarks do último sync (reporting, não filtro incremental).
	LastLeadSyncAt  *time.Time `json:"last_lead_sync_at,omitempty"`
	LastEmailSyncAt *time.Time `json:"last_email_sync_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCampaign(clientID, name string) *Campaign {
	now := time.Now()
	return &Campaign{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLinked informa se a campanha tem uma campanha externa configurada.
func (c *Campaign) IsLinked() bool {
	return c.Provider != "" && c.ProviderCampaignID != ""
}

// CampaignAnalytics carrega o snapshot mais recente vindo do provedor.
type CampaignAnalytics struct {
	EmailsSent       int `json:"emails_sent"`
	EmailsOpened     int `json:"emails_opened"`
	EmailsReplied    int `json:"emails_replied"`
	EmailsBounced    int `json:"emails_bounced"`
	OpportunityCount int `json:"opportunity_count"`
}
