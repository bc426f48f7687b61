package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmailDirectionInbound  = "inbound"
	EmailDirectionOutbound = "outbound"
)

// Entidade: LeadEmail
// Histórico de conversa append-only. Único por ProviderEmailID; quando o
// provedor não manda id nativo, geramos um uuid no lugar. Nunca deletado,
// updates são substituições idempotentes pela mesma chave.
type LeadEmail struct {
	ID              string `json:"id"`
	LeadID          string `json:"lead_id"`
	CampaignID      string `json:"campaign_id"`
	ProviderEmailID string `json:"provider_email_id"`

	Direction string `json:"direction"` // inbound, outbound
	FromEmail string `json:"from_email,omitempty"`
	ToEmail   string `json:"to_email,omitempty"`
	Subject   string `json:"subject,omitempty"`
	BodyText  string `json:"body_text,omitempty"`
	BodyHTML  string `json:"body_html,omitempty"`

	SequenceStep int        `json:"sequence_step,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewLeadEmail(leadID, campaignID, providerEmailID string) *LeadEmail {
	if providerEmailID == "" {
		providerEmailID = uuid.New().String()
	}
	return &LeadEmail{
		ID:              uuid.New().String(),
		LeadID:          leadID,
		CampaignID:      campaignID,
		ProviderEmailID: providerEmailID,
		CreatedAt:       time.Now(),
	}
}
