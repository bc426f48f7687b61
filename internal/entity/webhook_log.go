package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entidade: WebhookLogEntry
// Trilha de auditoria append-only, uma linha por webhook recebido.
// O engine só escreve aqui; a leitura é manual (debug), nunca pelo sync.
type WebhookLogEntry struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id,omitempty"`
	Provider   string `json:"provider"`
	EventType  string `json:"event_type"`
	LeadEmail  string `json:"lead_email,omitempty"`
	RawPayload string `json:"raw_payload,omitempty"`

	DurationMs   int64  `json:"duration_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewWebhookLogEntry(provider, campaignID string) *WebhookLogEntry {
	return &WebhookLogEntry{
		ID:         uuid.New().String(),
		Provider:   provider,
		CampaignID: campaignID,
		CreatedAt:  time.Now(),
	}
}
