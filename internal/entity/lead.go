package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Status do lead no funil. A precedência na escrita é
// booked > replied > clicked/opened > contacted (ver usecase.MergeLeadUpdate).
const (
	LeadStatusContacted     = "contacted"
	LeadStatusOpened        = "opened"
	LeadStatusClicked       = "clicked"
	LeadStatusReplied       = "replied"
	LeadStatusBooked        = "booked"
	LeadStatusWon           = "won"
	LeadStatusLost          = "lost"
	LeadStatusNotInterested = "not_interested"
	LeadStatusBounced       = "bounced"
)

// Entidade: Lead
// Chave natural: (campaign_id, email minúsculo). O ProviderLeadID pode chegar
// depois do primeiro match por email (backfill).
type Lead struct {
	ID             string `json:"id"`
	CampaignID     string `json:"campaign_id"`
	Email          string `json:"email"`
	ProviderLeadID string `json:"provider_lead_id,omitempty"`

	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`

	OpenCount  int `json:"open_count"`
	ClickCount int `json:"click_count"`
	ReplyCount int `json:"reply_count"`

	HasReplied bool `json:"has_replied"`

	// IsPositiveReply é monotônico nos caminhos de sync: uma vez true,
	// nenhum sync ou webhook volta para false. Só o operador reverte.
	IsPositiveReply bool   `json:"is_positive_reply"`
	Status          string `json:"status"`

	// Notes pertence ao operador. Nenhum caminho de sync escreve aqui.
	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewLead(campaignID, email string) *Lead {
	now := time.Now()
	return &Lead{
		ID:         uuid.New().String(),
		CampaignID: campaignID,
		Email:      NormalizeEmail(email),
		Status:     LeadStatusContacted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NormalizeEmail aplica a normalização usada na chave natural.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
