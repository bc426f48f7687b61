package smartlead

import (
	"time"

	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// --- RESPONSES: o que a API da Smartlead devolve (interno) ---

type campaignResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// A Smartlead embrulha o lead num "map" da campanha.
type leadPage struct {
	TotalLeads int           `json:"total_leads"`
	Data       []leadMapping `json:"data"`
}

type leadMapping struct {
	CampaignLeadMapID int    `json:"campaign_lead_map_id"`
	Status            string `json:"status"` // STARTED, INPROGRESS, COMPLETED, PAUSED, BLOCKED
	LeadCategory      string `json:"lead_category"`
	OpenCount         int    `json:"open_count"`
	ClickCount        int    `json:"click_count"`
	ReplyCount        int    `json:"reply_count"`
	Lead              struct {
		ID          int    `json:"id"`
		Email       string `json:"email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		CompanyName string `json:"company_name"`
		PhoneNumber string `json:"phone_number"`
		LinkedinURL string `json:"linkedin_profile"`
	} `json:"lead"`
}

type analyticsResponse struct {
	SentCount    string `json:"sent_count"`
	OpenCount    string `json:"open_count"`
	ReplyCount   string `json:"reply_count"`
	BounceCount  string `json:"bounce_count"`
	TotalCount   string `json:"total_count"`
	CampaignLead struct {
		InterestedLeads int `json:"interested_leads"`
	} `json:"campaign_lead_stats"`
}

type messageHistoryResponse struct {
	History []messageResponse `json:"history"`
}

type messageResponse struct {
	StatsID      string `json:"stats_id"`
	Type         string `json:"type"` // "SENT" | "REPLY"
	FromEmail    string `json:"from"`
	ToEmail      string `json:"to"`
	Subject      string `json:"subject"`
	EmailBody    string `json:"email_body"`
	Time         string `json:"time"`
	SequenceStep int    `json:"email_seq_number"`
}

type statisticRow struct {
	LeadID       int    `json:"lead_id"`
	LeadEmail    string `json:"lead_email"`
	LeadCategory string `json:"lead_category"`
}

type webhookPayload struct {
	EventType    string `json:"event_type"`
	CampaignID   int    `json:"campaign_id"`
	LeadID       int    `json:"sl_lead_id"`
	LeadEmail    string `json:"sl_email_lead"`
	LeadCategory string `json:"lead_category"`
	FromEmail    string `json:"from_email"`
	ToEmail      string `json:"to_email"`
	Subject      string `json:"subject"`
	ReplyBody    struct {
		Text string `json:"text"`
		HTML string `json:"html"`
	} `json:"reply_body"`
	MessageID   string `json:"message_id"`
	SeqNumber   int    `json:"sequence_number"`
	IsAutoReply bool   `json:"is_auto_reply"`
	EventTime   string `json:"event_timestamp"`
}

// --- DE-PARA: tradução Smartlead -> vocabulário canônico ---

func mapLead(raw leadMapping) provider.Lead {
	name := raw.Lead.FirstName
	if raw.Lead.LastName != "" {
		if name != "" {
			name += " "
		}
		name += raw.Lead.LastName
	}

	return provider.Lead{
		Email:          raw.Lead.Email,
		ProviderLeadID: intID(raw.Lead.ID),
		Name:           name,
		Company:        raw.Lead.CompanyName,
		Phone:          raw.Lead.PhoneNumber,
		LinkedInURL:    raw.Lead.LinkedinURL,
		OpenCount:      raw.OpenCount,
		ClickCount:     raw.ClickCount,
		ReplyCount:     raw.ReplyCount,
		Status:         mapLeadStatus(raw.Status),
		Interest:       mapCategory(raw.LeadCategory),
	}
}

func mapLeadStatus(status string) string {
	switch status {
	case "COMPLETED":
		return provider.LeadStatusCompleted
	case "BLOCKED":
		return provider.LeadStatusBounced
	default:
		return provider.LeadStatusContacted
	}
}

// mapCategory traduz as categorias da Smartlead para o marcador canônico.
func mapCategory(category string) string {
	switch category {
	case "Interested", "Information Request":
		return provider.InterestInterested
	case "Meeting Request", "Meeting Booked":
		return provider.InterestMeetingBooked
	case "Closed":
		return provider.InterestClosed
	case "Not Interested", "Do Not Contact":
		return provider.InterestNotInterested
	case "Out Of Office":
		return provider.InterestOutOfOffice
	case "Wrong Person":
		return provider.InterestWrongPerson
	default:
		return provider.InterestNeutral
	}
}

func mapMessage(raw messageResponse) provider.EmailMessage {
	direction := provider.DirectionOutbound
	if raw.Type == "REPLY" {
		direction = provider.DirectionInbound
	}

	msg := provider.EmailMessage{
		ProviderEmailID: raw.StatsID,
		Direction:       direction,
		FromEmail:       raw.FromEmail,
		ToEmail:         raw.ToEmail,
		Subject:         raw.Subject,
		BodyHTML:        raw.EmailBody,
		SequenceStep:    raw.SequenceStep,
	}
	if t, err := time.Parse(time.RFC3339, raw.Time); err == nil {
		msg.SentAt = &t
	}
	return msg
}

// mapEventType classifica o event_type da Smartlead. LEAD_CATEGORY_UPDATED
// depende da categoria carregada no payload.
func mapEventType(raw webhookPayload) provider.EventKind {
	switch raw.EventType {
	case "EMAIL_REPLY":
		return provider.EventReply
	case "EMAIL_SENT":
		return provider.EventSent
	case "EMAIL_BOUNCE":
		return provider.EventBounced
	case "LEAD_CATEGORY_UPDATED":
		if provider.IsPositiveInterest(mapCategory(raw.LeadCategory)) {
			return provider.EventPositive
		}
		return provider.EventNegative
	case "EMAIL_OPEN", "EMAIL_LINK_CLICK":
		return provider.EventUnknown // informacionais: nunca criam lead
	default:
		return provider.EventUnknown
	}
}
