package instantly

import (
	"time"

	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// --- RESPONSES: o que a API da Instantly devolve (interno) ---

type campaignResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type leadResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	LinkedinURL string `json:"linkedin_url"`

	EmailOpenCount  int `json:"email_open_count"`
	EmailClickCount int `json:"email_click_count"`
	EmailReplyCount int `json:"email_reply_count"`

	// 1=Active 2=Paused 3=Completed -1=Bounced -2=Unsubscribed
	Status int `json:"status"`

	// lt_interest_status: 1=interested 2=meeting booked 3=meeting completed
	// 4=closed 0=neutro -1=out of office -2=wrong person -3=not interested
	LtInterestStatus int `json:"lt_interest_status"`
}

type analyticsResponse struct {
	EmailsSent    int `json:"emails_sent_count"`
	OpenCount     int `json:"open_count"`
	ReplyCount    int `json:"reply_count"`
	BouncedCount  int `json:"bounced_count"`
	Opportunities int `json:"total_opportunities"`
}

type emailResponse struct {
	ID           string `json:"id"`
	FromEmail    string `json:"from_address_email"`
	ToEmail      string `json:"to_address_email"`
	Subject      string `json:"subject"`
	BodyText     string `json:"body_text"`
	BodyHTML     string `json:"body_html"`
	IsUnread     bool   `json:"is_unread"`
	MessageType  string `json:"message_type"` // "received" | "sent"
	SequenceStep int    `json:"step"`
	Timestamp    string `json:"timestamp_email"`
}

type webhookPayload struct {
	EventType    string `json:"event_type"`
	LeadEmail    string `json:"lead_email"`
	LeadID       string `json:"lead_id"`
	EmailSubject string `json:"email_subject"`
	EmailText    string `json:"email_text"`
	EmailHTML    string `json:"email_html"`
	MessageID    string `json:"message_id"`
	FromEmail    string `json:"from_email"`
	ToEmail      string `json:"to_email"`
	Step         int    `json:"step"`
	IsAutoReply  bool   `json:"is_auto_reply"`
	Timestamp    string `json:"timestamp"`
}

// --- DE-PARA: tradução Instantly -> vocabulário canônico ---

func mapLead(raw leadResponse) provider.Lead {
	name := raw.FirstName
	if raw.LastName != "" {
		if name != "" {
			name += " "
		}
		name += raw.LastName
	}

	return provider.Lead{
		Email:          raw.Email,
		ProviderLeadID: raw.ID,
		Name:           name,
		Company:        raw.CompanyName,
		Phone:          raw.Phone,
		LinkedInURL:    raw.LinkedinURL,
		OpenCount:      raw.EmailOpenCount,
		ClickCount:     raw.EmailClickCount,
		ReplyCount:     raw.EmailReplyCount,
		Status:         mapLeadStatus(raw.Status),
		Interest:       mapInterestStatus(raw.LtInterestStatus),
	}
}

func mapLeadStatus(status int) string {
	switch status {
	case 3:
		return provider.LeadStatusCompleted
	case -1:
		return provider.LeadStatusBounced
	default:
		return provider.LeadStatusContacted
	}
}

func mapInterestStatus(lt int) string {
	switch lt {
	case 1:
		return provider.InterestInterested
	case 2:
		return provider.InterestMeetingBooked
	case 3:
		return provider.InterestMeetingCompleted
	case 4:
		return provider.InterestClosed
	case -1:
		return provider.InterestOutOfOffice
	case -2:
		return provider.InterestWrongPerson
	case -3:
		return provider.InterestNotInterested
	default:
		return provider.InterestNeutral
	}
}

func mapEmail(raw emailResponse) provider.EmailMessage {
	direction := provider.DirectionOutbound
	if raw.MessageType == "received" {
		direction = provider.DirectionInbound
	}

	msg := provider.EmailMessage{
		ProviderEmailID: raw.ID,
		Direction:       direction,
		FromEmail:       raw.FromEmail,
		ToEmail:         raw.ToEmail,
		Subject:         raw.Subject,
		BodyText:        raw.BodyText,
		BodyHTML:        raw.BodyHTML,
		SequenceStep:    raw.SequenceStep,
	}
	if t, err := time.Parse(time.RFC3339, raw.Timestamp); err == nil {
		msg.SentAt = &t
	}
	return msg
}

// mapEventType classifica o event_type bruto da Instantly na taxonomia canônica.
func mapEventType(raw string) provider.EventKind {
	switch raw {
	case "lead_interested", "lead_meeting_booked", "lead_meeting_completed", "lead_closed":
		return provider.EventPositive
	case "lead_not_interested", "lead_out_of_office", "lead_wrong_person", "lead_neutral":
		return provider.EventNegative
	case "reply_received", "auto_reply_received":
		return provider.EventReply
	case "email_sent", "first_email_sent":
		return provider.EventSent
	case "email_bounced":
		return provider.EventBounced
	default:
		return provider.EventUnknown
	}
}
