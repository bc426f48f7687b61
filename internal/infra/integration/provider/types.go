package provider

import "time"

// Modelo canônico: tudo acima da camada de adapter fala só este vocabulário.
// Nomes de campo, enums e status específicos de cada provedor (Instantly,
// Smartlead) são traduzidos na borda, dentro do client de cada um.

// Status canônico de lead vindo do provedor.
const (
	LeadStatusContacted = "contacted"
	LeadStatusOpened    = "opened"
	LeadStatusClicked   = "clicked"
	LeadStatusReplied   = "replied"
	LeadStatusBooked    = "booked"
	LeadStatusCompleted = "completed"
	LeadStatusBounced   = "bounced"
)

// Marcadores canônicos de interesse.
const (
	InterestInterested       = "interested"
	InterestMeetingBooked    = "meeting_booked"
	InterestMeetingCompleted = "meeting_completed"
	InterestClosed           = "closed"
	InterestNotInterested    = "not_interested"
	InterestOutOfOffice      = "out_of_office"
	InterestWrongPerson      = "wrong_person"
	InterestNeutral          = "neutral"
)

// IsPositiveInterest diz se o marcador está no conjunto explicitamente
// positivo. Qualquer coisa fora daqui NUNCA liga is_positive_reply.
func IsPositiveInterest(marker string) bool {
	switch marker {
	case InterestInterested, InterestMeetingBooked, InterestMeetingCompleted, InterestClosed:
		return true
	}
	return false
}

// Categorias de estatística que contam como positivas (Smartlead).
func IsPositiveCategory(category string) bool {
	switch category {
	case "Interested", "Meeting Request", "Meeting Booked":
		return true
	}
	return false
}

type Campaign struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type Analytics struct {
	EmailsSent       int `json:"emails_sent"`
	EmailsOpened     int `json:"emails_opened"`
	EmailsReplied    int `json:"emails_replied"`
	EmailsBounced    int `json:"emails_bounced"`
	OpportunityCount int `json:"opportunity_count"`
}

type Lead struct {
	Email          string `json:"email"`
	ProviderLeadID string `json:"provider_lead_id,omitempty"`

	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`

	OpenCount  int `json:"open_count"`
	ClickCount int `json:"click_count"`
	ReplyCount int `json:"reply_count"`

	Status   string `json:"status,omitempty"`   // status canônico (constantes acima)
	Interest string `json:"interest,omitempty"` // marcador canônico de interesse
}

// LeadStatistic é a linha do endpoint de estatísticas por categoria
// (só Smartlead expõe isso hoje).
type LeadStatistic struct {
	Email          string `json:"email"`
	ProviderLeadID string `json:"provider_lead_id,omitempty"`
	Category       string `json:"category"`
}

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type EmailMessage struct {
	ProviderEmailID string     `json:"provider_email_id,omitempty"`
	Direction       string     `json:"direction"`
	FromEmail       string     `json:"from_email,omitempty"`
	ToEmail         string     `json:"to_email,omitempty"`
	Subject         string     `json:"subject,omitempty"`
	BodyText        string     `json:"body_text,omitempty"`
	BodyHTML        string     `json:"body_html,omitempty"`
	SequenceStep    int        `json:"sequence_step,omitempty"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
}

// EventKind é a taxonomia canônica de eventos de webhook.
type EventKind string

const (
	EventPositive EventKind = "positive"
	EventNegative EventKind = "negative"
	EventReply    EventKind = "reply"
	EventSent     EventKind = "sent"
	EventBounced  EventKind = "bounced"
	EventUnknown  EventKind = "unknown"
)

type WebhookEvent struct {
	Kind    EventKind `json:"kind"`
	RawType string    `json:"raw_type"`

	LeadEmail      string `json:"lead_email"`
	ProviderLeadID string `json:"provider_lead_id,omitempty"`

	// Conteúdo do email, quando o evento carrega (reply/sent).
	MessageID    string `json:"message_id,omitempty"`
	FromEmail    string `json:"from_email,omitempty"`
	ToEmail      string `json:"to_email,omitempty"`
	Subject      string `json:"subject,omitempty"`
	BodyText     string `json:"body_text,omitempty"`
	BodyHTML     string `json:"body_html,omitempty"`
	SequenceStep int    `json:"sequence_step,omitempty"`

	AutoReply  bool       `json:"auto_reply,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// HasEmailContent diz se vale a pena persistir um LeadEmail deste evento.
func (e *WebhookEvent) HasEmailContent() bool {
	return e.Subject != "" || e.BodyText != "" || e.BodyHTML != ""
}
