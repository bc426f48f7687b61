package mail

type PositiveReplyAlertData struct {
	LeadName   string
	LeadEmail  string
	CampaignID string
	Provider   string
	Subject    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AlertTo  string // caixa do time da agência
}
