package smartlead

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

const pageSize = 100

// Client fala com a API da Smartlead. Diferente da Instantly, a auth vai por
// query string (?api_key=). O rate limit deles é bem mais apertado.
type Client struct {
	baseURL string
	apiKey  string
	caller  *provider.Caller
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://server.smartlead.ai/api/v1"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// Smartlead: 10 req / 2s por conta
		caller: provider.NewCaller(200 * time.Millisecond),
	}
}

func (c *Client) Name() string { return "smartlead" }

func (c *Client) FetchCampaigns(ctx context.Context) ([]provider.Campaign, error) {
	body, err := c.get(ctx, "/campaigns", nil)
	if err != nil {
		return nil, fmt.Errorf("smartlead: listar campanhas: %w", err)
	}

	var raw []campaignResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: decode campanhas: %w", err)
	}

	campaigns := make([]provider.Campaign, 0, len(raw))
	for _, r := range raw {
		campaigns = append(campaigns, provider.Campaign{ID: intID(r.ID), Name: r.Name, Status: r.Status})
	}
	return campaigns, nil
}

func (c *Client) FetchCampaign(ctx context.Context, providerCampaignID string) (*provider.Campaign, error) {
	body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID), nil)
	if err != nil {
		return nil, fmt.Errorf("smartlead: buscar campanha: %w", err)
	}

	var raw campaignResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: decode campanha: %w", err)
	}
	return &provider.Campaign{ID: intID(raw.ID), Name: raw.Name, Status: raw.Status}, nil
}

// FetchAllLeads pagina por offset/limit até a página vir menor que o limit.
func (c *Client) FetchAllLeads(ctx context.Context, providerCampaignID string) ([]provider.Lead, error) {
	var all []provider.Lead

	for offset := 0; ; offset += pageSize {
		params := url.Values{}
		params.Set("offset", fmt.Sprint(offset))
		params.Set("limit", fmt.Sprint(pageSize))

		body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID)+"/leads", params)
		if err != nil {
			return nil, fmt.Errorf("smartlead: listar leads (offset=%d): %w", offset, err)
		}

		var page leadPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("smartlead: decode leads: %w", err)
		}

		for _, raw := range page.Data {
			all = append(all, mapLead(raw))
		}

		if len(page.Data) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) FetchCampaignAnalytics(ctx context.Context, providerCampaignID string) (*provider.Analytics, error) {
	body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID)+"/analytics", nil)
	if err != nil {
		return nil, fmt.Errorf("smartlead: analytics: %w", err)
	}

	var raw analyticsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: decode analytics: %w", err)
	}

	// A Smartlead devolve contadores como string
	return &provider.Analytics{
		EmailsSent:       atoiSafe(raw.SentCount),
		EmailsOpened:     atoiSafe(raw.OpenCount),
		EmailsReplied:    atoiSafe(raw.ReplyCount),
		EmailsBounced:    atoiSafe(raw.BounceCount),
		OpportunityCount: raw.CampaignLead.InterestedLeads,
	}, nil
}

func (c *Client) FetchEmailsForLead(ctx context.Context, providerCampaignID, email, providerLeadID string) ([]provider.EmailMessage, error) {
	// O histórico de mensagens da Smartlead é indexado pelo id nativo do lead;
	// sem ele, caímos no lookup por email.
	leadRef := providerLeadID
	if leadRef == "" {
		leadRef = email
	}

	body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID)+"/leads/"+url.PathEscape(leadRef)+"/message-history", nil)
	if err != nil {
		return nil, fmt.Errorf("smartlead: histórico do lead %s: %w", email, err)
	}

	var raw messageHistoryResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: decode histórico: %w", err)
	}

	messages := make([]provider.EmailMessage, 0, len(raw.History))
	for _, r := range raw.History {
		messages = append(messages, mapMessage(r))
	}
	return messages, nil
}

// FetchLeadStatistics implementa provider.LeadStatisticsFetcher: o endpoint
// de estatísticas devolve a categoria atribuída a cada lead respondente.
func (c *Client) FetchLeadStatistics(ctx context.Context, providerCampaignID string) ([]provider.LeadStatistic, error) {
	body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID)+"/statistics", nil)
	if err != nil {
		return nil, fmt.Errorf("smartlead: estatísticas: %w", err)
	}

	var raw struct {
		Data []statisticRow `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: decode estatísticas: %w", err)
	}

	stats := make([]provider.LeadStatistic, 0, len(raw.Data))
	for _, r := range raw.Data {
		stats = append(stats, provider.LeadStatistic{
			Email:          r.LeadEmail,
			ProviderLeadID: intID(r.LeadID),
			Category:       r.LeadCategory,
		})
	}
	return stats, nil
}

func (c *Client) ParseWebhook(body []byte) (*provider.WebhookEvent, error) {
	var raw webhookPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("smartlead: webhook com JSON inválido: %w", err)
	}
	if raw.EventType == "" {
		return nil, fmt.Errorf("smartlead: webhook sem event_type")
	}

	event := &provider.WebhookEvent{
		Kind:           mapEventType(raw),
		RawType:        raw.EventType,
		LeadEmail:      raw.LeadEmail,
		ProviderLeadID: intID(raw.LeadID),
		MessageID:      raw.MessageID,
		FromEmail:      raw.FromEmail,
		ToEmail:        raw.ToEmail,
		Subject:        raw.Subject,
		BodyText:       raw.ReplyBody.Text,
		BodyHTML:       raw.ReplyBody.HTML,
		SequenceStep:   raw.SeqNumber,
		AutoReply:      raw.IsAutoReply,
	}
	if t, err := time.Parse(time.RFC3339, raw.EventTime); err == nil {
		event.OccurredAt = &t
	}
	return event, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.caller.Do(ctx, func() (*http.Request, error) {
		if params == nil {
			params = url.Values{}
		}
		params.Set("api_key", c.apiKey)

		req, err := http.NewRequest(http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "ProspexaSync/1.0")
		return req, nil
	})
}

func intID(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
