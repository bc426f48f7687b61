package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

const pageSize = 100

// Client fala com a API da Instantly (Bearer token) e traduz tudo para o
// modelo canônico. Config explícita no construtor, sem estado de módulo.
type Client struct {
	baseURL string
	apiKey  string
	caller  *provider.Caller
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.instantly.ai/api/v2"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// Instantly tolera ~10 req/s por workspace
		caller: provider.NewCaller(100 * time.Millisecond),
	}
}

func (c *Client) Name() string { return "instantly" }

func (c *Client) FetchCampaigns(ctx context.Context) ([]provider.Campaign, error) {
	body, err := c.get(ctx, "/campaigns", nil)
	if err != nil {
		return nil, fmt.Errorf("instantly: listar campanhas: %w", err)
	}

	var raw []campaignResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: decode campanhas: %w", err)
	}

	campaigns := make([]provider.Campaign, 0, len(raw))
	for _, r := range raw {
		campaigns = append(campaigns, provider.Campaign{ID: r.ID, Name: r.Name, Status: r.Status})
	}
	return campaigns, nil
}

func (c *Client) FetchCampaign(ctx context.Context, providerCampaignID string) (*provider.Campaign, error) {
	body, err := c.get(ctx, "/campaigns/"+url.PathEscape(providerCampaignID), nil)
	if err != nil {
		return nil, fmt.Errorf("instantly: buscar campanha: %w", err)
	}

	var raw campaignResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: decode campanha: %w", err)
	}
	return &provider.Campaign{ID: raw.ID, Name: raw.Name, Status: raw.Status}, nil
}

// FetchAllLeads pagina até a última página (página menor que pageSize encerra).
func (c *Client) FetchAllLeads(ctx context.Context, providerCampaignID string) ([]provider.Lead, error) {
	var all []provider.Lead

	for skip := 0; ; skip += pageSize {
		params := url.Values{}
		params.Set("campaign_id", providerCampaignID)
		params.Set("skip", fmt.Sprint(skip))
		params.Set("limit", fmt.Sprint(pageSize))

		body, err := c.get(ctx, "/leads", params)
		if err != nil {
			return nil, fmt.Errorf("instantly: listar leads (skip=%d): %w", skip, err)
		}

		var page []leadResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("instantly: decode leads: %w", err)
		}

		for _, raw := range page {
			all = append(all, mapLead(raw))
		}

		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) FetchCampaignAnalytics(ctx context.Context, providerCampaignID string) (*provider.Analytics, error) {
	params := url.Values{}
	params.Set("campaign_id", providerCampaignID)

	body, err := c.get(ctx, "/analytics/campaign/summary", params)
	if err != nil {
		return nil, fmt.Errorf("instantly: analytics: %w", err)
	}

	var raw analyticsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: decode analytics: %w", err)
	}

	return &provider.Analytics{
		EmailsSent:       raw.EmailsSent,
		EmailsOpened:     raw.OpenCount,
		EmailsReplied:    raw.ReplyCount,
		EmailsBounced:    raw.BouncedCount,
		OpportunityCount: raw.Opportunities,
	}, nil
}

func (c *Client) FetchEmailsForLead(ctx context.Context, providerCampaignID, email, providerLeadID string) ([]provider.EmailMessage, error) {
	params := url.Values{}
	params.Set("campaign_id", providerCampaignID)
	params.Set("lead_email", email)
	if providerLeadID != "" {
		params.Set("lead_id", providerLeadID)
	}

	body, err := c.get(ctx, "/emails", params)
	if err != nil {
		return nil, fmt.Errorf("instantly: emails do lead %s: %w", email, err)
	}

	var raw []emailResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: decode emails: %w", err)
	}

	messages := make([]provider.EmailMessage, 0, len(raw))
	for _, r := range raw {
		messages = append(messages, mapEmail(r))
	}
	return messages, nil
}

// FetchPositiveLeads implementa provider.PositiveLeadFetcher.
// A Instantly tem endpoint dedicado de leads marcados como interessados.
func (c *Client) FetchPositiveLeads(ctx context.Context, providerCampaignID string) ([]provider.Lead, error) {
	params := url.Values{}
	params.Set("campaign_id", providerCampaignID)

	body, err := c.get(ctx, "/leads/positive", params)
	if err != nil {
		return nil, fmt.Errorf("instantly: leads positivos: %w", err)
	}

	var raw []leadResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: decode leads positivos: %w", err)
	}

	leads := make([]provider.Lead, 0, len(raw))
	for _, r := range raw {
		leads = append(leads, mapLead(r))
	}
	return leads, nil
}

func (c *Client) ParseWebhook(body []byte) (*provider.WebhookEvent, error) {
	var raw webhookPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("instantly: webhook com JSON inválido: %w", err)
	}
	if raw.EventType == "" {
		return nil, fmt.Errorf("instantly: webhook sem event_type")
	}

	event := &provider.WebhookEvent{
		Kind:           mapEventType(raw.EventType),
		RawType:        raw.EventType,
		LeadEmail:      raw.LeadEmail,
		ProviderLeadID: raw.LeadID,
		MessageID:      raw.MessageID,
		FromEmail:      raw.FromEmail,
		ToEmail:        raw.ToEmail,
		Subject:        raw.EmailSubject,
		BodyText:       raw.EmailText,
		BodyHTML:       raw.EmailHTML,
		SequenceStep:   raw.Step,
		AutoReply:      raw.IsAutoReply,
	}
	if t, err := time.Parse(time.RFC3339, raw.Timestamp); err == nil {
		event.OccurredAt = &t
	}
	return event, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.caller.Do(ctx, func() (*http.Request, error) {
		fullURL := c.baseURL + path
		if len(params) > 0 {
			fullURL += "?" + params.Encode()
		}
		req, err := http.NewRequest(http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "ProspexaSync/1.0")
		return req, nil
	})
}
