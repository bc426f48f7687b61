package provider

import (
	"context"
	"fmt"
)

// Adapter é o contrato que cada provedor de cold-email implementa.
// Paginação, auth e rate limit ficam DENTRO do adapter: quem chama sempre
// recebe listas completas já traduzidas para o modelo canônico.
type Adapter interface {
	Name() string

	FetchCampaigns(ctx context.Context) ([]Campaign, error)
	FetchCampaign(ctx context.Context, providerCampaignID string) (*Campaign, error)
	FetchAllLeads(ctx context.Context, providerCampaignID string) ([]Lead, error)
	FetchCampaignAnalytics(ctx context.Context, providerCampaignID string) (*Analytics, error)
	FetchEmailsForLead(ctx context.Context, providerCampaignID, email, providerLeadID string) ([]EmailMessage, error)

	// ParseWebhook traduz o corpo bruto de um webhook para o evento canônico.
	ParseWebhook(body []byte) (*WebhookEvent, error)
}

// PositiveLeadFetcher é capability opcional: nem todo provedor tem endpoint
// de "leads positivos". Quem chama faz type assertion antes de usar.
type PositiveLeadFetcher interface {
	FetchPositiveLeads(ctx context.Context, providerCampaignID string) ([]Lead, error)
}

// LeadStatisticsFetcher é capability opcional: estatísticas por categoria
// ("Interested", "Meeting Request"...), base do segundo passe positivo.
type LeadStatisticsFetcher interface {
	FetchLeadStatistics(ctx context.Context, providerCampaignID string) ([]LeadStatistic, error)
}

// Registry resolve o adapter pelo nome gravado na campanha.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("provedor desconhecido: %q", name)
	}
	return a, nil
}
