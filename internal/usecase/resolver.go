package usecase

import (
	"github.com/xavierca1/prospexa-sync/internal/entity"
)

// Resolução de identidade: id nativo primeiro, email como fallback.
// O mesmo algoritmo serve o sync completo (índice pré-carregado) e o
// webhook (lookup individual no banco).

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchByID
	MatchByEmail
)

type MatchResult struct {
	Lead *entity.Lead
	Kind MatchKind

	// NeedsBackfill: casou por email e o registro local ainda não tem o id
	// nativo que veio no payload.
	NeedsBackfill bool
}

// LeadIndex indexa os leads locais de uma campanha por email minúsculo e
// por id nativo do provedor.
type LeadIndex struct {
	byEmail      map[string]*entity.Lead
	byProviderID map[string]*entity.Lead
}

func BuildLeadIndex(leads []*entity.Lead) *LeadIndex {
	ix := &LeadIndex{
		byEmail:      make(map[string]*entity.Lead, len(leads)),
		byProviderID: make(map[string]*entity.Lead, len(leads)),
	}
	for _, lead := range leads {
		ix.byEmail[entity.NormalizeEmail(lead.Email)] = lead
		if lead.ProviderLeadID != "" {
			ix.byProviderID[lead.ProviderLeadID] = lead
		}
	}
	return ix
}

// Add mantém o índice coerente depois de um insert no mesmo passe.
func (ix *LeadIndex) Add(lead *entity.Lead) {
	ix.byEmail[entity.NormalizeEmail(lead.Email)] = lead
	if lead.ProviderLeadID != "" {
		ix.byProviderID[lead.ProviderLeadID] = lead
	}
}

// Resolve aplica o algoritmo:
//  1. id nativo presente? procura no índice por id -> matched by id;
//  2. senão (ou não achou), email normalizado no índice por email;
//     se o payload traz id que o local não tem -> needs-backfill;
//  3. nada casou -> candidato a insert.
func (ix *LeadIndex) Resolve(email, providerLeadID string) MatchResult {
	if providerLeadID != "" {
		if lead, ok := ix.byProviderID[providerLeadID]; ok {
			return MatchResult{Lead: lead, Kind: MatchByID}
		}
	}

	if lead, ok := ix.byEmail[entity.NormalizeEmail(email)]; ok {
		return MatchResult{
			Lead:          lead,
			Kind:          MatchByEmail,
			NeedsBackfill: providerLeadID != "" && lead.ProviderLeadID == "",
		}
	}

	return MatchResult{Kind: MatchNone}
}
