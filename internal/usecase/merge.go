package usecase

import (
	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// MergeResult resume o que o merge fez com o lead local.
type MergeResult struct {
	Changed    bool
	Backfilled bool // id nativo preenchido retroativamente
	IDConflict bool // id nativo divergente do já gravado (mantém o antigo)
}

// Precedência fixa de status para escrita vinda do sync.
// won/lost/not_interested são desfechos do operador: o sync nunca rebaixa.
var statusRank = map[string]int{
	entity.LeadStatusContacted:     1,
	entity.LeadStatusOpened:        2,
	entity.LeadStatusClicked:       2,
	entity.LeadStatusBounced:       2,
	entity.LeadStatusReplied:       3,
	entity.LeadStatusBooked:        4,
	entity.LeadStatusNotInterested: 5,
	entity.LeadStatusLost:          5,
	entity.LeadStatusWon:           5,
}

// MergeLeadUpdate é O ÚNICO lugar que aplica um payload canônico de sync em
// cima de um lead local. Orquestrador e webhook passam por aqui, então as
// regras conservadoras moram numa função só:
//   - is_positive_reply só liga, nunca desliga;
//   - has_replied só liga;
//   - notes e desfechos do operador nunca são tocados;
//   - id nativo é backfill, nunca substituição (divergência vira conflito);
//   - status só sobe na tabela de precedência.
func MergeLeadUpdate(existing *entity.Lead, incoming provider.Lead) MergeResult {
	var res MergeResult

	// Backfill do id nativo
	backfilled, conflict := BackfillProviderID(existing, incoming.ProviderLeadID)
	if backfilled {
		res.Backfilled = true
		res.Changed = true
	}
	res.IDConflict = conflict

	// Campos de contato: provedor só preenche, vazio não apaga nada
	res.Changed = setIfNotEmpty(&existing.Name, incoming.Name) || res.Changed
	res.Changed = setIfNotEmpty(&existing.Company, incoming.Company) || res.Changed
	res.Changed = setIfNotEmpty(&existing.Phone, incoming.Phone) || res.Changed
	res.Changed = setIfNotEmpty(&existing.LinkedInURL, incoming.LinkedInURL) || res.Changed

	// Contadores: o provedor é a fonte de verdade
	if incoming.OpenCount != existing.OpenCount {
		existing.OpenCount = incoming.OpenCount
		res.Changed = true
	}
	if incoming.ClickCount != existing.ClickCount {
		existing.ClickCount = incoming.ClickCount
		res.Changed = true
	}
	if incoming.ReplyCount != existing.ReplyCount {
		existing.ReplyCount = incoming.ReplyCount
		res.Changed = true
	}

	// has_replied: só liga
	if !existing.HasReplied && (incoming.ReplyCount > 0 || incoming.Status == provider.LeadStatusCompleted) {
		existing.HasReplied = true
		res.Changed = true
	}

	// is_positive_reply: monotônico. Só o conjunto explicitamente positivo
	// liga a flag; marcador negativo/neutro NUNCA desliga.
	if provider.IsPositiveInterest(incoming.Interest) && MarkPositiveReply(existing) {
		res.Changed = true
	}

	// Status pela tabela de precedência
	if applyStatus(existing, deriveStatus(incoming)) {
		res.Changed = true
	}

	return res
}

// deriveStatus calcula o status implícito do payload do provedor:
// booked > replied > clicked/opened > contacted.
func deriveStatus(in provider.Lead) string {
	switch in.Interest {
	case provider.InterestMeetingBooked, provider.InterestMeetingCompleted:
		return entity.LeadStatusBooked
	}
	if in.ReplyCount > 0 || provider.IsPositiveInterest(in.Interest) {
		return entity.LeadStatusReplied
	}
	if in.Status == provider.LeadStatusBounced {
		return entity.LeadStatusBounced
	}
	if in.ClickCount > 0 {
		return entity.LeadStatusClicked
	}
	if in.OpenCount > 0 {
		return entity.LeadStatusOpened
	}
	return entity.LeadStatusContacted
}

// applyStatus só escreve se o status novo tiver precedência maior.
func applyStatus(existing *entity.Lead, status string) bool {
	if status == "" || status == existing.Status {
		return false
	}
	if statusRank[status] > statusRank[existing.Status] {
		existing.Status = status
		return true
	}
	return false
}

// BackfillProviderID preenche o id nativo descoberto tardiamente. Id já
// gravado e divergente NUNCA é substituído: volta como conflito e quem
// chama loga.
func BackfillProviderID(lead *entity.Lead, providerLeadID string) (backfilled, conflict bool) {
	if providerLeadID == "" {
		return false, false
	}
	switch lead.ProviderLeadID {
	case "":
		lead.ProviderLeadID = providerLeadID
		return true, false
	case providerLeadID:
		return false, false
	default:
		return false, true
	}
}

// MarkPositiveReply aplica a classificação positiva de forma só-aditiva:
// liga as flags e sobe o status para replied, nada além disso.
func MarkPositiveReply(lead *entity.Lead) bool {
	changed := false
	if !lead.IsPositiveReply {
		lead.IsPositiveReply = true
		changed = true
	}
	if !lead.HasReplied {
		lead.HasReplied = true
		changed = true
	}
	if applyStatus(lead, entity.LeadStatusReplied) {
		changed = true
	}
	return changed
}

func setIfNotEmpty(dst *string, value string) bool {
	if value == "" || value == *dst {
		return false
	}
	*dst = value
	return true
}
