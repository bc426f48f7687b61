package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// ClassifyPositiveLeadsUseCase: segundo passe conservador sobre a lista de
// leads "positivos" do provedor. Só liga flags, nunca desliga; lead sem
// registro local é pulado (um sync mais completo já deveria ter criado) —
// este passe NUNCA insere.
type ClassifyPositiveLeadsUseCase struct {
	LeadRepo LeadRepositoryInterface
}

func NewClassifyPositiveLeadsUseCase(leadRepo LeadRepositoryInterface) *ClassifyPositiveLeadsUseCase {
	return &ClassifyPositiveLeadsUseCase{LeadRepo: leadRepo}
}

func (uc *ClassifyPositiveLeadsUseCase) Execute(ctx context.Context, index *LeadIndex, positives []provider.Lead) ClassifyPositiveOutput {
	var out ClassifyPositiveOutput

	for _, in := range positives {
		// Defesa em profundidade: o fetch de "positivos" é impreciso em
		// alguns provedores, então re-checamos o marcador aqui.
		if !provider.IsPositiveInterest(in.Interest) {
			out.Skipped++
			continue
		}

		match := index.Resolve(in.Email, in.ProviderLeadID)
		if match.Kind == MatchNone {
			log.Printf("⚠️ Classificador: lead positivo %s sem registro local, pulando (sem insert)", in.Email)
			out.Skipped++
			continue
		}

		lead := match.Lead
		changed := MarkPositiveReply(lead)

		// Piso do contador: categoria positiva implica pelo menos uma resposta
		if in.ReplyCount > lead.ReplyCount {
			lead.ReplyCount = in.ReplyCount
			changed = true
		}

		backfilled, conflict := BackfillProviderID(lead, in.ProviderLeadID)
		if conflict {
			log.Printf("⚠️ Classificador: conflito de id nativo no lead %s (%s vs %s), mantendo o antigo",
				lead.Email, lead.ProviderLeadID, in.ProviderLeadID)
		}
		if backfilled {
			out.Backfilled++
			index.Add(lead)
			changed = true
		}

		if changed {
			lead.UpdatedAt = time.Now()
			if err := uc.LeadRepo.Update(ctx, lead); err != nil {
				log.Printf("❌ Classificador: falha ao gravar lead %s: %v", lead.Email, err)
				out.Skipped++
				continue
			}
		}
		out.Classified++
	}

	return out
}
