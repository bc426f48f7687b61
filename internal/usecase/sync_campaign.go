package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// Tamanho fixo dos lotes de insert (limita memória e não afoga o banco).
const insertBatchSize = 50

// SyncCampaignLeadsUseCase: puxa todos os leads + analytics de uma campanha
// no provedor e reconcilia com o banco local. Roda síncrono dentro da request
// que disparou (sem scheduler interno); campanhas grandes levam dezenas de
// segundos e o caller precisa tolerar isso.
type SyncCampaignLeadsUseCase struct {
	CampaignRepo  CampaignRepositoryInterface
	ClientRepo    ClientRepositoryInterface
	LeadRepo      LeadRepositoryInterface
	LeadEmailRepo LeadEmailRepositoryInterface
	Adapters      AdapterResolver

	Classifier *ClassifyPositiveLeadsUseCase
	EmailSync  *SyncLeadEmailsUseCase
}

func NewSyncCampaignLeadsUseCase(
	campaignRepo CampaignRepositoryInterface,
	clientRepo ClientRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	leadEmailRepo LeadEmailRepositoryInterface,
	adapters AdapterResolver,
) *SyncCampaignLeadsUseCase {
	return &SyncCampaignLeadsUseCase{
		CampaignRepo:  campaignRepo,
		ClientRepo:    clientRepo,
		LeadRepo:      leadRepo,
		LeadEmailRepo: leadEmailRepo,
		Adapters:      adapters,
		Classifier:    NewClassifyPositiveLeadsUseCase(leadRepo),
		EmailSync:     NewSyncLeadEmailsUseCase(leadEmailRepo),
	}
}

func (uc *SyncCampaignLeadsUseCase) Execute(ctx context.Context, campaignID string) (*SyncCampaignOutput, error) {
	// 1. Campanha + cliente
	campaign, err := uc.CampaignRepo.FindByID(ctx, campaignID)
	if errors.Is(err, entity.ErrCampaignNotFound) {
		return nil, &DomainError{Code: CodeCampaignNotFound, Message: "campanha não encontrada: " + campaignID}
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao carregar campanha: " + err.Error()}
	}
	if !campaign.IsLinked() {
		return nil, &DomainError{Code: CodeProviderNotLinked, Message: "campanha sem provedor externo vinculado"}
	}
	if _, err := uc.ClientRepo.FindByID(ctx, campaign.ClientID); err != nil {
		log.Printf("⚠️ Sync %s: cliente %s não encontrado, seguindo mesmo assim", campaignID, campaign.ClientID)
	}

	adapter, err := uc.Adapters.Get(campaign.Provider)
	if err != nil {
		return nil, &DomainError{Code: CodeUnknownProvider, Message: err.Error()}
	}

	log.Printf("🔄 Sync iniciado: campanha %s (%s/%s)", campaignID, campaign.Provider, campaign.ProviderCampaignID)

	// 2. Todos os leads do provedor
	fetched, err := adapter.FetchAllLeads(ctx, campaign.ProviderCampaignID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeProviderError, Message: "falha ao buscar leads no provedor: " + err.Error()}
	}

	// 3. Índice dos leads locais
	existing, err := uc.LeadRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao carregar leads locais: " + err.Error()}
	}
	index := BuildLeadIndex(existing)

	out := &SyncCampaignOutput{CampaignID: campaignID}

	// 4-5. Resolve identidade, separa inserts de updates.
	// Inserts são deduplicados por email (último ganha): provedor devolve
	// linha repetida com frequência.
	insertByEmail := make(map[string]*entity.Lead)
	var insertOrder []string

	for _, in := range fetched {
		if entity.NormalizeEmail(in.Email) == "" {
			out.Skipped++
			continue
		}

		match := index.Resolve(in.Email, in.ProviderLeadID)
		if match.Kind == MatchNone {
			lead := entity.NewLead(campaignID, in.Email)
			MergeLeadUpdate(lead, in)
			email := entity.NormalizeEmail(in.Email)
			if _, dup := insertByEmail[email]; !dup {
				insertOrder = append(insertOrder, email)
			}
			insertByEmail[email] = lead
			continue
		}

		res := MergeLeadUpdate(match.Lead, in)
		if res.IDConflict {
			log.Printf("⚠️ Conflito de id nativo: lead %s já tem %s, provedor mandou %s (mantendo o antigo)",
				match.Lead.Email, match.Lead.ProviderLeadID, in.ProviderLeadID)
		}
		if res.Backfilled {
			out.Backfilled++
			index.Add(match.Lead)
		}

		match.Lead.UpdatedAt = time.Now()
		if err := uc.LeadRepo.Update(ctx, match.Lead); err != nil {
			log.Printf("❌ Sync %s: falha ao atualizar lead %s: %v", campaignID, match.Lead.Email, err)
			out.Skipped++
			continue
		}
		out.Updated++
	}

	// 6. Inserts em lotes fixos com upsert (converge com webhook concorrente)
	batch := make([]*entity.Lead, 0, insertBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := uc.LeadRepo.UpsertBatch(ctx, batch); err != nil {
			// Lote perdido é logado e contado, não re-tentado
			log.Printf("❌ Sync %s: lote de %d inserts falhou: %v", campaignID, len(batch), err)
			out.Skipped += len(batch)
		} else {
			out.Inserted += len(batch)
			for _, lead := range batch {
				index.Add(lead)
			}
		}
		batch = batch[:0]
	}
	for _, email := range insertOrder {
		batch = append(batch, insertByEmail[email])
		if len(batch) == insertBatchSize {
			flush()
		}
	}
	flush()

	// 8. Analytics: replace total do cache. Falha aqui não derruba o sync.
	if analytics, err := adapter.FetchCampaignAnalytics(ctx, campaign.ProviderCampaignID); err != nil {
		uc.stepFailed(out, "analytics", err)
	} else {
		snapshot := entity.CampaignAnalytics{
			EmailsSent:       analytics.EmailsSent,
			EmailsOpened:     analytics.EmailsOpened,
			EmailsReplied:    analytics.EmailsReplied,
			EmailsBounced:    analytics.EmailsBounced,
			OpportunityCount: analytics.OpportunityCount,
		}
		if err := uc.CampaignRepo.UpdateAnalytics(ctx, campaignID, snapshot); err != nil {
			uc.stepFailed(out, "analytics", err)
		} else {
			out.Analytics = &snapshot
		}
	}

	if err := uc.CampaignRepo.MarkLeadSync(ctx, campaignID, time.Now()); err != nil {
		log.Printf("⚠️ Sync %s: falha ao gravar watermark de leads: %v", campaignID, err)
	}

	// 9. Passe positivo dedicado (capability opcional do adapter)
	if pf, ok := adapter.(provider.PositiveLeadFetcher); ok {
		if positives, err := pf.FetchPositiveLeads(ctx, campaign.ProviderCampaignID); err != nil {
			uc.stepFailed(out, "positive-leads", err)
		} else {
			cls := uc.Classifier.Execute(ctx, index, positives)
			out.PositiveClassified += cls.Classified
			out.PositiveSkipped += cls.Skipped
			out.Backfilled += cls.Backfilled
		}
	}

	// 11. Segundo passe conservador por categoria (capability opcional)
	if sf, ok := adapter.(provider.LeadStatisticsFetcher); ok {
		if stats, err := sf.FetchLeadStatistics(ctx, campaign.ProviderCampaignID); err != nil {
			uc.stepFailed(out, "lead-statistics", err)
		} else {
			cls := uc.Classifier.Execute(ctx, index, statisticsToLeads(stats))
			out.PositiveClassified += cls.Classified
			out.PositiveSkipped += cls.Skipped
			out.Backfilled += cls.Backfilled
		}
	}

	// 10. Histórico de emails para quem tem sinal de resposta
	var withReplies []*entity.Lead
	for _, lead := range index.byEmail {
		if lead.IsPositiveReply || lead.ReplyCount > 0 {
			withReplies = append(withReplies, lead)
		}
	}
	if len(withReplies) > 0 {
		synced, err := uc.EmailSync.Execute(ctx, campaign, adapter, withReplies)
		out.EmailsSynced = synced
		if err != nil {
			uc.stepFailed(out, "email-threads", err)
		}
		if err := uc.CampaignRepo.MarkEmailSync(ctx, campaignID, time.Now()); err != nil {
			log.Printf("⚠️ Sync %s: falha ao gravar watermark de emails: %v", campaignID, err)
		}
	}

	log.Printf("✅ Sync concluído: campanha %s (%d inseridos, %d atualizados, %d pulados, %d positivos)",
		campaignID, out.Inserted, out.Updated, out.Skipped, out.PositiveClassified)

	return out, nil
}

// stepFailed registra falha isolada de um passo (sucesso parcial é aceitável).
func (uc *SyncCampaignLeadsUseCase) stepFailed(out *SyncCampaignOutput, step string, err error) {
	log.Printf("⚠️ Sync %s: passo %s falhou: %v", out.CampaignID, step, err)
	out.StepErrors = append(out.StepErrors, fmt.Sprintf("%s: %v", step, err))
}

// statisticsToLeads converte as linhas do endpoint de estatísticas no shape
// que o classificador espera. Categoria fora do conjunto positivo vira
// marcador neutro e cai na checagem defensiva do classificador.
func statisticsToLeads(stats []provider.LeadStatistic) []provider.Lead {
	leads := make([]provider.Lead, 0, len(stats))
	for _, s := range stats {
		interest := provider.InterestNeutral
		if provider.IsPositiveCategory(s.Category) {
			interest = provider.InterestInterested
		}
		leads = append(leads, provider.Lead{
			Email:          s.Email,
			ProviderLeadID: s.ProviderLeadID,
			Interest:       interest,
			ReplyCount:     1, // quem ganhou categoria respondeu
		})
	}
	return leads
}
