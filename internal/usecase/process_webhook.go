package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
)

// ProcessWebhookUseCase: aplica UM evento de provedor com a mesma disciplina
// conservadora do sync completo. Sempre deixa uma linha de auditoria; o erro
// interno volta para o handler só para telemetria — a resposta HTTP é 200 de
// qualquer jeito (evitar tempestade de retry do provedor).
type ProcessWebhookUseCase struct {
	CampaignRepo  CampaignRepositoryInterface
	ClientRepo    ClientRepositoryInterface
	LeadRepo      LeadRepositoryInterface
	LeadEmailRepo LeadEmailRepositoryInterface
	WebhookLogs   WebhookLogRepositoryInterface
	Queue         QueueProducerInterface
}

func NewProcessWebhookUseCase(
	campaignRepo CampaignRepositoryInterface,
	clientRepo ClientRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	leadEmailRepo LeadEmailRepositoryInterface,
	webhookLogs WebhookLogRepositoryInterface,
	producer QueueProducerInterface,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		CampaignRepo:  campaignRepo,
		ClientRepo:    clientRepo,
		LeadRepo:      leadRepo,
		LeadEmailRepo: leadEmailRepo,
		WebhookLogs:   webhookLogs,
		Queue:         producer,
	}
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, in ProcessWebhookInput) (*ProcessWebhookOutput, error) {
	started := time.Now()
	event := in.Event

	entry := entity.NewWebhookLogEntry(in.Provider, in.CampaignID)
	entry.EventType = event.RawType
	entry.LeadEmail = entity.NormalizeEmail(event.LeadEmail)
	entry.RawPayload = string(in.RawBody)

	out := &ProcessWebhookOutput{
		EventType:   event.RawType,
		LeadEmail:   entry.LeadEmail,
		ProcessedAt: time.Now(),
	}

	procErr := uc.apply(ctx, in, out)

	entry.DurationMs = time.Since(started).Milliseconds()
	entry.Success = procErr == nil
	if procErr != nil {
		entry.ErrorMessage = procErr.Error()
	}
	if err := uc.WebhookLogs.Save(ctx, entry); err != nil {
		log.Printf("⚠️ Webhook: falha ao gravar auditoria: %v", err)
	}

	out.Success = procErr == nil
	out.ProcessedAt = time.Now()
	return out, procErr
}

func (uc *ProcessWebhookUseCase) apply(ctx context.Context, in ProcessWebhookInput, out *ProcessWebhookOutput) error {
	event := in.Event
	email := entity.NormalizeEmail(event.LeadEmail)
	if email == "" {
		return fmt.Errorf("evento %s sem lead_email", event.RawType)
	}

	campaign, err := uc.CampaignRepo.FindByID(ctx, in.CampaignID)
	if err != nil {
		return fmt.Errorf("campanha %s não encontrada", in.CampaignID)
	}

	// Resolução de identidade (versão single-record: lookup direto)
	lead, err := uc.LeadRepo.FindByCampaignAndEmail(ctx, campaign.ID, email)
	if err != nil && err != entity.ErrLeadNotFound {
		return fmt.Errorf("lookup do lead: %w", err)
	}

	// Create-if-absent: só eventos com significado (positivo, reply, sent)
	// criam lead, e só se a campanha tem cliente. Evento informacional sem
	// registro prévio não cria nada.
	if lead == nil {
		if !creatableEvent(event.Kind) {
			log.Printf("ℹ️ Webhook %s: evento %s para %s sem lead local, ignorando", campaign.ID, event.RawType, email)
			return nil
		}
		if _, err := uc.ClientRepo.FindByID(ctx, campaign.ClientID); err != nil {
			return fmt.Errorf("campanha %s sem cliente, lead não criado", campaign.ID)
		}
		lead = entity.NewLead(campaign.ID, email)
	}

	if _, conflict := BackfillProviderID(lead, event.ProviderLeadID); conflict {
		log.Printf("⚠️ Webhook: conflito de id nativo no lead %s (%s vs %s), mantendo o antigo",
			lead.Email, lead.ProviderLeadID, event.ProviderLeadID)
	}

	switch event.Kind {
	case provider.EventPositive:
		MarkPositiveReply(lead)

	case provider.EventNegative:
		// Assimetria proposital: em registro existente o evento negativo
		// NÃO mexe na flag (protege classificação já feita e edição do
		// operador). Ver process_webhook_test.go.

	case provider.EventReply:
		lead.HasReplied = true
		lead.ReplyCount++
		applyStatus(lead, entity.LeadStatusReplied)
		if err := uc.CampaignRepo.IncrementEmailsReplied(ctx, campaign.ID); err != nil {
			log.Printf("⚠️ Webhook: falha ao incrementar contador de replies: %v", err)
		}

	case provider.EventSent:
		applyStatus(lead, entity.LeadStatusContacted)
		if err := uc.CampaignRepo.IncrementEmailsSent(ctx, campaign.ID); err != nil {
			log.Printf("⚠️ Webhook: falha ao incrementar contador de envios: %v", err)
		}

	case provider.EventBounced:
		applyStatus(lead, entity.LeadStatusBounced)
		if err := uc.CampaignRepo.IncrementEmailsBounced(ctx, campaign.ID); err != nil {
			log.Printf("⚠️ Webhook: falha ao incrementar contador de bounces: %v", err)
		}

	default:
		// Evento desconhecido/informacional: nada muda no lead, só auditoria
		return nil
	}

	lead.UpdatedAt = time.Now()
	// Upsert com merge na chave natural: corrida contra um sync completo
	// converge em vez de estourar unique violation.
	if err := uc.LeadRepo.UpsertBatch(ctx, []*entity.Lead{lead}); err != nil {
		return fmt.Errorf("gravação do lead: %w", err)
	}

	out.IsPositive = lead.IsPositiveReply

	// Persistir o conteúdo do email quando veio no evento
	if (event.Kind == provider.EventReply || event.Kind == provider.EventSent) && event.HasEmailContent() {
		uc.persistEmail(ctx, campaign, lead, event)
	}

	// Efeitos colaterais de resposta positiva: fire-and-forget, falha nunca
	// derruba a resposta do webhook
	if event.Kind == provider.EventPositive {
		payload := queue.PositiveReplyPayload{
			CampaignID: campaign.ID,
			ClientID:   campaign.ClientID,
			Provider:   in.Provider,
			LeadID:     lead.ID,
			LeadEmail:  lead.Email,
			LeadName:   lead.Name,
			Subject:    event.Subject,
			Origin:     "WEBHOOK_" + in.Provider,
		}
		if err := uc.Queue.PublishPositiveReply(ctx, payload); err != nil {
			log.Printf("⚠️ Webhook: falha ao publicar resposta positiva na fila: %v", err)
		}
	}

	return nil
}

func (uc *ProcessWebhookUseCase) persistEmail(ctx context.Context, campaign *entity.Campaign, lead *entity.Lead, event *provider.WebhookEvent) {
	record := entity.NewLeadEmail(lead.ID, campaign.ID, event.MessageID)
	record.Direction = entity.EmailDirectionOutbound
	if event.Kind == provider.EventReply {
		record.Direction = entity.EmailDirectionInbound
	}
	record.FromEmail = event.FromEmail
	record.ToEmail = event.ToEmail
	record.Subject = event.Subject
	record.BodyText = event.BodyText
	record.BodyHTML = event.BodyHTML
	record.SequenceStep = event.SequenceStep
	record.SentAt = event.OccurredAt

	if err := uc.LeadEmailRepo.Upsert(ctx, record); err != nil {
		log.Printf("⚠️ Webhook: falha ao gravar email do lead %s: %v", lead.Email, err)
	}
}

func creatableEvent(kind provider.EventKind) bool {
	switch kind {
	case provider.EventPositive, provider.EventReply, provider.EventSent:
		return true
	}
	return false
}
