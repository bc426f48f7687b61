package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
)

// Lotes pequenos + pausa entre lotes: latência a mais em troca de não
// estourar o rate limit do provedor.
const (
	emailSyncBatchSize = 5
	emailSyncPause     = 500 * time.Millisecond
)

// SyncLeadEmailsUseCase: baixa o histórico de conversa dos leads com sinal
// de resposta e anexa no store append-only, deduplicando pelo id nativo da
// mensagem. Falha em um lead não derruba os irmãos.
type SyncLeadEmailsUseCase struct {
	LeadEmailRepo LeadEmailRepositoryInterface

	// Ajustáveis nos testes
	BatchSize int
	Pause     time.Duration
}

func NewSyncLeadEmailsUseCase(leadEmailRepo LeadEmailRepositoryInterface) *SyncLeadEmailsUseCase {
	return &SyncLeadEmailsUseCase{
		LeadEmailRepo: leadEmailRepo,
		BatchSize:     emailSyncBatchSize,
		Pause:         emailSyncPause,
	}
}

// Execute devolve quantas mensagens novas foram gravadas.
func (uc *SyncLeadEmailsUseCase) Execute(ctx context.Context, campaign *entity.Campaign, adapter provider.Adapter, leads []*entity.Lead) (int, error) {
	var (
		mu     sync.Mutex
		synced int
		failed int
	)

	for start := 0; start < len(leads); start += uc.BatchSize {
		end := start + uc.BatchSize
		if end > len(leads) {
			end = len(leads)
		}

		var wg sync.WaitGroup
		for _, lead := range leads[start:end] {
			wg.Add(1)
			go func(lead *entity.Lead) {
				defer wg.Done()
				n, err := uc.syncOne(ctx, campaign, adapter, lead)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					log.Printf("⚠️ Emails: falha no lead %s: %v", lead.Email, err)
					return
				}
				synced += n
			}(lead)
		}
		wg.Wait()

		if end < len(leads) {
			if err := sleepContext(ctx, uc.Pause); err != nil {
				return synced, err
			}
		}
	}

	if failed > 0 {
		log.Printf("⚠️ Emails: %d de %d leads falharam no fetch de histórico", failed, len(leads))
	}
	return synced, nil
}

func (uc *SyncLeadEmailsUseCase) syncOne(ctx context.Context, campaign *entity.Campaign, adapter provider.Adapter, lead *entity.Lead) (int, error) {
	messages, err := adapter.FetchEmailsForLead(ctx, campaign.ProviderCampaignID, lead.Email, lead.ProviderLeadID)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	// Dedup contra o que já está gravado
	known, err := uc.LeadEmailRepo.ListProviderEmailIDs(ctx, lead.ID)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, msg := range messages {
		if msg.ProviderEmailID != "" && known[msg.ProviderEmailID] {
			continue
		}

		record := entity.NewLeadEmail(lead.ID, campaign.ID, msg.ProviderEmailID)
		record.Direction = msg.Direction
		record.FromEmail = msg.FromEmail
		record.ToEmail = msg.ToEmail
		record.Subject = msg.Subject
		record.BodyText = msg.BodyText
		record.BodyHTML = msg.BodyHTML
		record.SequenceStep = msg.SequenceStep
		record.SentAt = msg.SentAt

		if err := uc.LeadEmailRepo.Upsert(ctx, record); err != nil {
			log.Printf("⚠️ Emails: falha ao gravar mensagem %s do lead %s: %v", record.ProviderEmailID, lead.Email, err)
			continue
		}
		written++
	}
	return written, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
