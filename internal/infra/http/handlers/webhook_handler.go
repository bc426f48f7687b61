package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospexa-sync/internal/infra/http/middleware"
	"github.com/xavierca1/prospexa-sync/internal/usecase"
)

const signatureHeader = "X-Provider-Signature"

// WebhookHandler recebe eventos dos provedores de cold-email.
// Contrato: 401 só quando a assinatura não bate; fora isso a resposta é
// SEMPRE 200 com o resumo do processamento, mesmo com falha interna —
// senão o provedor entra em tempestade de retry. Falha real fica na
// auditoria (webhook_log), não no status HTTP.
type WebhookHandler struct {
	Adapters usecase.AdapterResolver
	UC       *usecase.ProcessWebhookUseCase

	CampaignRepo  usecase.CampaignRepositoryInterface
	LeadRepo      usecase.LeadRepositoryInterface
	LeadEmailRepo usecase.LeadEmailRepositoryInterface

	// Secret de assinatura por provedor. Vazio = aceita sem verificar
	// (default permissivo para instalação sem webhook secret).
	Secrets map[string]string
}

func NewWebhookHandler(
	adapters usecase.AdapterResolver,
	uc *usecase.ProcessWebhookUseCase,
	campaignRepo usecase.CampaignRepositoryInterface,
	leadRepo usecase.LeadRepositoryInterface,
	leadEmailRepo usecase.LeadEmailRepositoryInterface,
	secrets map[string]string,
) *WebhookHandler {
	return &WebhookHandler{
		Adapters:      adapters,
		UC:            uc,
		CampaignRepo:  campaignRepo,
		LeadRepo:      leadRepo,
		LeadEmailRepo: leadEmailRepo,
		Secrets:       secrets,
	}
}

// Handle processa POST /webhooks/{provider}/{campaignId}
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	campaignID := chi.URLParam(r, "campaignId")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	if !h.verifySignature(providerName, body, r.Header.Get(signatureHeader)) {
		log.Printf("🚫 Webhook %s/%s: assinatura inválida", providerName, campaignID)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_signature"})
		return
	}

	adapter, err := h.Adapters.Get(providerName)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown_provider"})
		return
	}

	event, err := adapter.ParseWebhook(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return
	}

	out, procErr := h.UC.Execute(r.Context(), usecase.ProcessWebhookInput{
		Provider:   providerName,
		CampaignID: campaignID,
		Event:      event,
		RawBody:    body,
	})
	if procErr != nil {
		// Só telemetria: a resposta continua 200
		log.Printf("⚠️ Webhook %s/%s: falha interna (%s): %v", providerName, campaignID, event.RawType, procErr)
		middleware.RecordIntegrationError(providerName)
	}
	middleware.RecordWebhookEvent(providerName, string(event.Kind))
	if out.IsPositive {
		middleware.RecordPositiveReply(providerName)
	}

	writeJSON(w, http.StatusOK, out)
}

// HandleStatus processa GET /webhooks/{provider}/{campaignId}: status do
// sync da campanha, sem efeito colateral nenhum.
func (h *WebhookHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")

	campaign, err := h.CampaignRepo.FindByID(r.Context(), campaignID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "campaign_not_found"})
		return
	}

	leadCount, err := h.LeadRepo.CountByCampaign(r.Context(), campaignID)
	if err != nil {
		log.Printf("⚠️ Status %s: contagem de leads falhou: %v", campaignID, err)
	}
	emailCount, err := h.LeadEmailRepo.CountByCampaign(r.Context(), campaignID)
	if err != nil {
		log.Printf("⚠️ Status %s: contagem de emails falhou: %v", campaignID, err)
	}

	writeJSON(w, http.StatusOK, usecase.SyncStatusOutput{
		CampaignID:      campaign.ID,
		Provider:        campaign.Provider,
		Linked:          campaign.IsLinked(),
		LeadCount:       leadCount,
		EmailCount:      emailCount,
		LastLeadSyncAt:  campaign.LastLeadSyncAt,
		LastEmailSyncAt: campaign.LastEmailSyncAt,
	})
}

// verifySignature: HMAC-SHA256 do body cru, comparação em tempo constante.
// Sem secret configurado para o provedor, aceita incondicionalmente.
func (h *WebhookHandler) verifySignature(providerName string, body []byte, signature string) bool {
	secret := h.Secrets[providerName]
	if secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
