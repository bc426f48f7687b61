package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospexa-sync/internal/infra/http/middleware"
	"github.com/xavierca1/prospexa-sync/internal/usecase"
)

// SyncHandler expõe o full sync sob demanda pelo dashboard.
type SyncHandler struct {
	UC *usecase.SyncCampaignLeadsUseCase
}

func NewSyncHandler(uc *usecase.SyncCampaignLeadsUseCase) *SyncHandler {
	return &SyncHandler{UC: uc}
}

// Handle processa POST /campaigns/{campaignId}/sync
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")

	out, err := h.UC.Execute(r.Context(), campaignID)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			status := http.StatusUnprocessableEntity
			if domainErr.Code == usecase.CodeCampaignNotFound {
				status = http.StatusNotFound
			}
			writeJSON(w, status, map[string]string{
				"error":   domainErr.Code,
				"message": domainErr.Message,
			})
			return
		}
		log.Printf("❌ Sync %s: %v", campaignID, err)
		middleware.RecordIntegrationError("sync")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": usecase.CodeProviderError})
		return
	}

	middleware.RecordLeadsSynced(out.Inserted + out.Updated)
	writeJSON(w, http.StatusOK, out)
}
