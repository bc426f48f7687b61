package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/prospexa-sync/internal/entity"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/usecase"
)

// TestMergeLeadUpdateMonotonicPositive - is_positive_reply nunca desliga
func TestMergeLeadUpdateMonotonicPositive(t *testing.T) {
	t.Run("Marcador negativo não desliga a flag", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "joao@empresa.com")
		lead.IsPositiveReply = true
		lead.HasReplied = true
		lead.Status = entity.LeadStatusReplied

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:    "joao@empresa.com",
			Interest: provider.InterestNotInterested,
		})

		assert.True(t, lead.IsPositiveReply, "marcador negativo nunca pode desligar is_positive_reply")
		assert.True(t, lead.HasReplied)
	})

	t.Run("Marcador neutro não desliga a flag", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "joao@empresa.com")
		lead.IsPositiveReply = true

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:    "joao@empresa.com",
			Interest: provider.InterestNeutral,
		})

		assert.True(t, lead.IsPositiveReply)
	})

	t.Run("Marcador positivo liga a flag e sobe o status", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "joao@empresa.com")

		res := usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:    "joao@empresa.com",
			Interest: provider.InterestInterested,
		})

		assert.True(t, res.Changed)
		assert.True(t, lead.IsPositiveReply)
		assert.True(t, lead.HasReplied)
		assert.Equal(t, entity.LeadStatusReplied, lead.Status)
	})

	t.Run("out_of_office e wrong_person não ligam a flag", func(t *testing.T) {
		for _, marker := range []string{provider.InterestOutOfOffice, provider.InterestWrongPerson} {
			lead := entity.NewLead("camp-1", "joao@empresa.com")
			usecase.MergeLeadUpdate(lead, provider.Lead{Email: lead.Email, Interest: marker})
			assert.False(t, lead.IsPositiveReply, "marcador %s não é positivo", marker)
		}
	})
}

// TestMergeLeadUpdateStatusPrecedence - status só sobe na tabela
func TestMergeLeadUpdateStatusPrecedence(t *testing.T) {
	t.Run("Won nunca é rebaixado pelo sync", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "maria@empresa.com")
		lead.Status = entity.LeadStatusWon

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:     "maria@empresa.com",
			OpenCount: 3,
		})

		assert.Equal(t, entity.LeadStatusWon, lead.Status, "desfecho do operador não pode ser rebaixado")
	})

	t.Run("Replied não volta para opened", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "maria@empresa.com")
		lead.Status = entity.LeadStatusReplied

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:     "maria@empresa.com",
			OpenCount: 5,
		})

		assert.Equal(t, entity.LeadStatusReplied, lead.Status)
	})

	t.Run("Contacted sobe para opened com open_count", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "maria@empresa.com")

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:     "maria@empresa.com",
			OpenCount: 1,
		})

		assert.Equal(t, entity.LeadStatusOpened, lead.Status)
	})

	t.Run("Meeting booked vira booked", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "maria@empresa.com")
		lead.Status = entity.LeadStatusReplied

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:    "maria@empresa.com",
			Interest: provider.InterestMeetingBooked,
		})

		assert.Equal(t, entity.LeadStatusBooked, lead.Status)
	})

	t.Run("Bounce no provedor vira bounced", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "maria@empresa.com")

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:  "maria@empresa.com",
			Status: provider.LeadStatusBounced,
		})

		assert.Equal(t, entity.LeadStatusBounced, lead.Status)
	})
}

// TestMergeLeadUpdateFields - contato e contadores
func TestMergeLeadUpdateFields(t *testing.T) {
	t.Run("Payload vazio não apaga contato existente", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "ana@empresa.com")
		lead.Name = "Ana Souza"
		lead.Company = "Empresa X"

		res := usecase.MergeLeadUpdate(lead, provider.Lead{Email: "ana@empresa.com"})

		assert.Equal(t, "Ana Souza", lead.Name)
		assert.Equal(t, "Empresa X", lead.Company)
		assert.False(t, res.Changed)
	})

	t.Run("Contadores seguem o provedor", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "ana@empresa.com")
		lead.OpenCount = 2

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email:      "ana@empresa.com",
			OpenCount:  7,
			ClickCount: 2,
			ReplyCount: 1,
		})

		assert.Equal(t, 7, lead.OpenCount)
		assert.Equal(t, 2, lead.ClickCount)
		assert.Equal(t, 1, lead.ReplyCount)
		assert.True(t, lead.HasReplied, "reply_count > 0 liga has_replied")
	})

	t.Run("Notes nunca é tocado", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "ana@empresa.com")
		lead.Notes = "ligou dia 12, pediu proposta"

		usecase.MergeLeadUpdate(lead, provider.Lead{
			Email: "ana@empresa.com",
			Name:  "Ana",
		})

		assert.Equal(t, "ligou dia 12, pediu proposta", lead.Notes)
	})
}

// TestBackfillProviderID - id nativo é backfill, nunca substituição
func TestBackfillProviderID(t *testing.T) {
	t.Run("Preenche quando vazio", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")

		backfilled, conflict := usecase.BackfillProviderID(lead, "prov-123")

		assert.True(t, backfilled)
		assert.False(t, conflict)
		assert.Equal(t, "prov-123", lead.ProviderLeadID)
	})

	t.Run("Mesmo id é no-op", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")
		lead.ProviderLeadID = "prov-123"

		backfilled, conflict := usecase.BackfillProviderID(lead, "prov-123")

		assert.False(t, backfilled)
		assert.False(t, conflict)
	})

	t.Run("Id divergente mantém o antigo e reporta conflito", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")
		lead.ProviderLeadID = "prov-123"

		backfilled, conflict := usecase.BackfillProviderID(lead, "prov-999")

		assert.False(t, backfilled)
		assert.True(t, conflict)
		assert.Equal(t, "prov-123", lead.ProviderLeadID, "id gravado nunca é substituído")
	})

	t.Run("Payload sem id é no-op", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")

		backfilled, conflict := usecase.BackfillProviderID(lead, "")

		assert.False(t, backfilled)
		assert.False(t, conflict)
	})
}

// TestMarkPositiveReply - classificação só-aditiva
func TestMarkPositiveReply(t *testing.T) {
	t.Run("Liga flags e sobe status", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")

		changed := usecase.MarkPositiveReply(lead)

		assert.True(t, changed)
		assert.True(t, lead.IsPositiveReply)
		assert.True(t, lead.HasReplied)
		assert.Equal(t, entity.LeadStatusReplied, lead.Status)
	})

	t.Run("Idempotente", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")
		usecase.MarkPositiveReply(lead)

		changed := usecase.MarkPositiveReply(lead)

		assert.False(t, changed, "segunda chamada não muda nada")
	})

	t.Run("Não rebaixa status booked", func(t *testing.T) {
		lead := entity.NewLead("camp-1", "x@y.com")
		lead.Status = entity.LeadStatusBooked

		usecase.MarkPositiveReply(lead)

		assert.Equal(t, entity.LeadStatusBooked, lead.Status)
	})
}
