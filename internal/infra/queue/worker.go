package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CRMSyncClient empurra o lead positivo para o CRM da agência (Kommo).
type CRMSyncClient interface {
	PushPositiveLead(ctx context.Context, payload PositiveReplyPayload) error
}

// AlertSender avisa o time/cliente que chegou resposta positiva.
type AlertSender interface {
	SendPositiveReplyAlert(payload PositiveReplyPayload) error
}

// Worker consome a fila de respostas positivas. Totalmente desacoplado do
// banco: só CRM e notificação.
type Worker struct {
	Channel   *amqp.Channel
	CRMClient CRMSyncClient
	Alerts    AlertSender
}

func NewWorker(ch *amqp.Channel, crmClient CRMSyncClient, alerts AlertSender) *Worker {
	return &Worker{
		Channel:   ch,
		CRMClient: crmClient,
		Alerts:    alerts,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload PositiveReplyPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre: rejeita sem requeue para não travar a fila
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Resposta positiva de %s (campanha %s)", payload.LeadEmail, payload.CampaignID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro nos efeitos colaterais: %s", err)
				// Vai pra DLQ; efeitos colaterais nunca bloqueiam o engine
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Lead %s notificado e sincronizado no CRM", payload.LeadEmail)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload PositiveReplyPayload) error {
	if w.Alerts != nil {
		if err := w.Alerts.SendPositiveReplyAlert(payload); err != nil {
			// Notificação falhar não impede o CRM sync
			log.Printf("⚠️ [WORKER] Falha no alerta de %s: %v", payload.LeadEmail, err)
		}
	}

	if w.CRMClient != nil {
		return w.CRMClient.PushPositiveLead(ctx, payload)
	}
	return nil
}
