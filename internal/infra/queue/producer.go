package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PositiveReplyPayload é o que circula na fila quando um lead vira positivo:
// o consumidor dispara notificação por email e sync com o CRM.
type PositiveReplyPayload struct {
	CampaignID string `json:"campaign_id"`
	ClientID   string `json:"client_id"`
	Provider   string `json:"provider"`

	LeadID    string `json:"lead_id"`
	LeadEmail string `json:"lead_email"`
	LeadName  string `json:"lead_name,omitempty"`
	Subject   string `json:"subject,omitempty"`

	Origin string `json:"origin"` // ex: WEBHOOK_instantly
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishPositiveReply(ctx context.Context, payload PositiveReplyPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
