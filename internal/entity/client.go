package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entidade: Client (cliente da agência, dono das campanhas)
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClient(name, email string) *Client {
	return &Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
}
