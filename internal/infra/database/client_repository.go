package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/prospexa-sync/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `SELECT id, name, email, company, created_at FROM clients WHERE id = $1`

	var c entity.Client
	var company sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &company, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Company = company.String
	return &c, nil
}
