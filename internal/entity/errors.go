package entity

import "errors"

var (
	ErrCampaignNotFound  = errors.New("campanha não encontrada")
	ErrClientNotFound    = errors.New("cliente não encontrado")
	ErrLeadNotFound      = errors.New("lead não encontrado")
	ErrProviderNotLinked = errors.New("campanha sem provedor externo vinculado")
)
