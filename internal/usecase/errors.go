package usecase

// Códigos usados nos erros de domínio do engine.
const (
	CodeCampaignNotFound  = "CAMPAIGN_NOT_FOUND"
	CodeProviderNotLinked = "PROVIDER_NOT_LINKED"
	CodeUnknownProvider   = "UNKNOWN_PROVIDER"
	CodeProviderError     = "PROVIDER_ERROR"
	CodeDatabaseError     = "DATABASE_ERROR"
)

// DomainError: erro de configuração/regra de negócio. Reportado ao caller,
// nenhuma escrita parcial é tentada.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: falha de infraestrutura (provedor, banco) depois das
// retentativas. O passo que falhou reporta; os irmãos seguem.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
