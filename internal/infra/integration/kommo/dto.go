package kommo

// Config explícita no construtor (nada de token global em cache).
type Config struct {
	APIToken string
	BaseURL  string // ex: https://prospexa.kommo.com/api/v4
}
