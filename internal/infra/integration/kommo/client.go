package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
)

// Client empurra leads positivos para o Kommo CRM da agência.
// Fluxo: busca/cria o contato pelo email, depois cria o lead vinculado.
type Client struct {
	apiToken string
	baseURL  string
}

func NewClient(cfg Config) *Client {
	return &Client{
		apiToken: cfg.APIToken,
		baseURL:  cfg.BaseURL,
	}
}

// PushPositiveLead implementa queue.CRMSyncClient.
func (c *Client) PushPositiveLead(ctx context.Context, payload queue.PositiveReplyPayload) error {
	if c.apiToken == "" {
		log.Println("⚠️ Kommo: API_TOKEN não configurado")
		return fmt.Errorf("kommo não configurado")
	}

	contactID, err := c.findOrCreateContact(ctx, payload)
	if err != nil {
		return fmt.Errorf("erro ao criar/buscar contato: %w", err)
	}

	name := payload.LeadName
	if name == "" {
		name = payload.LeadEmail
	}

	leadData := []map[string]interface{}{
		{
			"name": fmt.Sprintf("%s - resposta positiva", name),
			"_embedded": map[string]interface{}{
				"tags": []map[string]interface{}{
					{"name": "resposta_positiva"},
					{"name": payload.Provider},
				},
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	body, err := c.post(ctx, "/leads", leadData)
	if err != nil {
		return err
	}

	var result struct {
		Embedded struct {
			Leads []struct {
				ID int `json:"id"`
			} `json:"leads"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return err
	}
	if len(result.Embedded.Leads) == 0 {
		return fmt.Errorf("lead não criado")
	}

	log.Printf("✅ Kommo: Lead criado #%d para %s (campanha %s)", result.Embedded.Leads[0].ID, payload.LeadEmail, payload.CampaignID)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, payload queue.PositiveReplyPayload) (int, error) {
	contactID, err := c.findContactByEmail(ctx, payload.LeadEmail)
	if err == nil && contactID > 0 {
		log.Printf("📇 Kommo: Contato existente encontrado: %d", contactID)
		return contactID, nil
	}

	return c.createContact(ctx, payload)
}

func (c *Client) findContactByEmail(ctx context.Context, email string) (int, error) {
	url := fmt.Sprintf("%s/contacts?query=%s", c.baseURL, email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	c.addAuthHeaders(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("erro ao buscar contato: %d", resp.StatusCode)
	}

	var result struct {
		Embedded struct {
			Contacts []struct {
				ID int `json:"id"`
			} `json:"contacts"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}

	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, fmt.Errorf("contato não encontrado")
}

func (c *Client) createContact(ctx context.Context, payload queue.PositiveReplyPayload) (int, error) {
	name := payload.LeadName
	if name == "" {
		name = payload.LeadEmail
	}

	contactData := []map[string]interface{}{
		{
			"name": name,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "EMAIL",
					"values": []map[string]interface{}{
						{"value": payload.LeadEmail, "enum_code": "WORK"},
					},
				},
			},
		},
	}

	body, err := c.post(ctx, "/contacts", contactData)
	if err != nil {
		return 0, err
	}

	var result struct {
		Embedded struct {
			Contacts []struct {
				ID int `json:"id"`
			} `json:"contacts"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}

	if len(result.Embedded.Contacts) > 0 {
		contactID := result.Embedded.Contacts[0].ID
		log.Printf("✅ Kommo: Novo contato criado: %d", contactID)
		return contactID, nil
	}
	return 0, fmt.Errorf("erro ao obter ID do contato criado")
}

func (c *Client) post(ctx context.Context, path string, data interface{}) ([]byte, error) {
	payload, _ := json.Marshal(data)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	c.addAuthHeaders(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("kommo respondeu %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
