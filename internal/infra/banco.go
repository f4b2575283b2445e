package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ConsultaPago asks the bank-matching sidecar whether a confirmation has
// arrived for a submitted digital payment.
type ConsultaPago struct {
	PagoID string  `json:"pago_id"`
	Monto  float64 `json:"monto"`
	Metodo string  `json:"metodo"` // yape | plin | transferencia | tarjeta
}

// ConfirmacionBanco is the sidecar's answer. Confirmado=false simply means
// "nothing matched yet" — the poller keeps trying.
type ConfirmacionBanco struct {
	Confirmado      bool   `json:"confirmado"`
	CodigoOperacion string `json:"codigo_operacion"`
	Banco           string `json:"banco"`
	AutoAprobado    bool   `json:"auto_aprobado"`
}

// BancoClient talks to the bank-statement matcher sidecar over HTTP.
// Keeping bank scraping out of process isolates its failures from the caja.
type BancoClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewBancoClient(sidecarURL string) *BancoClient {
	return &BancoClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Consultar performs one verification check. A non-200 from the sidecar is an
// error; a 200 with confirmado=false is a normal "not yet".
func (c *BancoClient) Consultar(ctx context.Context, consulta ConsultaPago) (*ConfirmacionBanco, error) {
	body, err := json.Marshal(consulta)
	if err != nil {
		return nil, fmt.Errorf("banco: marshal consulta: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/confirmaciones/buscar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("banco: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("banco: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("banco: sidecar returned %d", resp.StatusCode)
	}

	var result ConfirmacionBanco
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("banco: decode response: %w", err)
	}
	return &result, nil
}
