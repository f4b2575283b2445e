package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DatosRUC is the taxpayer record returned by the SUNAT proxy sidecar.
type DatosRUC struct {
	RUC         string `json:"ruc"`
	RazonSocial string `json:"razon_social"`
	Estado      string `json:"estado"`    // ACTIVO | BAJA ...
	Condicion   string `json:"condicion"` // HABIDO | NO HABIDO
	Direccion   string `json:"direccion"`
}

// SunatClient resolves RUC numbers to taxpayer data through the proxy
// sidecar. Used by the factura flow to prefill razón social.
type SunatClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewSunatClient(sidecarURL string) *SunatClient {
	return &SunatClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *SunatClient) ConsultarRUC(ctx context.Context, ruc string) (*DatosRUC, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sidecarURL+"/ruc/"+ruc, nil)
	if err != nil {
		return nil, fmt.Errorf("sunat: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sunat: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("sunat: RUC %s no encontrado", ruc)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sunat: sidecar returned %d", resp.StatusCode)
	}

	var result DatosRUC
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sunat: decode response: %w", err)
	}
	return &result, nil
}
