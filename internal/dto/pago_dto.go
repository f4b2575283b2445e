package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutRequest struct {
	SesionCajaID string `json:"sesion_caja_id" validate:"required,uuid"`
	// Metodo: efectivo | yape | plin | transferencia | tarjeta
	Metodo string `json:"metodo" validate:"required,oneof=efectivo yape plin transferencia tarjeta"`
	// Referencia is mandatory for every non-cash method (numero de operacion).
	Referencia string `json:"referencia"`
	// TipoComprobante: boleta | factura
	TipoComprobante string `json:"tipo_comprobante" validate:"required,oneof=boleta factura"`
	RUCReceptor     string `json:"ruc_receptor"`
	RazonSocial     string `json:"razon_social"`
}

type AnularPagoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoItemResponse struct {
	Tipo        string          `json:"tipo"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Monto       decimal.Decimal `json:"monto"`
}

type PagoResponse struct {
	ID              string             `json:"id"`
	NumeroRecibo    int64              `json:"numero_recibo"`
	Metodo          string             `json:"metodo"`
	Referencia      *string            `json:"referencia,omitempty"`
	TipoComprobante string             `json:"tipo_comprobante"`
	Items           []PagoItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Descuento       decimal.Decimal    `json:"descuento"`
	Total           decimal.Decimal    `json:"total"`
	Estado          string             `json:"estado"`
	// VerificacionID is set for digital payments: the caller should poll
	// /v1/verificaciones/{id} to follow the automatic confirmation.
	VerificacionID *string `json:"verificacion_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type PagoFilter struct {
	ColegiadoID string
	Estado      string
	Desde       string
	Hasta       string
	Page        int
	Limit       int
}

type PagoListResponse struct {
	Data  []PagoResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Verification DTOs ───────────────────────────────────────────────────────

// ConfirmacionBancaria is the payload reported by the bank-matching service
// when an automatic confirmation arrives.
type ConfirmacionBancaria struct {
	CodigoOperacion      string `json:"codigo_operacion"`
	Banco                string `json:"banco"`
	AutoAprobado         bool   `json:"auto_aprobado"`
	HabilidadActualizada bool   `json:"habilidad_actualizada"`
	ConstanciaEmitida    bool   `json:"constancia_emitida"`
}

type VerificacionEstadoResponse struct {
	ID                string                `json:"id"`
	PagoID            string                `json:"pago_id"`
	Estado            string                `json:"estado"` // pendiente | verificada | expirada
	Intentos          int                   `json:"intentos"`
	IntentosRestantes int                   `json:"intentos_restantes"`
	Confirmacion      *ConfirmacionBancaria `json:"confirmacion,omitempty"`
}
