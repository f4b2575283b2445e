package dto

import "github.com/shopspring/decimal"

// ─── Cart item union ─────────────────────────────────────────────────────────
// Tipo discriminates the line kind: "deuda" | "item_catalogo" | "monto_libre".
// Exactly the fields for the given Tipo are set; the rest stay zero.

type ItemCarrito struct {
	Tipo    string `json:"tipo"`
	DeudaID string `json:"deuda_id,omitempty"`
	ItemID  string `json:"item_id,omitempty"`
	// Concepto and Periodo are copied from the Deuda so the volume discount
	// can count cuota periods without re-reading the debt.
	Concepto       string          `json:"concepto,omitempty"`
	Periodo        string          `json:"periodo,omitempty"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad,omitempty"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario,omitempty"`
	Monto          decimal.Decimal `json:"monto"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ToggleDeudaRequest struct {
	DeudaID string `json:"deuda_id" validate:"required,uuid"`
}

type AgregarItemRequest struct {
	ItemID   string `json:"item_id"  validate:"required,uuid"`
	Cantidad int    `json:"cantidad" validate:"omitempty,min=1"`
	// MontoLibre is required only for items with permite_monto_libre.
	MontoLibre *decimal.Decimal `json:"monto_libre"`
}

type QuitarItemRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CarritoResponse struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	ColegiadoID  *string         `json:"colegiado_id,omitempty"`
	Items        []ItemCarrito   `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Descuento    decimal.Decimal `json:"descuento"`
	Total        decimal.Decimal `json:"total"`
}
