package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
}

type CerrarCajaRequest struct {
	SesionCajaID   string          `json:"sesion_caja_id"  validate:"required,uuid"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
	Observaciones  string          `json:"observaciones"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso_manual egreso_manual"`
	Monto        decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotalesSesion carries the running session figures displayed on the register
// header: everything here is recomputed from movimientos, never cached.
type TotalesSesion struct {
	Esperado      decimal.Decimal `json:"esperado"`
	Efectivo      decimal.Decimal `json:"efectivo"`
	Digital       decimal.Decimal `json:"digital"`
	Egresos       decimal.Decimal `json:"egresos"`
	NumOperaciones int            `json:"num_operaciones"`
}

type CierreCajaResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	MontoEsperado  decimal.Decimal `json:"monto_esperado"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado"`
	Descuadre      decimal.Decimal `json:"descuadre"`
	// Resultado: "exacto" | "sobrante" | "faltante"
	Resultado string `json:"resultado"`
	Estado    string `json:"estado"`
}

type SesionCajaResponse struct {
	SesionCajaID   string           `json:"sesion_caja_id"`
	Usuario        string           `json:"usuario"`
	MontoApertura  decimal.Decimal  `json:"monto_apertura"`
	Totales        TotalesSesion    `json:"totales"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado,omitempty"`
	Descuadre      *decimal.Decimal `json:"descuadre,omitempty"`
	Resultado      *string          `json:"resultado,omitempty"`
	Estado         string           `json:"estado"`
	Observaciones  *string          `json:"observaciones,omitempty"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}
