package dto

import "github.com/shopspring/decimal"

type DeudaResponse struct {
	ID            string          `json:"id"`
	Concepto      string          `json:"concepto"`
	Periodo       string          `json:"periodo"`
	Vencimiento   string          `json:"vencimiento"`
	MontoOriginal decimal.Decimal `json:"monto_original"`
	Saldo         decimal.Decimal `json:"saldo"`
	Estado        string          `json:"estado"`
}

// GrupoDeudas accumulates one year's debts with a running subtotal,
// built in a single pass over the list.
type GrupoDeudas struct {
	Anio     string          `json:"anio"`
	Deudas   []DeudaResponse `json:"deudas"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type DeudasColegiadoResponse struct {
	ColegiadoID string          `json:"colegiado_id"`
	Colegiado   string          `json:"colegiado"`
	Habil       bool            `json:"habil"`
	Grupos      []GrupoDeudas   `json:"grupos"`
	Total       decimal.Decimal `json:"total"`
}
