package dto

import "github.com/shopspring/decimal"

type ItemCatalogoResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Categoria         string          `json:"categoria"`
	PrecioBase        decimal.Decimal `json:"precio_base"`
	PermiteMontoLibre bool            `json:"permite_monto_libre"`
	MontoMinimo       decimal.Decimal `json:"monto_minimo"`
	MontoMaximo       decimal.Decimal `json:"monto_maximo"`
	ManejaStock       bool            `json:"maneja_stock"`
	Stock             int             `json:"stock"`
}

// GrupoCatalogo accumulates one category with its running subtotal of base
// prices (shown as a reference figure in the register grid).
type GrupoCatalogo struct {
	Categoria string                 `json:"categoria"`
	Items     []ItemCatalogoResponse `json:"items"`
	Subtotal  decimal.Decimal        `json:"subtotal"`
}

type CrearItemCatalogoRequest struct {
	Nombre            string          `json:"nombre"     validate:"required,min=3"`
	Categoria         string          `json:"categoria"  validate:"required"`
	PrecioBase        decimal.Decimal `json:"precio_base" validate:"min=0"`
	PermiteMontoLibre bool            `json:"permite_monto_libre"`
	MontoMinimo       decimal.Decimal `json:"monto_minimo" validate:"min=0"`
	MontoMaximo       decimal.Decimal `json:"monto_maximo" validate:"min=0"`
	ManejaStock       bool            `json:"maneja_stock"`
	Stock             int             `json:"stock" validate:"min=0"`
}
