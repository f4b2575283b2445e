package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCatalogo is a sellable concept at the caja: certificates, course fees,
// merchandising, donations. Items with PermiteMontoLibre accept an operator
// supplied amount bounded by [MontoMinimo, MontoMaximo] instead of PrecioBase.
type ItemCatalogo struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string          `gorm:"index;not null"`
	Categoria         string          `gorm:"not null"`
	PrecioBase        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PermiteMontoLibre bool            `gorm:"not null;default:false"`
	MontoMinimo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoMaximo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ManejaStock       bool            `gorm:"not null;default:false"`
	Stock             int             `gorm:"not null;default:0"`
	Activo            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
