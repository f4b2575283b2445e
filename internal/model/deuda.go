package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deuda is an outstanding obligation of a colegiado (cuota ordinaria, multa,
// derecho, etc.). The backend is the source of truth: the caja only selects
// debts into a cart and settles them through a Pago.
// Estado: "pendiente" | "pagada" | "anulada"
type Deuda struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ColegiadoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Concepto      string          `gorm:"not null"`                    // "cuota_ordinaria" | "multa" | "derecho"
	Periodo       string          `gorm:"type:varchar(7);not null"`    // "2025-03"
	Vencimiento   time.Time       `gorm:"not null"`
	MontoOriginal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
