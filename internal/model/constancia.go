package model

import (
	"time"

	"github.com/google/uuid"
)

// Constancia is a "Constancia de Habilidad": a PDF certificate attesting a
// member's active standing. Auto-issued when a verified dues payment restores
// the member to hábil, or requested manually at the caja.
// Estado: "emitida" | "pendiente" (PDF generation queued) | "error"
type Constancia struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ColegiadoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	PagoID      *uuid.UUID `gorm:"type:uuid;index"`
	Numero      int64      `gorm:"uniqueIndex;not null"`
	VigenteHasta time.Time `gorm:"not null"`
	Estado      string     `gorm:"type:varchar(20);not null;default:'pendiente'"`
	PDFPath     *string
	// EmitidaAuto distinguishes poller-triggered issuance from manual requests.
	EmitidaAuto bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
