package model

import (
	"time"

	"github.com/google/uuid"
)

// Colegiado is a registered member of the association.
// Habil reflects the member's standing: true = "hábil" (dues current),
// false = "inhábil" (suspended for unpaid dues).
type Colegiado struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoMatricula string    `gorm:"uniqueIndex;not null"` // formato NN-NNNN
	DNI             string    `gorm:"uniqueIndex;not null"` // 8 digitos
	Nombres         string    `gorm:"not null"`
	Apellidos       string    `gorm:"not null"`
	Email           *string
	Telefono        *string
	Habil           bool `gorm:"not null;default:false"`
	// HabilHasta is the date through which the current standing is covered.
	HabilHasta *time.Time
	Activo     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Deudas []Deuda `gorm:"foreignKey:ColegiadoID"`
}
