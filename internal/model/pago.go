package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pago is a payment record produced by a caja checkout.
// Estado: "confirmado" (efectivo) | "pendiente_verificacion" (digital, poller
// running) | "pendiente_revision" (poller expired, awaits manual review) |
// "anulado".
type Pago struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroRecibo int64      `gorm:"uniqueIndex;not null"`
	SesionCajaID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	ColegiadoID  *uuid.UUID `gorm:"type:uuid;index"`
	// Metodo: "efectivo" | "yape" | "plin" | "transferencia" | "tarjeta"
	Metodo     string  `gorm:"type:varchar(20);not null"`
	Referencia *string `gorm:"type:varchar(40)"`
	// TipoComprobante: "boleta" | "factura"
	TipoComprobante string  `gorm:"type:varchar(10);not null;default:'boleta'"`
	RUCReceptor     *string `gorm:"type:varchar(11)"`
	RazonSocial     *string
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(30);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items     []PagoItem `gorm:"foreignKey:PagoID"`
	Colegiado *Colegiado `gorm:"foreignKey:ColegiadoID"`
	Usuario   *Usuario   `gorm:"foreignKey:UsuarioID"`
}

// PagoItem is one settled cart line. Tipo mirrors the cart union:
// "deuda" | "item_catalogo" | "monto_libre".
type PagoItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	Tipo        string     `gorm:"type:varchar(20);not null"`
	DeudaID     *uuid.UUID `gorm:"type:uuid;index"`
	ItemID      *uuid.UUID `gorm:"type:uuid"`
	Descripcion string     `gorm:"not null"`
	Cantidad    int        `gorm:"not null;default:1"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// VerificacionPago tracks the automatic bank-confirmation flow of a digital
// payment. Estado: "pendiente" | "verificada" | "expirada".
// Expiration is not an error — the Pago stays in pendiente_revision for a
// human to match against the bank statement.
type VerificacionPago struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo      string          `gorm:"type:varchar(20);not null"`
	Intentos    int             `gorm:"not null;default:0"`
	MaxIntentos int             `gorm:"not null"`
	IntervaloMs int             `gorm:"not null"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// Filled on confirmation
	CodigoOperacion *string `gorm:"type:varchar(40)"`
	Banco           *string `gorm:"type:varchar(40)"`
	AutoAprobado    bool    `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NotaCredito voids an emitted comprobante. The original Pago is never
// deleted; the nota creates the inverse caja movement.
type NotaCredito struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Motivo    string          `gorm:"not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}
