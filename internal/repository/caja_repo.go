package repository

import (
	"context"

	"portalcaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResumenMovimientos groups the session ledger the way the register header
// shows it: cash in drawer vs digital vs manual outflows.
type ResumenMovimientos struct {
	Efectivo    decimal.Decimal
	Digital     decimal.Decimal
	Egresos     decimal.Decimal
	Operaciones int
}

type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error)
	SumMovimientos(ctx context.Context, sesionCajaID uuid.UUID) (ResumenMovimientos, error)
	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = 'abierta'", usuarioID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Movimientos").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionCajaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

// SumMovimientos aggregates the ledger in one GROUP BY pass.
// Efectivo includes ingresos manuales; egresos are stored negative and
// reported here as a positive magnitude.
func (r *cajaRepo) SumMovimientos(ctx context.Context, sesionCajaID uuid.UUID) (ResumenMovimientos, error) {
	rows := []struct {
		Tipo       string
		MetodoPago *string
		Total      decimal.Decimal
		N          int
	}{}
	err := r.db.WithContext(ctx).
		Model(&model.MovimientoCaja{}).
		Select("tipo, metodo_pago, SUM(monto) AS total, COUNT(*) AS n").
		Where("sesion_caja_id = ?", sesionCajaID).
		Group("tipo, metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return ResumenMovimientos{}, err
	}

	res := ResumenMovimientos{
		Efectivo: decimal.Zero,
		Digital:  decimal.Zero,
		Egresos:  decimal.Zero,
	}
	for _, row := range rows {
		switch {
		case row.Tipo == "egreso_manual":
			res.Egresos = res.Egresos.Add(row.Total.Neg())
		case row.MetodoPago != nil && *row.MetodoPago == "efectivo":
			res.Efectivo = res.Efectivo.Add(row.Total)
		case row.MetodoPago != nil:
			res.Digital = res.Digital.Add(row.Total)
		default:
			res.Efectivo = res.Efectivo.Add(row.Total)
		}
		if row.Tipo == "pago" || row.Tipo == "anulacion" {
			res.Operaciones += row.N
		}
	}
	return res, nil
}

func (r *cajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sesiones).Error
	return sesiones, total, err
}
