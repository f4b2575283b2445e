package repository

import (
	"context"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	// DB exposes the underlying handle so services can run multi-repo
	// transactions; nil in unit tests (fakes run fn directly).
	DB() *gorm.DB
	NextReciboNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	CreateNotaCreditoTx(tx *gorm.DB, n *model.NotaCredito) error

	CreateVerificacion(ctx context.Context, v *model.VerificacionPago) error
	FindVerificacionByID(ctx context.Context, id uuid.UUID) (*model.VerificacionPago, error)
	FindVerificacionByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.VerificacionPago, error)
	UpdateVerificacion(ctx context.Context, v *model.VerificacionPago) error
	ListPagosEnRevision(ctx context.Context, limit int) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

// NextReciboNumber pulls the next value from a dedicated sequence so receipt
// numbers are gapless per deployment and safe under concurrent checkouts.
func (r *pagoRepo) NextReciboNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	var n int64
	err := db.Raw("SELECT nextval('numero_recibo_seq')").Scan(&n).Error
	return n, err
}

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Colegiado").
		Preload("Usuario").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pago{})
	if filter.ColegiadoID != "" {
		q = q.Where("colegiado_id = ?", filter.ColegiadoID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("created_at < ?", filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pagos []model.Pago
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&pagos).Error
	return pagos, total, err
}

func (r *pagoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Pago{}).
		Where("id = ?", id).
		Update("estado", estado).Error
}

func (r *pagoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Pago{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pagoRepo) CreateNotaCreditoTx(tx *gorm.DB, n *model.NotaCredito) error {
	return tx.Create(n).Error
}

func (r *pagoRepo) CreateVerificacion(ctx context.Context, v *model.VerificacionPago) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *pagoRepo) FindVerificacionByID(ctx context.Context, id uuid.UUID) (*model.VerificacionPago, error) {
	var v model.VerificacionPago
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *pagoRepo) FindVerificacionByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.VerificacionPago, error) {
	var v model.VerificacionPago
	if err := r.db.WithContext(ctx).Where("pago_id = ?", pagoID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *pagoRepo) UpdateVerificacion(ctx context.Context, v *model.VerificacionPago) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// ListPagosEnRevision feeds the background re-check cron: digital payments
// whose automatic verification expired.
func (r *pagoRepo) ListPagosEnRevision(ctx context.Context, limit int) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Where("estado = 'pendiente_revision'").
		Order("created_at ASC").
		Limit(limit).
		Find(&pagos).Error
	return pagos, err
}
