package repository

import (
	"context"

	"portalcaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeudaRepository interface {
	ListPendientesByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]model.Deuda, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deuda, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Deuda, error)
	MarcarPagadaTx(tx *gorm.DB, id uuid.UUID) error
	ReabrirTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error
	CountPendientesVencidas(ctx context.Context, colegiadoID uuid.UUID) (int64, error)
	Create(ctx context.Context, d *model.Deuda) error
}

type deudaRepo struct{ db *gorm.DB }

func NewDeudaRepository(db *gorm.DB) DeudaRepository { return &deudaRepo{db: db} }

func (r *deudaRepo) ListPendientesByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]model.Deuda, error) {
	var deudas []model.Deuda
	err := r.db.WithContext(ctx).
		Where("colegiado_id = ? AND estado = 'pendiente'", colegiadoID).
		Order("vencimiento ASC").
		Find(&deudas).Error
	return deudas, err
}

func (r *deudaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deuda, error) {
	var d model.Deuda
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deudaRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Deuda, error) {
	var deudas []model.Deuda
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&deudas).Error
	return deudas, err
}

// MarcarPagadaTx settles a debt inside the checkout transaction.
// Partial payments are not supported at the caja: the full saldo is settled.
func (r *deudaRepo) MarcarPagadaTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Deuda{}).
		Where("id = ? AND estado = 'pendiente'", id).
		Updates(map[string]interface{}{"estado": "pagada", "saldo": 0}).Error
}

// ReabrirTx reverts a settled debt when its payment is voided.
func (r *deudaRepo) ReabrirTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.Model(&model.Deuda{}).
		Where("id = ? AND estado = 'pagada'", id).
		Updates(map[string]interface{}{"estado": "pendiente", "saldo": saldo}).Error
}

func (r *deudaRepo) CountPendientesVencidas(ctx context.Context, colegiadoID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Deuda{}).
		Where("colegiado_id = ? AND estado = 'pendiente' AND vencimiento < NOW()", colegiadoID).
		Count(&n).Error
	return n, err
}

func (r *deudaRepo) Create(ctx context.Context, d *model.Deuda) error {
	return r.db.WithContext(ctx).Create(d).Error
}
