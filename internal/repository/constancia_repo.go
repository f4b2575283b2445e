package repository

import (
	"context"

	"portalcaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConstanciaRepository interface {
	NextNumero(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *model.Constancia) error
	Update(ctx context.Context, c *model.Constancia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Constancia, error)
	ListByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]model.Constancia, error)
}

type constanciaRepo struct{ db *gorm.DB }

func NewConstanciaRepository(db *gorm.DB) ConstanciaRepository { return &constanciaRepo{db: db} }

func (r *constanciaRepo) NextNumero(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('numero_constancia_seq')").Scan(&n).Error
	return n, err
}

func (r *constanciaRepo) Create(ctx context.Context, c *model.Constancia) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *constanciaRepo) Update(ctx context.Context, c *model.Constancia) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *constanciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Constancia, error) {
	var c model.Constancia
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *constanciaRepo) ListByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]model.Constancia, error) {
	var cs []model.Constancia
	err := r.db.WithContext(ctx).
		Where("colegiado_id = ?", colegiadoID).
		Order("created_at DESC").
		Find(&cs).Error
	return cs, err
}
