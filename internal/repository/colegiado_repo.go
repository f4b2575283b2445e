package repository

import (
	"context"
	"time"

	"portalcaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColegiadoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Colegiado, error)
	FindByDNI(ctx context.Context, dni string) (*model.Colegiado, error)
	FindByMatricula(ctx context.Context, codigo string) (*model.Colegiado, error)
	SetHabil(ctx context.Context, id uuid.UUID, hasta time.Time) error
	Create(ctx context.Context, c *model.Colegiado) error
}

type colegiadoRepo struct{ db *gorm.DB }

func NewColegiadoRepository(db *gorm.DB) ColegiadoRepository { return &colegiadoRepo{db: db} }

func (r *colegiadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Colegiado, error) {
	var c model.Colegiado
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *colegiadoRepo) FindByDNI(ctx context.Context, dni string) (*model.Colegiado, error) {
	var c model.Colegiado
	if err := r.db.WithContext(ctx).Where("dni = ?", dni).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *colegiadoRepo) FindByMatricula(ctx context.Context, codigo string) (*model.Colegiado, error) {
	var c model.Colegiado
	if err := r.db.WithContext(ctx).Where("codigo_matricula = ?", codigo).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *colegiadoRepo) SetHabil(ctx context.Context, id uuid.UUID, hasta time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Colegiado{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"habil": true, "habil_hasta": hasta}).Error
}

func (r *colegiadoRepo) Create(ctx context.Context, c *model.Colegiado) error {
	return r.db.WithContext(ctx).Create(c).Error
}
