package repository

import (
	"context"
	"errors"

	"portalcaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogoRepository interface {
	List(ctx context.Context, incluirInactivos bool) ([]model.ItemCatalogo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ItemCatalogo, error)
	Create(ctx context.Context, item *model.ItemCatalogo) error
	Update(ctx context.Context, item *model.ItemCatalogo) error
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	RestaurarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.ItemCatalogo, error) {
	var items []model.ItemCatalogo
	q := r.db.WithContext(ctx).Order("categoria, nombre")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *catalogoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemCatalogo, error) {
	var item model.ItemCatalogo
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogoRepo) Create(ctx context.Context, item *model.ItemCatalogo) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *catalogoRepo) Update(ctx context.Context, item *model.ItemCatalogo) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DescontarStockTx decrements stock atomically; only items with maneja_stock
// participate. The guard keeps stock from going negative.
func (r *catalogoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.ItemCatalogo{}).
		Where("id = ? AND (maneja_stock = false OR stock >= ?)", id, cantidad).
		Update("stock", gorm.Expr("CASE WHEN maneja_stock THEN stock - ? ELSE stock END", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("stock insuficiente")
	}
	return nil
}

// RestaurarStockTx returns units to stock when a payment is voided.
func (r *catalogoRepo) RestaurarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.ItemCatalogo{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN maneja_stock THEN stock + ? ELSE stock END", cantidad)).Error
}
