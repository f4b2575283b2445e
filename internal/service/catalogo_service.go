package service

import (
	"context"
	"errors"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/shopspring/decimal"
)

type CatalogoService interface {
	// GruposPorCategoria returns active items grouped by category, ready for
	// the register grid.
	GruposPorCategoria(ctx context.Context) ([]dto.GrupoCatalogo, error)
	Crear(ctx context.Context, req dto.CrearItemCatalogoRequest) (*dto.ItemCatalogoResponse, error)
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) GruposPorCategoria(ctx context.Context) ([]dto.GrupoCatalogo, error) {
	items, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	grupos := []dto.GrupoCatalogo{}
	idx := map[string]int{}
	for _, item := range items {
		i, ok := idx[item.Categoria]
		if !ok {
			grupos = append(grupos, dto.GrupoCatalogo{Categoria: item.Categoria, Subtotal: decimal.Zero})
			i = len(grupos) - 1
			idx[item.Categoria] = i
		}
		grupos[i].Items = append(grupos[i].Items, buildItemCatalogoResponse(&item))
		grupos[i].Subtotal = grupos[i].Subtotal.Add(item.PrecioBase)
	}
	return grupos, nil
}

func (s *catalogoService) Crear(ctx context.Context, req dto.CrearItemCatalogoRequest) (*dto.ItemCatalogoResponse, error) {
	if req.PermiteMontoLibre && req.MontoMaximo.IsPositive() && req.MontoMaximo.LessThan(req.MontoMinimo) {
		return nil, errors.New("monto_maximo no puede ser menor que monto_minimo")
	}
	item := &model.ItemCatalogo{
		Nombre:            req.Nombre,
		Categoria:         req.Categoria,
		PrecioBase:        req.PrecioBase,
		PermiteMontoLibre: req.PermiteMontoLibre,
		MontoMinimo:       req.MontoMinimo,
		MontoMaximo:       req.MontoMaximo,
		ManejaStock:       req.ManejaStock,
		Stock:             req.Stock,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := buildItemCatalogoResponse(item)
	return &resp, nil
}

func buildItemCatalogoResponse(item *model.ItemCatalogo) dto.ItemCatalogoResponse {
	return dto.ItemCatalogoResponse{
		ID:                item.ID.String(),
		Nombre:            item.Nombre,
		Categoria:         item.Categoria,
		PrecioBase:        item.PrecioBase,
		PermiteMontoLibre: item.PermiteMontoLibre,
		MontoMinimo:       item.MontoMinimo,
		MontoMaximo:       item.MontoMaximo,
		ManejaStock:       item.ManejaStock,
		Stock:             item.Stock,
	}
}
