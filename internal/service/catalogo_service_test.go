package service

import (
	"context"
	"testing"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGruposPorCategoria(t *testing.T) {
	repo := newFakeCatalogoRepo()
	svc := NewCatalogoService(repo)

	require.NoError(t, repo.Create(context.Background(), &model.ItemCatalogo{Nombre: "Carnet", Categoria: "certificados", PrecioBase: decimal.NewFromInt(25), Activo: true}))
	require.NoError(t, repo.Create(context.Background(), &model.ItemCatalogo{Nombre: "Constancia", Categoria: "certificados", PrecioBase: decimal.NewFromInt(15), Activo: true}))
	require.NoError(t, repo.Create(context.Background(), &model.ItemCatalogo{Nombre: "Curso NIIF", Categoria: "cursos", PrecioBase: decimal.NewFromInt(120), Activo: true}))
	require.NoError(t, repo.Create(context.Background(), &model.ItemCatalogo{Nombre: "Descontinuado", Categoria: "cursos", PrecioBase: decimal.NewFromInt(99), Activo: false}))

	grupos, err := svc.GruposPorCategoria(context.Background())
	require.NoError(t, err)
	require.Len(t, grupos, 2)

	porCategoria := map[string]dto.GrupoCatalogo{}
	for _, g := range grupos {
		porCategoria[g.Categoria] = g
	}
	assert.Len(t, porCategoria["certificados"].Items, 2)
	assert.True(t, porCategoria["certificados"].Subtotal.Equal(decimal.NewFromInt(40)))
	// Inactive items never reach the grid.
	assert.Len(t, porCategoria["cursos"].Items, 1)
}

func TestCrearItemMontoLibreInvalido(t *testing.T) {
	svc := NewCatalogoService(newFakeCatalogoRepo())

	_, err := svc.Crear(context.Background(), dto.CrearItemCatalogoRequest{
		Nombre:            "Donación",
		Categoria:         "donaciones",
		PermiteMontoLibre: true,
		MontoMinimo:       decimal.NewFromInt(100),
		MontoMaximo:       decimal.NewFromInt(10),
	})
	require.Error(t, err)
}

func TestCrearItem(t *testing.T) {
	repo := newFakeCatalogoRepo()
	svc := NewCatalogoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearItemCatalogoRequest{
		Nombre:     "Carnet",
		Categoria:  "certificados",
		PrecioBase: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)

	items, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Activo)
}
