package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendientesAgrupadasPorAnio(t *testing.T) {
	deudaRepo := newFakeDeudaRepo()
	colegiados := newFakeColegiadoRepo()
	svc := NewDeudaService(deudaRepo, colegiados)

	colegiado := colegiados.agregar("12-0345", "05209918", "María", "Quispe", false)
	deudaRepo.pendiente(colegiado.ID, "cuota_ordinaria", "2024-11", decimal.NewFromInt(30))
	deudaRepo.pendiente(colegiado.ID, "cuota_ordinaria", "2024-12", decimal.NewFromInt(30))
	deudaRepo.pendiente(colegiado.ID, "cuota_ordinaria", "2025-01", decimal.NewFromInt(35))
	deudaRepo.pendiente(colegiado.ID, "multa", "2025-03", decimal.NewFromInt(50))

	resp, err := svc.PendientesPorColegiado(context.Background(), colegiado.ID)
	require.NoError(t, err)

	assert.Equal(t, "María Quispe", resp.Colegiado)
	assert.False(t, resp.Habil)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(145)))

	require.Len(t, resp.Grupos, 2)
	subtotales := map[string]decimal.Decimal{}
	for _, g := range resp.Grupos {
		subtotales[g.Anio] = g.Subtotal
	}
	assert.True(t, subtotales["2024"].Equal(decimal.NewFromInt(60)))
	assert.True(t, subtotales["2025"].Equal(decimal.NewFromInt(85)))
}

func TestBuscarColegiadoPorDNIYMatricula(t *testing.T) {
	deudaRepo := newFakeDeudaRepo()
	colegiados := newFakeColegiadoRepo()
	svc := NewDeudaService(deudaRepo, colegiados)

	colegiados.agregar("12-0345", "05209918", "María", "Quispe", true)

	porDNI, err := svc.BuscarColegiado(context.Background(), "05209918")
	require.NoError(t, err)
	assert.Equal(t, "María Quispe", porDNI.Colegiado)
	assert.True(t, porDNI.Habil)

	// A query with a hyphen goes through the matrícula index.
	porMatricula, err := svc.BuscarColegiado(context.Background(), "12-0345")
	require.NoError(t, err)
	assert.Equal(t, porDNI.ColegiadoID, porMatricula.ColegiadoID)
}

func TestBuscarColegiadoInexistente(t *testing.T) {
	svc := NewDeudaService(newFakeDeudaRepo(), newFakeColegiadoRepo())

	_, err := svc.BuscarColegiado(context.Background(), "99999999")
	require.Error(t, err)

	_, err = svc.BuscarColegiado(context.Background(), "   ")
	require.Error(t, err)
}

func TestPendientesSinDeudas(t *testing.T) {
	deudaRepo := newFakeDeudaRepo()
	colegiados := newFakeColegiadoRepo()
	svc := NewDeudaService(deudaRepo, colegiados)

	colegiado := colegiados.agregar("12-0345", "05209918", "María", "Quispe", true)

	resp, err := svc.PendientesPorColegiado(context.Background(), colegiado.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Grupos)
	assert.True(t, resp.Total.IsZero())
}
