package service

import (
	"context"
	"fmt"
	"testing"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carritoFixture struct {
	carritos   repository.CarritoStore
	cajaRepo   *fakeCajaRepo
	deudaRepo  *fakeDeudaRepo
	catalogo   *fakeCatalogoRepo
	pagoRepo   *fakePagoRepo
	colegiados *fakeColegiadoRepo
	jobs       *fakeEnqueuer
	launcher   *fakeLauncher
	svc        CarritoService

	sesion    *model.SesionCaja
	colegiado *model.Colegiado
}

func newCarritoFixture(t *testing.T) *carritoFixture {
	t.Helper()
	f := &carritoFixture{
		carritos:   repository.NewMemCarritoStore(),
		cajaRepo:   newFakeCajaRepo(),
		deudaRepo:  newFakeDeudaRepo(),
		catalogo:   newFakeCatalogoRepo(),
		pagoRepo:   newFakePagoRepo(),
		colegiados: newFakeColegiadoRepo(),
		jobs:       &fakeEnqueuer{},
		launcher:   &fakeLauncher{},
	}
	constancias := NewConstanciaService(newFakeConstanciaRepo(), f.colegiados, f.jobs)
	pagos := NewPagoService(f.pagoRepo, f.deudaRepo, f.cajaRepo, f.catalogo, f.colegiados, constancias)
	f.svc = NewCarritoService(
		f.carritos, f.cajaRepo, f.deudaRepo, f.catalogo, f.pagoRepo,
		pagos, f.launcher, 3000, 10,
	)
	f.sesion = f.cajaRepo.abierta(uuid.New(), decimal.NewFromInt(100))
	f.colegiado = f.colegiados.agregar("12-0345", "05209918", "María", "Quispe", false)
	return f
}

func (f *carritoFixture) cuotas(t *testing.T, n int) []*model.Deuda {
	t.Helper()
	out := make([]*model.Deuda, 0, n)
	for i := 0; i < n; i++ {
		periodo := fmt.Sprintf("2025-%02d", i+1)
		out = append(out, f.deudaRepo.pendiente(f.colegiado.ID, "cuota_ordinaria", periodo, decimal.NewFromInt(35)))
	}
	return out
}

func (f *carritoFixture) toggle(t *testing.T, deudaID uuid.UUID) *dto.CarritoResponse {
	t.Helper()
	resp, err := f.svc.ToggleDeuda(context.Background(), f.sesion.ID, dto.ToggleDeudaRequest{DeudaID: deudaID.String()})
	require.NoError(t, err)
	return resp
}

// ── Toggle ───────────────────────────────────────────────────────────────────

func TestToggleDeudaAgregaYQuita(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]

	resp := f.toggle(t, deuda.ID)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(35)))
	require.NotNil(t, resp.ColegiadoID)

	// Second toggle removes the line: the cart is exactly as it started.
	resp = f.toggle(t, deuda.ID)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())
	assert.Nil(t, resp.ColegiadoID)
}

func TestToggleDeudaDeOtroColegiado(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	otro := f.colegiados.agregar("20-0001", "40404040", "Luis", "Paredes", false)
	ajena := f.deudaRepo.pendiente(otro.ID, "cuota_ordinaria", "2025-01", decimal.NewFromInt(35))

	f.toggle(t, deuda.ID)
	_, err := f.svc.ToggleDeuda(context.Background(), f.sesion.ID, dto.ToggleDeudaRequest{DeudaID: ajena.ID.String()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "otro colegiado")
}

func TestToggleDeudaNoPendiente(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	deuda.Estado = "pagada"

	_, err := f.svc.ToggleDeuda(context.Background(), f.sesion.ID, dto.ToggleDeudaRequest{DeudaID: deuda.ID.String()})
	require.Error(t, err)
}

func TestCarritoSobreSesionCerrada(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	f.sesion.Estado = "cerrada"

	_, err := f.svc.ToggleDeuda(context.Background(), f.sesion.ID, dto.ToggleDeudaRequest{DeudaID: deuda.ID.String()})
	require.Error(t, err)
}

// ── Items de catálogo ────────────────────────────────────────────────────────

func TestAgregarItemMergeaLineas(t *testing.T) {
	f := newCarritoFixture(t)
	item := &model.ItemCatalogo{Nombre: "Carnet", Categoria: "certificados", PrecioBase: decimal.NewFromInt(25), Activo: true}
	require.NoError(t, f.catalogo.Create(context.Background(), item))

	_, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), Cantidad: 1})
	require.NoError(t, err)
	resp, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), Cantidad: 2})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Cantidad)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(75)))
}

func TestMontoLibreFueraDeRango(t *testing.T) {
	f := newCarritoFixture(t)
	item := &model.ItemCatalogo{
		Nombre: "Donación", Categoria: "donaciones", PermiteMontoLibre: true,
		MontoMinimo: decimal.NewFromInt(5), MontoMaximo: decimal.NewFromInt(500), Activo: true,
	}
	require.NoError(t, f.catalogo.Create(context.Background(), item))

	bajo := decimal.NewFromInt(2)
	_, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), MontoLibre: &bajo})
	require.Error(t, err)

	ok := decimal.NewFromInt(50)
	resp, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), MontoLibre: &ok})
	require.NoError(t, err)
	assert.Equal(t, "monto_libre", resp.Items[0].Tipo)
	assert.True(t, resp.Total.Equal(ok))
}

func TestAgregarItemSinStock(t *testing.T) {
	f := newCarritoFixture(t)
	item := &model.ItemCatalogo{Nombre: "Carnet", Categoria: "certificados", PrecioBase: decimal.NewFromInt(25), ManejaStock: true, Stock: 1, Activo: true}
	require.NoError(t, f.catalogo.Create(context.Background(), item))

	_, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), Cantidad: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}

// ── Descuento por volumen ────────────────────────────────────────────────────

func TestDescuentoPorVolumen(t *testing.T) {
	cuota := decimal.NewFromInt(35)
	linea := func(periodo string) dto.ItemCarrito {
		return dto.ItemCarrito{Tipo: "deuda", Concepto: "cuota_ordinaria", Periodo: periodo, Monto: cuota}
	}

	t.Run("cinco cuotas sin descuento", func(t *testing.T) {
		var items []dto.ItemCarrito
		for i := 0; i < 5; i++ {
			items = append(items, linea("2025-01"))
		}
		_, descuento, total := CalcularTotales(items)
		assert.True(t, descuento.IsZero())
		assert.True(t, total.Equal(decimal.NewFromInt(175)))
	})

	t.Run("seis cuotas cinco por ciento", func(t *testing.T) {
		var items []dto.ItemCarrito
		for i := 0; i < 6; i++ {
			items = append(items, linea("2025-01"))
		}
		subtotal, descuento, total := CalcularTotales(items)
		assert.True(t, subtotal.Equal(decimal.NewFromInt(210)))
		assert.True(t, descuento.Equal(decimal.NewFromFloat(10.5)))
		assert.True(t, total.Equal(decimal.NewFromFloat(199.5)))
	})

	t.Run("doce cuotas diez por ciento", func(t *testing.T) {
		var items []dto.ItemCarrito
		for i := 0; i < 12; i++ {
			items = append(items, linea("2025-01"))
		}
		subtotal, descuento, total := CalcularTotales(items)
		assert.True(t, subtotal.Equal(decimal.NewFromInt(420)))
		assert.True(t, descuento.Equal(decimal.NewFromInt(42)))
		assert.True(t, total.Equal(decimal.NewFromInt(378)))
	})

	t.Run("multas no cuentan para el descuento", func(t *testing.T) {
		var items []dto.ItemCarrito
		for i := 0; i < 5; i++ {
			items = append(items, linea("2025-01"))
		}
		items = append(items, dto.ItemCarrito{Tipo: "deuda", Concepto: "multa", Monto: decimal.NewFromInt(50)})
		_, descuento, _ := CalcularTotales(items)
		assert.True(t, descuento.IsZero())
	})

	t.Run("el descuento solo toca las cuotas", func(t *testing.T) {
		var items []dto.ItemCarrito
		for i := 0; i < 6; i++ {
			items = append(items, linea("2025-01"))
		}
		items = append(items, dto.ItemCarrito{Tipo: "item_catalogo", Descripcion: "Carnet", Monto: decimal.NewFromInt(25)})
		subtotal, descuento, total := CalcularTotales(items)
		assert.True(t, subtotal.Equal(decimal.NewFromInt(235)))
		assert.True(t, descuento.Equal(decimal.NewFromFloat(10.5)))
		assert.True(t, total.Equal(decimal.NewFromFloat(224.5)))
	})
}

// ── Checkout ─────────────────────────────────────────────────────────────────

func TestCheckoutEfectivo(t *testing.T) {
	f := newCarritoFixture(t)
	deudas := f.cuotas(t, 2)
	for _, d := range deudas {
		f.toggle(t, d.ID)
	}

	resp, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "boleta",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmado", resp.Estado)
	assert.Equal(t, int64(1), resp.NumeroRecibo)
	assert.Nil(t, resp.VerificacionID)

	for _, d := range deudas {
		assert.Equal(t, "pagada", f.deudaRepo.deudas[d.ID].Estado)
	}
	// Ledger entry in the session, cart gone.
	require.Len(t, f.cajaRepo.movimientos, 1)
	assert.Equal(t, "pago", f.cajaRepo.movimientos[0].Tipo)
	_, err = f.carritos.Get(context.Background(), f.sesion.ID)
	assert.ErrorIs(t, err, repository.ErrCarritoNoEncontrado)
	// No digital verification for cash.
	assert.Empty(t, f.launcher.lanzadas)
}

func TestCheckoutEfectivoRestauraHabilidad(t *testing.T) {
	f := newCarritoFixture(t)
	deudas := f.cuotas(t, 2)
	for _, d := range deudas {
		f.toggle(t, d.ID)
	}

	_, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "boleta",
	})
	require.NoError(t, err)

	// Every past-due period settled: standing restored and constancia queued.
	assert.True(t, f.colegiados.colegiados[f.colegiado.ID].Habil)
	require.Len(t, f.jobs.colas, 1)
	assert.Equal(t, QueueConstancia, f.jobs.colas[0])
}

func TestCheckoutDigitalLanzaVerificacion(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	f.toggle(t, deuda.ID)

	resp, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "yape",
		Referencia:      "YP-123456",
		TipoComprobante: "boleta",
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente_verificacion", resp.Estado)
	require.NotNil(t, resp.VerificacionID)
	assert.Equal(t, []string{*resp.VerificacionID}, f.launcher.lanzadas)
	// Standing untouched until the bank confirms.
	assert.False(t, f.colegiados.colegiados[f.colegiado.ID].Habil)
}

func TestCheckoutDigitalSinReferencia(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	f.toggle(t, deuda.ID)

	_, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "yape",
		Referencia:      "   ",
		TipoComprobante: "boleta",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "referencia")

	// Rejected before the transaction: nothing written anywhere.
	assert.Empty(t, f.pagoRepo.pagos)
	assert.Empty(t, f.cajaRepo.movimientos)
	assert.Equal(t, "pendiente", f.deudaRepo.deudas[deuda.ID].Estado)
	c, err := f.carritos.Get(context.Background(), f.sesion.ID)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestCheckoutFacturaRUCInvalido(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	f.toggle(t, deuda.ID)

	_, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "factura",
		RUCReceptor:     "123",
		RazonSocial:     "Estudio Contable SAC",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUC")
	assert.Empty(t, f.pagoRepo.pagos)
}

func TestCheckoutFacturaSinRazonSocial(t *testing.T) {
	f := newCarritoFixture(t)
	deuda := f.cuotas(t, 1)[0]
	f.toggle(t, deuda.ID)

	_, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "factura",
		RUCReceptor:     "20123456789",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "razón social")
}

func TestCheckoutCarritoVacio(t *testing.T) {
	f := newCarritoFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "boleta",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacío")
}

func TestCheckoutDescuentaStock(t *testing.T) {
	f := newCarritoFixture(t)
	item := &model.ItemCatalogo{Nombre: "Carnet", Categoria: "certificados", PrecioBase: decimal.NewFromInt(25), ManejaStock: true, Stock: 10, Activo: true}
	require.NoError(t, f.catalogo.Create(context.Background(), item))

	_, err := f.svc.AgregarItemCatalogo(context.Background(), f.sesion.ID, dto.AgregarItemRequest{ItemID: item.ID.String(), Cantidad: 3})
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), f.sesion.UsuarioID, dto.CheckoutRequest{
		SesionCajaID:    f.sesion.ID.String(),
		Metodo:          "efectivo",
		TipoComprobante: "boleta",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.catalogo.items[item.ID].Stock)
}
