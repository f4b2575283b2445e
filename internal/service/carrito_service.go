package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Volume discount over cuotas ordinarias: paying many periods at once earns
// a percentage off the cuota subtotal. Other concepts never discount.
var (
	descuentoTramos = []struct {
		minPeriodos int
		porcentaje  decimal.Decimal
	}{
		{12, decimal.NewFromFloat(0.10)},
		{6, decimal.NewFromFloat(0.05)},
	}

	rucRegexp = regexp.MustCompile(`^\d{11}$`)
)

type CarritoService interface {
	Get(ctx context.Context, sesionID uuid.UUID) (*dto.CarritoResponse, error)
	ToggleDeuda(ctx context.Context, sesionID uuid.UUID, req dto.ToggleDeudaRequest) (*dto.CarritoResponse, error)
	AgregarItemCatalogo(ctx context.Context, sesionID uuid.UUID, req dto.AgregarItemRequest) (*dto.CarritoResponse, error)
	QuitarItem(ctx context.Context, sesionID uuid.UUID, req dto.QuitarItemRequest) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, sesionID uuid.UUID) error
	Checkout(ctx context.Context, usuarioID uuid.UUID, req dto.CheckoutRequest) (*dto.PagoResponse, error)
}

type carritoService struct {
	carritos      repository.CarritoStore
	cajaRepo      repository.CajaRepository
	deudaRepo     repository.DeudaRepository
	catalogoRepo  repository.CatalogoRepository
	pagoRepo      repository.PagoRepository
	pagos         PagoService
	verificador   VerificacionLauncher
	intervaloMs   int
	maxIntentos   int
}

func NewCarritoService(
	carritos repository.CarritoStore,
	cajaRepo repository.CajaRepository,
	deudaRepo repository.DeudaRepository,
	catalogoRepo repository.CatalogoRepository,
	pagoRepo repository.PagoRepository,
	pagos PagoService,
	verificador VerificacionLauncher,
	intervaloMs, maxIntentos int,
) CarritoService {
	return &carritoService{
		carritos:     carritos,
		cajaRepo:     cajaRepo,
		deudaRepo:    deudaRepo,
		catalogoRepo: catalogoRepo,
		pagoRepo:     pagoRepo,
		pagos:        pagos,
		verificador:  verificador,
		intervaloMs:  intervaloMs,
		maxIntentos:  maxIntentos,
	}
}

// ── Totales ───────────────────────────────────────────────────────────────────

// CalcularTotales recomputes subtotal, descuento and total from the cart
// lines. Totals are never stored: every mutation and every read goes through
// here, so a stale cached figure cannot exist.
func CalcularTotales(items []dto.ItemCarrito) (subtotal, descuento, total decimal.Decimal) {
	subtotal = decimal.Zero
	cuotas := decimal.Zero
	numCuotas := 0
	for _, it := range items {
		subtotal = subtotal.Add(it.Monto)
		if it.Tipo == "deuda" && it.Concepto == "cuota_ordinaria" {
			cuotas = cuotas.Add(it.Monto)
			numCuotas++
		}
	}

	descuento = decimal.Zero
	for _, tramo := range descuentoTramos {
		if numCuotas >= tramo.minPeriodos {
			descuento = cuotas.Mul(tramo.porcentaje).Round(2)
			break
		}
	}
	return subtotal, descuento, subtotal.Sub(descuento)
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *carritoService) Get(ctx context.Context, sesionID uuid.UUID) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Get(ctx, sesionID)
	if errors.Is(err, repository.ErrCarritoNoEncontrado) {
		c = &repository.Carrito{SesionCajaID: sesionID, Items: []dto.ItemCarrito{}}
	} else if err != nil {
		return nil, err
	}
	return buildCarritoResponse(c), nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// ToggleDeuda adds the debt if absent and removes it if present. Toggling the
// same id twice leaves the cart exactly as it started.
func (s *carritoService) ToggleDeuda(ctx context.Context, sesionID uuid.UUID, req dto.ToggleDeudaRequest) (*dto.CarritoResponse, error) {
	if err := s.sesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}

	c, err := s.loadOrNew(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	// Present in cart: remove and we are done.
	for i, it := range c.Items {
		if it.Tipo == "deuda" && it.DeudaID == req.DeudaID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			if !s.quedanDeudas(c) {
				c.ColegiadoID = nil
			}
			if err := s.carritos.Save(ctx, c); err != nil {
				return nil, err
			}
			return buildCarritoResponse(c), nil
		}
	}

	deudaID, err := uuid.Parse(req.DeudaID)
	if err != nil {
		return nil, fmt.Errorf("deuda_id inválido: %w", err)
	}
	deuda, err := s.deudaRepo.FindByID(ctx, deudaID)
	if err != nil {
		return nil, errors.New("deuda no encontrada")
	}
	if deuda.Estado != "pendiente" {
		return nil, errors.New("la deuda ya no está pendiente")
	}
	// One member per cart: dues from two colegiados cannot share a receipt.
	if c.ColegiadoID != nil && *c.ColegiadoID != deuda.ColegiadoID {
		return nil, errors.New("el carrito ya tiene deudas de otro colegiado")
	}
	if c.ColegiadoID == nil {
		id := deuda.ColegiadoID
		c.ColegiadoID = &id
	}

	c.Items = append(c.Items, dto.ItemCarrito{
		Tipo:        "deuda",
		DeudaID:     deuda.ID.String(),
		Concepto:    deuda.Concepto,
		Periodo:     deuda.Periodo,
		Descripcion: fmt.Sprintf("%s %s", deuda.Concepto, deuda.Periodo),
		Cantidad:    1,
		Monto:       deuda.Saldo,
	})
	if err := s.carritos.Save(ctx, c); err != nil {
		return nil, err
	}
	return buildCarritoResponse(c), nil
}

func (s *carritoService) AgregarItemCatalogo(ctx context.Context, sesionID uuid.UUID, req dto.AgregarItemRequest) (*dto.CarritoResponse, error) {
	if err := s.sesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item_id inválido: %w", err)
	}
	item, err := s.catalogoRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, errors.New("item de catálogo no encontrado")
	}
	if !item.Activo {
		return nil, errors.New("el item de catálogo no está activo")
	}

	cantidad := req.Cantidad
	if cantidad == 0 {
		cantidad = 1
	}

	var precio decimal.Decimal
	tipo := "item_catalogo"
	switch {
	case item.PermiteMontoLibre:
		if req.MontoLibre == nil {
			return nil, errors.New("el item requiere un monto libre")
		}
		if req.MontoLibre.LessThan(item.MontoMinimo) ||
			(item.MontoMaximo.IsPositive() && req.MontoLibre.GreaterThan(item.MontoMaximo)) {
			return nil, fmt.Errorf("monto fuera del rango permitido [%s, %s]",
				item.MontoMinimo.StringFixed(2), item.MontoMaximo.StringFixed(2))
		}
		precio = *req.MontoLibre
		tipo = "monto_libre"
		cantidad = 1
	default:
		precio = item.PrecioBase
	}

	if item.ManejaStock && item.Stock < cantidad {
		return nil, errors.New("stock insuficiente")
	}

	c, err := s.loadOrNew(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	// Same fixed-price item again: merge into one line.
	if tipo == "item_catalogo" {
		for i, it := range c.Items {
			if it.Tipo == "item_catalogo" && it.ItemID == req.ItemID {
				c.Items[i].Cantidad += cantidad
				c.Items[i].Monto = it.PrecioUnitario.Mul(decimal.NewFromInt(int64(c.Items[i].Cantidad)))
				if err := s.carritos.Save(ctx, c); err != nil {
					return nil, err
				}
				return buildCarritoResponse(c), nil
			}
		}
	}

	c.Items = append(c.Items, dto.ItemCarrito{
		Tipo:           tipo,
		ItemID:         item.ID.String(),
		Descripcion:    item.Nombre,
		Cantidad:       cantidad,
		PrecioUnitario: precio,
		Monto:          precio.Mul(decimal.NewFromInt(int64(cantidad))),
	})
	if err := s.carritos.Save(ctx, c); err != nil {
		return nil, err
	}
	return buildCarritoResponse(c), nil
}

// QuitarItem removes every line for the given catalog item. Removing an id
// that is not in the cart is a no-op, not an error.
func (s *carritoService) QuitarItem(ctx context.Context, sesionID uuid.UUID, req dto.QuitarItemRequest) (*dto.CarritoResponse, error) {
	c, err := s.loadOrNew(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ItemID != req.ItemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	if err := s.carritos.Save(ctx, c); err != nil {
		return nil, err
	}
	return buildCarritoResponse(c), nil
}

func (s *carritoService) Vaciar(ctx context.Context, sesionID uuid.UUID) error {
	return s.carritos.Delete(ctx, sesionID)
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// All validation runs before the transaction opens: a rejected checkout
// leaves the cart, the debts, the stock and the ledger untouched.

func (s *carritoService) Checkout(ctx context.Context, usuarioID uuid.UUID, req dto.CheckoutRequest) (*dto.PagoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if err := s.sesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}

	c, err := s.carritos.Get(ctx, sesionID)
	if err != nil || len(c.Items) == 0 {
		return nil, errors.New("el carrito está vacío")
	}

	referencia := strings.TrimSpace(req.Referencia)
	if req.Metodo != "efectivo" && referencia == "" {
		return nil, fmt.Errorf("el método %s requiere un número de referencia", req.Metodo)
	}
	var rucReceptor, razonSocial *string
	if req.TipoComprobante == "factura" {
		ruc := strings.TrimSpace(req.RUCReceptor)
		razon := strings.TrimSpace(req.RazonSocial)
		if !rucRegexp.MatchString(ruc) {
			return nil, errors.New("la factura requiere un RUC de 11 dígitos")
		}
		if razon == "" {
			return nil, errors.New("la factura requiere la razón social del receptor")
		}
		rucReceptor, razonSocial = &ruc, &razon
	}

	subtotal, descuento, total := CalcularTotales(c.Items)

	estado := "confirmado"
	if req.Metodo != "efectivo" {
		estado = "pendiente_verificacion"
	}

	pago := &model.Pago{
		SesionCajaID:    sesionID,
		UsuarioID:       usuarioID,
		ColegiadoID:     c.ColegiadoID,
		Metodo:          req.Metodo,
		TipoComprobante: req.TipoComprobante,
		RUCReceptor:     rucReceptor,
		RazonSocial:     razonSocial,
		Subtotal:        subtotal,
		Descuento:       descuento,
		Total:           total,
		Estado:          estado,
	}
	if referencia != "" {
		pago.Referencia = &referencia
	}
	for _, it := range c.Items {
		pi := model.PagoItem{
			Tipo:        it.Tipo,
			Descripcion: it.Descripcion,
			Cantidad:    max(it.Cantidad, 1),
			Monto:       it.Monto,
		}
		if it.DeudaID != "" {
			id, err := uuid.Parse(it.DeudaID)
			if err != nil {
				return nil, fmt.Errorf("deuda_id inválido en el carrito: %w", err)
			}
			pi.DeudaID = &id
		}
		if it.ItemID != "" {
			id, err := uuid.Parse(it.ItemID)
			if err != nil {
				return nil, fmt.Errorf("item_id inválido en el carrito: %w", err)
			}
			pi.ItemID = &id
		}
		pago.Items = append(pago.Items, pi)
	}

	err = runTx(s.pagoRepo.DB(), func(tx *gorm.DB) error {
		numero, err := s.pagoRepo.NextReciboNumber(ctx, tx)
		if err != nil {
			return err
		}
		pago.NumeroRecibo = numero
		if err := s.pagoRepo.Create(ctx, tx, pago); err != nil {
			return err
		}

		for _, it := range pago.Items {
			switch {
			case it.Tipo == "deuda" && it.DeudaID != nil:
				if err := s.deudaRepo.MarcarPagadaTx(tx, *it.DeudaID); err != nil {
					return err
				}
			case it.Tipo == "item_catalogo" && it.ItemID != nil:
				if err := s.catalogoRepo.DescontarStockTx(tx, *it.ItemID, it.Cantidad); err != nil {
					return err
				}
			}
		}

		metodo := pago.Metodo
		return s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID: sesionID,
			Tipo:         "pago",
			MetodoPago:   &metodo,
			Monto:        total,
			Descripcion:  fmt.Sprintf("Recibo %06d", pago.NumeroRecibo),
			ReferenciaID: &pago.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	// The sale is committed: cart cleanup failing must not undo it.
	if err := s.carritos.Delete(ctx, sesionID); err != nil {
		log.Warn().Err(err).Str("sesion_caja_id", sesionID.String()).
			Msg("no se pudo limpiar el carrito tras el checkout")
	}

	resp := buildPagoResponse(pago)

	switch {
	case pago.Estado == "confirmado":
		if _, _, err := s.pagos.ProcesarConfirmado(ctx, pago.ID); err != nil {
			log.Error().Err(err).Str("pago_id", pago.ID.String()).
				Msg("post-proceso de pago confirmado falló")
		}
	default:
		verif := &model.VerificacionPago{
			PagoID:      pago.ID,
			Monto:       total,
			Metodo:      pago.Metodo,
			MaxIntentos: s.maxIntentos,
			IntervaloMs: s.intervaloMs,
			Estado:      "pendiente",
		}
		if err := s.pagoRepo.CreateVerificacion(ctx, verif); err != nil {
			return nil, err
		}
		id := verif.ID.String()
		resp.VerificacionID = &id
		if s.verificador != nil {
			s.verificador.Lanzar(id)
		}
	}

	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *carritoService) sesionAbierta(ctx context.Context, sesionID uuid.UUID) error {
	sesion, err := s.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != "abierta" {
		return errors.New("No hay sesión de caja abierta")
	}
	return nil
}

func (s *carritoService) loadOrNew(ctx context.Context, sesionID uuid.UUID) (*repository.Carrito, error) {
	c, err := s.carritos.Get(ctx, sesionID)
	if errors.Is(err, repository.ErrCarritoNoEncontrado) {
		return &repository.Carrito{SesionCajaID: sesionID, Items: []dto.ItemCarrito{}}, nil
	}
	return c, err
}

func (s *carritoService) quedanDeudas(c *repository.Carrito) bool {
	for _, it := range c.Items {
		if it.Tipo == "deuda" {
			return true
		}
	}
	return false
}

func buildCarritoResponse(c *repository.Carrito) *dto.CarritoResponse {
	subtotal, descuento, total := CalcularTotales(c.Items)
	resp := &dto.CarritoResponse{
		SesionCajaID: c.SesionCajaID.String(),
		Items:        c.Items,
		Subtotal:     subtotal,
		Descuento:    descuento,
		Total:        total,
	}
	if c.ColegiadoID != nil {
		id := c.ColegiadoID.String()
		resp.ColegiadoID = &id
	}
	if resp.Items == nil {
		resp.Items = []dto.ItemCarrito{}
	}
	return resp
}

func buildPagoResponse(p *model.Pago) *dto.PagoResponse {
	items := make([]dto.PagoItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PagoItemResponse{
			Tipo:        it.Tipo,
			Descripcion: it.Descripcion,
			Cantidad:    it.Cantidad,
			Monto:       it.Monto,
		})
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &dto.PagoResponse{
		ID:              p.ID.String(),
		NumeroRecibo:    p.NumeroRecibo,
		Metodo:          p.Metodo,
		Referencia:      p.Referencia,
		TipoComprobante: p.TipoComprobante,
		Items:           items,
		Subtotal:        p.Subtotal,
		Descuento:       p.Descuento,
		Total:           p.Total,
		Estado:          p.Estado,
		CreatedAt:       created.Format(time.RFC3339),
	}
}
