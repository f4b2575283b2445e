package service

import (
	"context"
	"errors"
	"time"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository layer. DB() returns nil so runTx runs
// the callback directly, without a real transaction.

// ── Caja ─────────────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) abierta(usuarioID uuid.UUID, apertura decimal.Decimal) *model.SesionCaja {
	s := &model.SesionCaja{
		ID:            uuid.New(),
		UsuarioID:     usuarioID,
		MontoApertura: apertura,
		Estado:        "abierta",
		OpenedAt:      time.Now(),
	}
	r.sesiones[s.ID] = s
	return s
}

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionAbiertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.UsuarioID == usuarioID && s.Estado == "abierta" {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *fakeCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	return r.CreateMovimientoTx(nil, m)
}

func (r *fakeCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) SumMovimientos(_ context.Context, sesionID uuid.UUID) (repository.ResumenMovimientos, error) {
	res := repository.ResumenMovimientos{
		Efectivo: decimal.Zero,
		Digital:  decimal.Zero,
		Egresos:  decimal.Zero,
	}
	for _, m := range r.movimientos {
		if m.SesionCajaID != sesionID {
			continue
		}
		switch {
		case m.Tipo == "egreso_manual":
			res.Egresos = res.Egresos.Add(m.Monto.Neg())
		case m.MetodoPago != nil && *m.MetodoPago == "efectivo":
			res.Efectivo = res.Efectivo.Add(m.Monto)
		case m.MetodoPago != nil:
			res.Digital = res.Digital.Add(m.Monto)
		default:
			res.Efectivo = res.Efectivo.Add(m.Monto)
		}
		if m.Tipo == "pago" || m.Tipo == "anulacion" {
			res.Operaciones++
		}
	}
	return res, nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// ── Deudas ───────────────────────────────────────────────────────────────────

type fakeDeudaRepo struct {
	deudas map[uuid.UUID]*model.Deuda
	// vencidas overrides CountPendientesVencidas when >= 0
	vencidas int64
}

func newFakeDeudaRepo() *fakeDeudaRepo {
	return &fakeDeudaRepo{deudas: make(map[uuid.UUID]*model.Deuda), vencidas: -1}
}

func (r *fakeDeudaRepo) pendiente(colegiadoID uuid.UUID, concepto, periodo string, saldo decimal.Decimal) *model.Deuda {
	d := &model.Deuda{
		ID:            uuid.New(),
		ColegiadoID:   colegiadoID,
		Concepto:      concepto,
		Periodo:       periodo,
		Vencimiento:   time.Now().AddDate(0, -1, 0),
		MontoOriginal: saldo,
		Saldo:         saldo,
		Estado:        "pendiente",
	}
	r.deudas[d.ID] = d
	return d
}

func (r *fakeDeudaRepo) ListPendientesByColegiado(_ context.Context, colegiadoID uuid.UUID) ([]model.Deuda, error) {
	var out []model.Deuda
	for _, d := range r.deudas {
		if d.ColegiadoID == colegiadoID && d.Estado == "pendiente" {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDeudaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Deuda, error) {
	d, ok := r.deudas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (r *fakeDeudaRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Deuda, error) {
	var out []model.Deuda
	for _, id := range ids {
		if d, ok := r.deudas[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDeudaRepo) MarcarPagadaTx(_ *gorm.DB, id uuid.UUID) error {
	d, ok := r.deudas[id]
	if !ok {
		return errors.New("not found")
	}
	d.Estado = "pagada"
	d.Saldo = decimal.Zero
	return nil
}

func (r *fakeDeudaRepo) ReabrirTx(_ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	d, ok := r.deudas[id]
	if !ok {
		return errors.New("not found")
	}
	d.Estado = "pendiente"
	d.Saldo = saldo
	return nil
}

func (r *fakeDeudaRepo) CountPendientesVencidas(_ context.Context, colegiadoID uuid.UUID) (int64, error) {
	if r.vencidas >= 0 {
		return r.vencidas, nil
	}
	var n int64
	for _, d := range r.deudas {
		if d.ColegiadoID == colegiadoID && d.Estado == "pendiente" && d.Vencimiento.Before(time.Now()) {
			n++
		}
	}
	return n, nil
}

func (r *fakeDeudaRepo) Create(_ context.Context, d *model.Deuda) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.deudas[d.ID] = d
	return nil
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

type fakeCatalogoRepo struct {
	items map[uuid.UUID]*model.ItemCatalogo
}

func newFakeCatalogoRepo() *fakeCatalogoRepo {
	return &fakeCatalogoRepo{items: make(map[uuid.UUID]*model.ItemCatalogo)}
}

func (r *fakeCatalogoRepo) List(_ context.Context, incluirInactivos bool) ([]model.ItemCatalogo, error) {
	var out []model.ItemCatalogo
	for _, it := range r.items {
		if it.Activo || incluirInactivos {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *fakeCatalogoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ItemCatalogo, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return it, nil
}

func (r *fakeCatalogoRepo) Create(_ context.Context, item *model.ItemCatalogo) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeCatalogoRepo) Update(_ context.Context, item *model.ItemCatalogo) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeCatalogoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	it, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	if it.ManejaStock {
		if it.Stock < cantidad {
			return errors.New("stock insuficiente")
		}
		it.Stock -= cantidad
	}
	return nil
}

func (r *fakeCatalogoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	it, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	if it.ManejaStock {
		it.Stock += cantidad
	}
	return nil
}

// ── Pagos ────────────────────────────────────────────────────────────────────

type fakePagoRepo struct {
	pagos          map[uuid.UUID]*model.Pago
	notas          []model.NotaCredito
	verificaciones map[uuid.UUID]*model.VerificacionPago
	nextRecibo     int64
}

func newFakePagoRepo() *fakePagoRepo {
	return &fakePagoRepo{
		pagos:          make(map[uuid.UUID]*model.Pago),
		verificaciones: make(map[uuid.UUID]*model.VerificacionPago),
	}
}

func (r *fakePagoRepo) DB() *gorm.DB { return nil }

func (r *fakePagoRepo) NextReciboNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.nextRecibo++
	return r.nextRecibo, nil
}

func (r *fakePagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.pagos[p.ID] = p
	return nil
}

func (r *fakePagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakePagoRepo) List(_ context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if filter.Estado != "" && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePagoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	return r.UpdateEstadoTx(nil, id, estado)
}

func (r *fakePagoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	p, ok := r.pagos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *fakePagoRepo) CreateNotaCreditoTx(_ *gorm.DB, n *model.NotaCredito) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notas = append(r.notas, *n)
	return nil
}

func (r *fakePagoRepo) CreateVerificacion(_ context.Context, v *model.VerificacionPago) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.verificaciones[v.ID] = v
	return nil
}

func (r *fakePagoRepo) FindVerificacionByID(_ context.Context, id uuid.UUID) (*model.VerificacionPago, error) {
	v, ok := r.verificaciones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (r *fakePagoRepo) FindVerificacionByPagoID(_ context.Context, pagoID uuid.UUID) (*model.VerificacionPago, error) {
	for _, v := range r.verificaciones {
		if v.PagoID == pagoID {
			return v, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakePagoRepo) UpdateVerificacion(_ context.Context, v *model.VerificacionPago) error {
	r.verificaciones[v.ID] = v
	return nil
}

func (r *fakePagoRepo) ListPagosEnRevision(_ context.Context, limit int) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.Estado == "pendiente_revision" && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ── Colegiados ───────────────────────────────────────────────────────────────

type fakeColegiadoRepo struct {
	colegiados map[uuid.UUID]*model.Colegiado
}

func newFakeColegiadoRepo() *fakeColegiadoRepo {
	return &fakeColegiadoRepo{colegiados: make(map[uuid.UUID]*model.Colegiado)}
}

func (r *fakeColegiadoRepo) agregar(matricula, dni, nombres, apellidos string, habil bool) *model.Colegiado {
	c := &model.Colegiado{
		ID:              uuid.New(),
		CodigoMatricula: matricula,
		DNI:             dni,
		Nombres:         nombres,
		Apellidos:       apellidos,
		Habil:           habil,
		Activo:          true,
	}
	r.colegiados[c.ID] = c
	return c
}

func (r *fakeColegiadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Colegiado, error) {
	c, ok := r.colegiados[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeColegiadoRepo) FindByDNI(_ context.Context, dni string) (*model.Colegiado, error) {
	for _, c := range r.colegiados {
		if c.DNI == dni {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeColegiadoRepo) FindByMatricula(_ context.Context, codigo string) (*model.Colegiado, error) {
	for _, c := range r.colegiados {
		if c.CodigoMatricula == codigo {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeColegiadoRepo) SetHabil(_ context.Context, id uuid.UUID, hasta time.Time) error {
	c, ok := r.colegiados[id]
	if !ok {
		return errors.New("not found")
	}
	c.Habil = true
	h := hasta
	c.HabilHasta = &h
	return nil
}

func (r *fakeColegiadoRepo) Create(_ context.Context, c *model.Colegiado) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.colegiados[c.ID] = c
	return nil
}

// ── Constancias ──────────────────────────────────────────────────────────────

type fakeConstanciaRepo struct {
	constancias map[uuid.UUID]*model.Constancia
	numero      int64
}

func newFakeConstanciaRepo() *fakeConstanciaRepo {
	return &fakeConstanciaRepo{constancias: make(map[uuid.UUID]*model.Constancia)}
}

func (r *fakeConstanciaRepo) NextNumero(_ context.Context) (int64, error) {
	r.numero++
	return r.numero, nil
}

func (r *fakeConstanciaRepo) Create(_ context.Context, c *model.Constancia) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.constancias[c.ID] = c
	return nil
}

func (r *fakeConstanciaRepo) Update(_ context.Context, c *model.Constancia) error {
	r.constancias[c.ID] = c
	return nil
}

func (r *fakeConstanciaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Constancia, error) {
	c, ok := r.constancias[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeConstanciaRepo) ListByColegiado(_ context.Context, colegiadoID uuid.UUID) ([]model.Constancia, error) {
	var out []model.Constancia
	for _, c := range r.constancias {
		if c.ColegiadoID == colegiadoID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ── Async collaborators ──────────────────────────────────────────────────────

type fakeEnqueuer struct {
	colas    []string
	payloads []any
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, queue string, payload any) error {
	e.colas = append(e.colas, queue)
	e.payloads = append(e.payloads, payload)
	return nil
}

type fakeLauncher struct {
	lanzadas []string
}

func (l *fakeLauncher) Lanzar(verificacionID string) {
	l.lanzadas = append(l.lanzadas, verificacionID)
}
