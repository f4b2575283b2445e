package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error
	Reporte(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error)
	GetActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaResponse, int64, error)
	// FindSesionAbierta is called by CarritoService and PagoService to
	// validate an open session before touching the cart or checking out.
	FindSesionAbierta(ctx context.Context, sesionID uuid.UUID) error
}

type cajaService struct {
	repo     repository.CajaRepository
	carritos repository.CarritoStore
	// umbral: closing with |declarado - esperado| above this requires a
	// non-empty observaciones note from the operator.
	umbral decimal.Decimal
}

func NewCajaService(repo repository.CajaRepository, carritos repository.CarritoStore, umbralDescuadre float64) CajaService {
	return &cajaService{
		repo:     repo,
		carritos: carritos,
		umbral:   decimal.NewFromFloat(umbralDescuadre),
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	// Guard: one open session per cashier
	if existing, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID); err == nil && existing != nil {
		return nil, errors.New("Ya tiene una caja abierta")
	}

	sesion := &model.SesionCaja{
		UsuarioID:     usuarioID,
		MontoApertura: req.MontoApertura,
		Estado:        "abierta",
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, sesion)
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Validation happens before any write: a rejected close leaves the session
// open and untouched. Descuadre above the umbral without observaciones is
// rejected here, never at the DB.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != "abierta" {
		return nil, errors.New("la sesión ya está cerrada")
	}

	sums, err := s.repo.SumMovimientos(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	esperado := sesion.MontoApertura.Add(sums.Efectivo).Sub(sums.Egresos)
	descuadre := req.MontoDeclarado.Sub(esperado)

	if descuadre.Abs().GreaterThan(s.umbral) && strings.TrimSpace(req.Observaciones) == "" {
		return nil, fmt.Errorf(
			"el descuadre de S/ %s supera el umbral de S/ %s: se requiere una observación",
			descuadre.Abs().StringFixed(2), s.umbral.StringFixed(2),
		)
	}

	resultado := "exacto"
	switch {
	case descuadre.IsPositive():
		resultado = "sobrante"
	case descuadre.IsNegative():
		resultado = "faltante"
	}

	declarado := req.MontoDeclarado
	sesion.MontoEsperado = &esperado
	sesion.MontoDeclarado = &declarado
	sesion.Descuadre = &descuadre
	sesion.Estado = "cerrada"
	sesion.ResultadoCierre = &resultado
	now := time.Now()
	sesion.ClosedAt = &now
	if obs := strings.TrimSpace(req.Observaciones); obs != "" {
		sesion.Observaciones = &obs
	}

	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	// Working cart dies with the session; best-effort cleanup.
	_ = s.carritos.Delete(ctx, sesionID)

	return &dto.CierreCajaResponse{
		SesionCajaID:   sesionID.String(),
		MontoEsperado:  esperado,
		MontoDeclarado: declarado,
		Descuadre:      descuadre,
		Resultado:      resultado,
		Estado:         "cerrada",
	}, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Ingreso / egreso manual. Movements are immutable — no update, no delete.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if err := s.FindSesionAbierta(ctx, sesionID); err != nil {
		return err
	}

	monto := req.Monto
	if req.Tipo == "egreso_manual" {
		monto = req.Monto.Neg()
	}
	metodo := "efectivo"
	mov := &model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         req.Tipo,
		MetodoPago:   &metodo,
		Monto:        monto,
		Descripcion:  req.Descripcion,
	}
	return s.repo.CreateMovimiento(ctx, mov)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) Reporte(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	return s.buildResponse(ctx, sesion)
}

func (s *cajaService) GetActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID)
	if err != nil || sesion == nil {
		return nil, nil
	}
	return s.buildResponse(ctx, sesion)
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaResponse, int64, error) {
	sesiones, total, err := s.repo.ListSesiones(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		resp, err := s.buildResponse(ctx, &sesiones[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

func (s *cajaService) FindSesionAbierta(ctx context.Context, sesionID uuid.UUID) error {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != "abierta" {
		return errors.New("No hay sesión de caja abierta")
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *cajaService) buildResponse(ctx context.Context, sesion *model.SesionCaja) (*dto.SesionCajaResponse, error) {
	sums, err := s.repo.SumMovimientos(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	totales := dto.TotalesSesion{
		Esperado:       sesion.MontoApertura.Add(sums.Efectivo).Sub(sums.Egresos),
		Efectivo:       sums.Efectivo,
		Digital:        sums.Digital,
		Egresos:        sums.Egresos,
		NumOperaciones: sums.Operaciones,
	}

	resp := &dto.SesionCajaResponse{
		SesionCajaID:  sesion.ID.String(),
		Usuario:       sesion.UsuarioID.String(),
		MontoApertura: sesion.MontoApertura,
		Totales:       totales,
		Estado:        sesion.Estado,
		Observaciones: sesion.Observaciones,
		OpenedAt:      sesion.OpenedAt.Format("2006-01-02T15:04:05Z"),
	}
	resp.MontoDeclarado = sesion.MontoDeclarado
	resp.Descuadre = sesion.Descuadre
	resp.Resultado = sesion.ResultadoCierre
	if sesion.ClosedAt != nil {
		t := sesion.ClosedAt.Format("2006-01-02T15:04:05Z")
		resp.ClosedAt = &t
	}
	return resp, nil
}
