package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PagoService interface {
	Historial(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error)
	Anular(ctx context.Context, pagoID, usuarioID uuid.UUID, req dto.AnularPagoRequest) error
	// ProcesarConfirmado runs the post-confirmation effects of a payment:
	// if the member's dues are now current it restores habilidad and issues
	// the constancia automatically. Called for cash payments at checkout and
	// for digital payments once the bank confirms.
	ProcesarConfirmado(ctx context.Context, pagoID uuid.UUID) (habilidadActualizada, constanciaEmitida bool, err error)
}

type pagoService struct {
	pagoRepo      repository.PagoRepository
	deudaRepo     repository.DeudaRepository
	cajaRepo      repository.CajaRepository
	catalogoRepo  repository.CatalogoRepository
	colegiadoRepo repository.ColegiadoRepository
	constancias   ConstanciaService
}

func NewPagoService(
	pagoRepo repository.PagoRepository,
	deudaRepo repository.DeudaRepository,
	cajaRepo repository.CajaRepository,
	catalogoRepo repository.CatalogoRepository,
	colegiadoRepo repository.ColegiadoRepository,
	constancias ConstanciaService,
) PagoService {
	return &pagoService{
		pagoRepo:      pagoRepo,
		deudaRepo:     deudaRepo,
		cajaRepo:      cajaRepo,
		catalogoRepo:  catalogoRepo,
		colegiadoRepo: colegiadoRepo,
		constancias:   constancias,
	}
}

func (s *pagoService) Historial(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	pagos, total, err := s.pagoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		data = append(data, *buildPagoResponse(&pagos[i]))
	}
	return &dto.PagoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *pagoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error) {
	pago, err := s.pagoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pago no encontrado")
	}
	resp := buildPagoResponse(pago)
	if v, err := s.pagoRepo.FindVerificacionByPagoID(ctx, pago.ID); err == nil && v != nil {
		vid := v.ID.String()
		resp.VerificacionID = &vid
	}
	return resp, nil
}

// Anular voids a payment: the Pago is never deleted, a NotaCredito is
// created, settled debts reopen, stock returns and an inverse movement lands
// in the voiding user's open session.
func (s *pagoService) Anular(ctx context.Context, pagoID, usuarioID uuid.UUID, req dto.AnularPagoRequest) error {
	pago, err := s.pagoRepo.FindByID(ctx, pagoID)
	if err != nil {
		return errors.New("pago no encontrado")
	}
	if pago.Estado == "anulado" {
		return errors.New("el pago ya está anulado")
	}
	if pago.Estado == "pendiente_verificacion" {
		return errors.New("el pago tiene una verificación en curso; espere a que termine")
	}

	sesion, err := s.cajaRepo.FindSesionAbiertaPorUsuario(ctx, usuarioID)
	if err != nil || sesion == nil {
		return errors.New("No hay sesión de caja abierta")
	}

	return runTx(s.pagoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.pagoRepo.UpdateEstadoTx(tx, pago.ID, "anulado"); err != nil {
			return err
		}
		if err := s.pagoRepo.CreateNotaCreditoTx(tx, &model.NotaCredito{
			PagoID:    pago.ID,
			Motivo:    req.Motivo,
			Monto:     pago.Total,
			UsuarioID: usuarioID,
		}); err != nil {
			return err
		}

		for _, it := range pago.Items {
			switch {
			case it.Tipo == "deuda" && it.DeudaID != nil:
				if err := s.deudaRepo.ReabrirTx(tx, *it.DeudaID, it.Monto); err != nil {
					return err
				}
			case it.Tipo == "item_catalogo" && it.ItemID != nil:
				if err := s.catalogoRepo.RestaurarStockTx(tx, *it.ItemID, it.Cantidad); err != nil {
					return err
				}
			}
		}

		metodo := pago.Metodo
		return s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         "anulacion",
			MetodoPago:   &metodo,
			Monto:        pago.Total.Neg(),
			Descripcion:  fmt.Sprintf("Anulación recibo %06d: %s", pago.NumeroRecibo, req.Motivo),
			ReferenciaID: &pago.ID,
		})
	})
}

func (s *pagoService) ProcesarConfirmado(ctx context.Context, pagoID uuid.UUID) (bool, bool, error) {
	pago, err := s.pagoRepo.FindByID(ctx, pagoID)
	if err != nil {
		return false, false, err
	}
	if pago.ColegiadoID == nil {
		return false, false, nil
	}

	var deudaIDs []uuid.UUID
	for _, it := range pago.Items {
		if it.Tipo == "deuda" && it.DeudaID != nil {
			deudaIDs = append(deudaIDs, *it.DeudaID)
		}
	}
	if len(deudaIDs) == 0 {
		return false, false, nil
	}

	vencidas, err := s.deudaRepo.CountPendientesVencidas(ctx, *pago.ColegiadoID)
	if err != nil {
		return false, false, err
	}
	if vencidas > 0 {
		// Still owes past-due periods: standing does not change.
		return false, false, nil
	}

	hasta := s.vigenciaDesdeDeudas(ctx, deudaIDs)
	if err := s.colegiadoRepo.SetHabil(ctx, *pago.ColegiadoID, hasta); err != nil {
		return false, false, err
	}
	log.Info().
		Str("colegiado_id", pago.ColegiadoID.String()).
		Time("habil_hasta", hasta).
		Msg("habilidad restaurada por pago de cuotas")

	if _, err := s.constancias.EmitirAutomatica(ctx, *pago.ColegiadoID, pago.ID, hasta); err != nil {
		// The standing update already landed; constancia issuance is
		// recoverable by a manual request.
		log.Error().Err(err).Str("pago_id", pago.ID.String()).
			Msg("no se pudo emitir la constancia automática")
		return true, false, nil
	}
	return true, true, nil
}

// vigenciaDesdeDeudas derives the new HabilHasta from the latest cuota period
// settled in this payment. Falls back to end of current month when no period
// parses.
func (s *pagoService) vigenciaDesdeDeudas(ctx context.Context, ids []uuid.UUID) time.Time {
	deudas, err := s.deudaRepo.FindByIDs(ctx, ids)
	var latest time.Time
	if err == nil {
		for _, d := range deudas {
			if d.Concepto != "cuota_ordinaria" {
				continue
			}
			if t, perr := time.Parse("2006-01", d.Periodo); perr == nil && t.After(latest) {
				latest = t
			}
		}
	}
	if latest.IsZero() {
		now := time.Now()
		latest = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	// Last day of the period's month.
	return latest.AddDate(0, 1, 0).Add(-24 * time.Hour)
}
