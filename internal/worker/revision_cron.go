package worker

// Background goroutine that re-checks digital payments whose automatic
// verification window expired (estado='pendiente_revision'). A late bank
// confirmation still settles the payment without cashier intervention; every
// sidecar call goes through the circuit breaker so a downed matcher is
// probed, not hammered.

import (
	"context"
	"time"

	"portalcaja/internal/infra"
	"portalcaja/internal/repository"
	"portalcaja/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	revisionTickInterval = 5 * time.Minute
	revisionBatchSize    = 10
)

// RevisionCronConfig holds the dependencies of the re-check goroutine.
type RevisionCronConfig struct {
	PagoRepo    repository.PagoRepository
	BancoClient *infra.BancoClient
	CB          *infra.CircuitBreaker
	Pagos       service.PagoService
}

// StartRevisionCron launches the re-check goroutine. It respects the context
// for graceful shutdown.
func StartRevisionCron(ctx context.Context, cfg RevisionCronConfig) {
	go func() {
		ticker := time.NewTicker(revisionTickInterval)
		defer ticker.Stop()

		log.Info().Msg("revision_cron: iniciado")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("revision_cron: detenido")
				return
			case <-ticker.C:
				processRevisiones(ctx, cfg)
			}
		}
	}()
}

func processRevisiones(ctx context.Context, cfg RevisionCronConfig) {
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("revision_cron: circuit breaker abierto, se omite el tick")
		return
	}

	pagos, err := cfg.PagoRepo.ListPagosEnRevision(ctx, revisionBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("revision_cron: no se pudieron listar los pagos en revisión")
		return
	}
	if len(pagos) == 0 {
		return
	}

	log.Info().Int("count", len(pagos)).Msg("revision_cron: re-consultando pagos en revisión")

	for i := range pagos {
		pago := &pagos[i]

		// The CB may have tripped mid-batch.
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("revision_cron: circuit breaker se abrió a mitad de lote")
			return
		}

		monto, _ := pago.Total.Float64()
		var conf *infra.ConfirmacionBanco
		cbErr := cfg.CB.Execute(func() error {
			resp, err := cfg.BancoClient.Consultar(ctx, infra.ConsultaPago{
				PagoID: pago.ID.String(),
				Monto:  monto,
				Metodo: pago.Metodo,
			})
			if err != nil {
				return err
			}
			conf = resp
			return nil
		})
		if cbErr != nil {
			log.Warn().Err(cbErr).Str("pago_id", pago.ID.String()).Msg("revision_cron: consulta falló")
			continue
		}
		if !conf.Confirmado {
			continue
		}

		// Late confirmation: settle the payment like the poller would have.
		if v, err := cfg.PagoRepo.FindVerificacionByPagoID(ctx, pago.ID); err == nil {
			v.Estado = "verificada"
			v.CodigoOperacion = &conf.CodigoOperacion
			v.Banco = &conf.Banco
			v.AutoAprobado = conf.AutoAprobado
			_ = cfg.PagoRepo.UpdateVerificacion(ctx, v)
		}
		if err := cfg.PagoRepo.UpdateEstado(ctx, pago.ID, "confirmado"); err != nil {
			log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("revision_cron: no se pudo confirmar el pago")
			continue
		}
		log.Info().
			Str("pago_id", pago.ID.String()).
			Str("codigo_operacion", conf.CodigoOperacion).
			Msg("revision_cron: confirmación tardía aplicada")

		if _, _, err := cfg.Pagos.ProcesarConfirmado(ctx, pago.ID); err != nil {
			log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("revision_cron: post-proceso falló")
		}
	}
}
