package worker

// Renders the Constancia de Habilidad PDF for a queued issuance and, when the
// member has an email on file, queues the notification with the certificate
// attached.

import (
	"context"
	"encoding/json"
	"fmt"

	"portalcaja/internal/infra"
	"portalcaja/internal/repository"
	"portalcaja/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ConstanciaWorker struct {
	constanciaRepo repository.ConstanciaRepository
	colegiadoRepo  repository.ColegiadoRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewConstanciaWorker(
	constanciaRepo repository.ConstanciaRepository,
	colegiadoRepo repository.ColegiadoRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *ConstanciaWorker {
	return &ConstanciaWorker{
		constanciaRepo: constanciaRepo,
		colegiadoRepo:  colegiadoRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *ConstanciaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload service.ConstanciaJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("constancia_worker: payload inválido")
		return
	}
	id, err := uuid.Parse(payload.ConstanciaID)
	if err != nil {
		log.Error().Str("constancia_id", payload.ConstanciaID).Msg("constancia_worker: id inválido")
		return
	}

	constancia, err := w.constanciaRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("constancia_id", payload.ConstanciaID).Msg("constancia_worker: constancia no encontrada")
		return
	}
	if constancia.Estado == "emitida" {
		// Re-delivered job; the PDF already exists.
		return
	}
	colegiado, err := w.colegiadoRepo.FindByID(ctx, constancia.ColegiadoID)
	if err != nil {
		log.Error().Err(err).Str("constancia_id", payload.ConstanciaID).Msg("constancia_worker: colegiado no encontrado")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateConstanciaPDF(constancia, colegiado, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("constancia_id", payload.ConstanciaID).
				Msg("constancia_worker: generación de PDF falló, reintentando")
			return err
		}
		pdfPath = path
		return nil
	})

	if genErr != nil {
		constancia.Estado = "error"
		_ = w.constanciaRepo.Update(ctx, constancia)
		SendToDLQ(ctx, w.rdb, service.QueueConstancia, raw,
			fmt.Sprintf("PDF tras 3 intentos: %v", genErr), 3)
		return
	}

	constancia.Estado = "emitida"
	constancia.PDFPath = &pdfPath
	if err := w.constanciaRepo.Update(ctx, constancia); err != nil {
		log.Error().Err(err).Str("constancia_id", payload.ConstanciaID).Msg("constancia_worker: no se pudo guardar")
		return
	}
	log.Info().Str("pdf", pdfPath).Int64("numero", constancia.Numero).Msg("constancia emitida")

	if colegiado.Email != nil && *colegiado.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *colegiado.Email,
			Subject: fmt.Sprintf("Constancia de Habilidad N° %06d", constancia.Numero),
			Body: fmt.Sprintf(
				"Estimado(a) %s %s:\n\nAdjuntamos su Constancia de Habilidad, vigente hasta el %s.",
				colegiado.Nombres, colegiado.Apellidos, constancia.VigenteHasta.Format("02/01/2006")),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.Enqueue(ctx, service.QueueEmail, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *colegiado.Email).Msg("constancia_worker: no se pudo encolar el email")
		}
	}
}
