package worker

// Sends queued notifications (constancias, recibos) via SMTP with the PDF
// attached. Retries stay in the mailer's court: SMTP failures re-enqueue is
// not attempted, the job goes to the DLQ only through the constancia path.

import (
	"context"
	"encoding/json"

	"portalcaja/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to the email queue.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: payload inválido")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: destinatario vacío, se omite")
		return
	}

	if err := w.mailer.SendConAdjunto(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: envío falló")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email enviado")
}
