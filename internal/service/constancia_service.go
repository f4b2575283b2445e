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
)

// ConstanciaJob is the payload pushed to QueueConstancia. The worker loads
// the record, renders the PDF and queues the notification email.
type ConstanciaJob struct {
	ConstanciaID string `json:"constancia_id"`
}

type ConstanciaService interface {
	// EmitirAutomatica is triggered by a confirmed dues payment that restored
	// the member's standing. The record is created immediately; the PDF is
	// rendered by a background worker.
	EmitirAutomatica(ctx context.Context, colegiadoID, pagoID uuid.UUID, vigenteHasta time.Time) (*dto.ConstanciaResponse, error)
	// SolicitarManual issues a constancia on demand at the caja. The member
	// must be hábil.
	SolicitarManual(ctx context.Context, req dto.EmitirConstanciaRequest) (*dto.ConstanciaResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.ConstanciaResponse, error)
	ListByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]dto.ConstanciaResponse, error)
	// PDFPath returns the filesystem path of the rendered certificate, or an
	// error while generation is still pending.
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type constanciaService struct {
	repo          repository.ConstanciaRepository
	colegiadoRepo repository.ColegiadoRepository
	jobs          JobEnqueuer
}

func NewConstanciaService(repo repository.ConstanciaRepository, colegiadoRepo repository.ColegiadoRepository, jobs JobEnqueuer) ConstanciaService {
	return &constanciaService{repo: repo, colegiadoRepo: colegiadoRepo, jobs: jobs}
}

func (s *constanciaService) EmitirAutomatica(ctx context.Context, colegiadoID, pagoID uuid.UUID, vigenteHasta time.Time) (*dto.ConstanciaResponse, error) {
	return s.emitir(ctx, colegiadoID, &pagoID, vigenteHasta, true)
}

func (s *constanciaService) SolicitarManual(ctx context.Context, req dto.EmitirConstanciaRequest) (*dto.ConstanciaResponse, error) {
	colegiadoID, err := uuid.Parse(req.ColegiadoID)
	if err != nil {
		return nil, fmt.Errorf("colegiado_id inválido: %w", err)
	}
	colegiado, err := s.colegiadoRepo.FindByID(ctx, colegiadoID)
	if err != nil {
		return nil, errors.New("colegiado no encontrado")
	}
	if !colegiado.Habil {
		return nil, errors.New("el colegiado no está hábil; no procede constancia")
	}
	hasta := time.Now().AddDate(0, 1, 0)
	if colegiado.HabilHasta != nil {
		hasta = *colegiado.HabilHasta
	}
	return s.emitir(ctx, colegiadoID, nil, hasta, false)
}

func (s *constanciaService) emitir(ctx context.Context, colegiadoID uuid.UUID, pagoID *uuid.UUID, vigenteHasta time.Time, auto bool) (*dto.ConstanciaResponse, error) {
	numero, err := s.repo.NextNumero(ctx)
	if err != nil {
		return nil, err
	}
	c := &model.Constancia{
		ColegiadoID:  colegiadoID,
		PagoID:       pagoID,
		Numero:       numero,
		VigenteHasta: vigenteHasta,
		Estado:       "pendiente",
		EmitidaAuto:  auto,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.jobs.Enqueue(ctx, QueueConstancia, ConstanciaJob{ConstanciaID: c.ID.String()}); err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, c), nil
}

func (s *constanciaService) Detalle(ctx context.Context, id uuid.UUID) (*dto.ConstanciaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("constancia no encontrada")
	}
	return s.buildResponse(ctx, c), nil
}

func (s *constanciaService) ListByColegiado(ctx context.Context, colegiadoID uuid.UUID) ([]dto.ConstanciaResponse, error) {
	cs, err := s.repo.ListByColegiado(ctx, colegiadoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConstanciaResponse, 0, len(cs))
	for i := range cs {
		out = append(out, *s.buildResponse(ctx, &cs[i]))
	}
	return out, nil
}

func (s *constanciaService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("constancia no encontrada")
	}
	if c.Estado != "emitida" || c.PDFPath == nil {
		return "", errors.New("el PDF de la constancia aún no está disponible")
	}
	return *c.PDFPath, nil
}

func (s *constanciaService) buildResponse(ctx context.Context, c *model.Constancia) *dto.ConstanciaResponse {
	nombre := c.ColegiadoID.String()
	if col, err := s.colegiadoRepo.FindByID(ctx, c.ColegiadoID); err == nil {
		nombre = fmt.Sprintf("%s %s", col.Nombres, col.Apellidos)
	}
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &dto.ConstanciaResponse{
		ID:           c.ID.String(),
		Numero:       c.Numero,
		Colegiado:    nombre,
		VigenteHasta: c.VigenteHasta.Format("2006-01-02"),
		Estado:       c.Estado,
		EmitidaAuto:  c.EmitidaAuto,
		CreatedAt:    created.Format(time.RFC3339),
	}
}
