package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeudaService interface {
	// PendientesPorColegiado returns the member's open debts grouped by year,
	// oldest first inside each group, with per-group subtotals.
	PendientesPorColegiado(ctx context.Context, colegiadoID uuid.UUID) (*dto.DeudasColegiadoResponse, error)
	// BuscarColegiado resolves a member by DNI or código de matrícula; the
	// caja search box and the asistente both land here.
	BuscarColegiado(ctx context.Context, query string) (*dto.DeudasColegiadoResponse, error)
}

type deudaService struct {
	deudaRepo     repository.DeudaRepository
	colegiadoRepo repository.ColegiadoRepository
}

func NewDeudaService(deudaRepo repository.DeudaRepository, colegiadoRepo repository.ColegiadoRepository) DeudaService {
	return &deudaService{deudaRepo: deudaRepo, colegiadoRepo: colegiadoRepo}
}

func (s *deudaService) PendientesPorColegiado(ctx context.Context, colegiadoID uuid.UUID) (*dto.DeudasColegiadoResponse, error) {
	colegiado, err := s.colegiadoRepo.FindByID(ctx, colegiadoID)
	if err != nil {
		return nil, errors.New("colegiado no encontrado")
	}
	return s.build(ctx, colegiado)
}

func (s *deudaService) BuscarColegiado(ctx context.Context, query string) (*dto.DeudasColegiadoResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.New("búsqueda vacía")
	}

	var colegiado *model.Colegiado
	var err error
	if strings.Contains(q, "-") {
		colegiado, err = s.colegiadoRepo.FindByMatricula(ctx, q)
	} else {
		colegiado, err = s.colegiadoRepo.FindByDNI(ctx, q)
	}
	if err != nil {
		return nil, errors.New("colegiado no encontrado")
	}
	return s.build(ctx, colegiado)
}

// build groups the pending debts by year in a single pass. The repository
// returns them ordered by vencimiento, so each year's bucket appears the
// first time a debt of that year shows up and stays in order.
func (s *deudaService) build(ctx context.Context, colegiado *model.Colegiado) (*dto.DeudasColegiadoResponse, error) {
	deudas, err := s.deudaRepo.ListPendientesByColegiado(ctx, colegiado.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeudasColegiadoResponse{
		ColegiadoID: colegiado.ID.String(),
		Colegiado:   fmt.Sprintf("%s %s", colegiado.Nombres, colegiado.Apellidos),
		Habil:       colegiado.Habil,
		Grupos:      []dto.GrupoDeudas{},
		Total:       decimal.Zero,
	}

	idx := map[string]int{}
	for _, d := range deudas {
		anio := "otros"
		if len(d.Periodo) >= 4 {
			anio = d.Periodo[:4]
		}
		i, ok := idx[anio]
		if !ok {
			resp.Grupos = append(resp.Grupos, dto.GrupoDeudas{Anio: anio, Subtotal: decimal.Zero})
			i = len(resp.Grupos) - 1
			idx[anio] = i
		}
		resp.Grupos[i].Deudas = append(resp.Grupos[i].Deudas, dto.DeudaResponse{
			ID:            d.ID.String(),
			Concepto:      d.Concepto,
			Periodo:       d.Periodo,
			Vencimiento:   d.Vencimiento.Format("2006-01-02"),
			MontoOriginal: d.MontoOriginal,
			Saldo:         d.Saldo,
			Estado:        d.Estado,
		})
		resp.Grupos[i].Subtotal = resp.Grupos[i].Subtotal.Add(d.Saldo)
		resp.Total = resp.Total.Add(d.Saldo)
	}
	return resp, nil
}
