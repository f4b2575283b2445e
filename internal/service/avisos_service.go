package service

import (
	"context"
	"encoding/json"
	"errors"

	"portalcaja/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Default alert configuration handed out before the member saves anything.
func defaultConfigAvisos() *dto.ConfigAvisos {
	return &dto.ConfigAvisos{
		DiasAntes:    []int{3, 1},
		Horas:        []int{9},
		Obligaciones: dto.ObligacionesAviso{PDT621: true, PLAME: true},
		RUCs:         []dto.RUCAviso{},
	}
}

type AvisosService interface {
	Get(ctx context.Context, colegiadoID uuid.UUID) (*dto.ConfigAvisos, error)
	// Save persists the configuration verbatim, deriving each RUC's last
	// digit when the caller omitted it.
	Save(ctx context.Context, colegiadoID uuid.UUID, cfg *dto.ConfigAvisos) (*dto.ConfigAvisos, error)
	Delete(ctx context.Context, colegiadoID uuid.UUID) error
}

type avisosService struct {
	rdb *redis.Client
}

func NewAvisosService(rdb *redis.Client) AvisosService {
	return &avisosService{rdb: rdb}
}

func avisosKey(colegiadoID uuid.UUID) string { return "avisos:" + colegiadoID.String() }

func (s *avisosService) Get(ctx context.Context, colegiadoID uuid.UUID) (*dto.ConfigAvisos, error) {
	raw, err := s.rdb.Get(ctx, avisosKey(colegiadoID)).Bytes()
	if err == redis.Nil {
		return defaultConfigAvisos(), nil
	}
	if err != nil {
		return nil, err
	}
	var cfg dto.ConfigAvisos
	if err := json.Unmarshal(raw, &cfg); err != nil {
		// A corrupt blob should not brick the widget: fall back to defaults.
		return defaultConfigAvisos(), nil
	}
	return &cfg, nil
}

func (s *avisosService) Save(ctx context.Context, colegiadoID uuid.UUID, cfg *dto.ConfigAvisos) (*dto.ConfigAvisos, error) {
	if cfg == nil {
		return nil, errors.New("configuración vacía")
	}
	for i := range cfg.RUCs {
		ruc := cfg.RUCs[i].RUC
		if len(ruc) != 11 {
			return nil, errors.New("RUC inválido: se requieren 11 dígitos")
		}
		cfg.RUCs[i].UltimoDigito = int(ruc[10] - '0')
	}
	if cfg.RUCs == nil {
		cfg.RUCs = []dto.RUCAviso{}
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	// No TTL: the configuration lives until the member deletes it.
	if err := s.rdb.Set(ctx, avisosKey(colegiadoID), data, 0).Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *avisosService) Delete(ctx context.Context, colegiadoID uuid.UUID) error {
	return s.rdb.Del(ctx, avisosKey(colegiadoID)).Err()
}
