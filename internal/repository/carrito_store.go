package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"portalcaja/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Carrito is the working document of a register session: the items the
// cashier has selected but not yet charged. It lives only while the session
// is open — checkout and cierre both clear it. Totals are never stored; they
// are recomputed from the items on every read.
type Carrito struct {
	SesionCajaID uuid.UUID         `json:"sesion_caja_id"`
	ColegiadoID  *uuid.UUID        `json:"colegiado_id,omitempty"`
	Items        []dto.ItemCarrito `json:"items"`
}

// ErrCarritoNoEncontrado is returned when no cart exists for the session.
var ErrCarritoNoEncontrado = errors.New("carrito no encontrado")

// CarritoStore abstracts where the working cart lives. Production uses Redis
// so a register survives a backend restart mid-sale; tests use the in-memory
// implementation.
type CarritoStore interface {
	Get(ctx context.Context, sesionID uuid.UUID) (*Carrito, error)
	Save(ctx context.Context, c *Carrito) error
	Delete(ctx context.Context, sesionID uuid.UUID) error
}

// ── Redis implementation ─────────────────────────────────────────────────────

const carritoTTL = 12 * time.Hour

type redisCarritoStore struct{ rdb *redis.Client }

func NewRedisCarritoStore(rdb *redis.Client) CarritoStore {
	return &redisCarritoStore{rdb: rdb}
}

func carritoKey(sesionID uuid.UUID) string { return "carrito:" + sesionID.String() }

func (s *redisCarritoStore) Get(ctx context.Context, sesionID uuid.UUID) (*Carrito, error) {
	raw, err := s.rdb.Get(ctx, carritoKey(sesionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrCarritoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	var c Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *redisCarritoStore) Save(ctx context.Context, c *Carrito) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, carritoKey(c.SesionCajaID), data, carritoTTL).Err()
}

func (s *redisCarritoStore) Delete(ctx context.Context, sesionID uuid.UUID) error {
	return s.rdb.Del(ctx, carritoKey(sesionID)).Err()
}

// ── In-memory implementation (tests) ─────────────────────────────────────────

type memCarritoStore struct {
	carritos map[uuid.UUID]*Carrito
}

func NewMemCarritoStore() CarritoStore {
	return &memCarritoStore{carritos: make(map[uuid.UUID]*Carrito)}
}

func (s *memCarritoStore) Get(_ context.Context, sesionID uuid.UUID) (*Carrito, error) {
	c, ok := s.carritos[sesionID]
	if !ok {
		return nil, ErrCarritoNoEncontrado
	}
	// Copy so callers cannot mutate the stored document in place.
	cp := *c
	cp.Items = append([]dto.ItemCarrito(nil), c.Items...)
	return &cp, nil
}

func (s *memCarritoStore) Save(_ context.Context, c *Carrito) error {
	cp := *c
	cp.Items = append([]dto.ItemCarrito(nil), c.Items...)
	s.carritos[c.SesionCajaID] = &cp
	return nil
}

func (s *memCarritoStore) Delete(_ context.Context, sesionID uuid.UUID) error {
	delete(s.carritos, sesionID)
	return nil
}
