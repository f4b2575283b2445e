package verificacion

import (
	"context"
	"sync"
	"testing"
	"time"

	"portalcaja/internal/infra"
	"portalcaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConsultor scripts the sidecar: confirms on attempt confirmarEn, or
// never when confirmarEn is 0.
type fakeConsultor struct {
	mu          sync.Mutex
	llamadas    int
	confirmarEn int
}

func (f *fakeConsultor) Consultar(_ context.Context, _ infra.ConsultaPago) (*infra.ConfirmacionBanco, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.llamadas++
	if f.confirmarEn > 0 && f.llamadas >= f.confirmarEn {
		return &infra.ConfirmacionBanco{
			Confirmado:      true,
			CodigoOperacion: "OP-12345",
			Banco:           "BCP",
			AutoAprobado:    true,
		}, nil
	}
	return &infra.ConfirmacionBanco{Confirmado: false}, nil
}

func (f *fakeConsultor) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.llamadas
}

func nuevaVerificacion(intervaloMs, maxIntentos int) *model.VerificacionPago {
	return &model.VerificacionPago{
		ID:          uuid.New(),
		PagoID:      uuid.New(),
		Monto:       decimal.NewFromFloat(150.50),
		Metodo:      "yape",
		MaxIntentos: maxIntentos,
		IntervaloMs: intervaloMs,
		Estado:      "pendiente",
	}
}

func esperarFin(t *testing.T, p *Poller) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("el poller no terminó a tiempo")
	}
}

func TestPollerExpiraTrasAgotarIntentos(t *testing.T) {
	consultor := &fakeConsultor{} // nunca confirma
	var expiradas int
	p := NewPoller(nuevaVerificacion(5, 3), consultor, Callbacks{
		OnExpirada: func() { expiradas++ },
	})

	p.Start(context.Background())
	esperarFin(t, p)

	assert.Equal(t, 3, consultor.total(), "debe consultar exactamente max_intentos veces")
	assert.Equal(t, EstadoExpirada, p.Estado())
	assert.Equal(t, 1, expiradas)

	// Terminado: no hay más consultas después de expirar.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 3, consultor.total())
}

func TestPollerConfirmaEnPrimerIntento(t *testing.T) {
	consultor := &fakeConsultor{confirmarEn: 1}
	var conf *infra.ConfirmacionBanco
	p := NewPoller(nuevaVerificacion(1000, 12), consultor, Callbacks{
		OnVerificada: func(c *infra.ConfirmacionBanco) { conf = c },
	})

	inicio := time.Now()
	p.Start(context.Background())
	esperarFin(t, p)

	// El primer chequeo es inmediato, sin esperar el intervalo.
	assert.Less(t, time.Since(inicio), 500*time.Millisecond)
	assert.Equal(t, 1, consultor.total())
	assert.Equal(t, EstadoVerificada, p.Estado())
	require.NotNil(t, conf)
	assert.Equal(t, "OP-12345", conf.CodigoOperacion)
	assert.Equal(t, "BCP", conf.Banco)
	assert.True(t, conf.AutoAprobado)
}

func TestPollerConfirmaEnIntentoIntermedio(t *testing.T) {
	consultor := &fakeConsultor{confirmarEn: 2}
	var verificadas, expiradas int
	p := NewPoller(nuevaVerificacion(5, 5), consultor, Callbacks{
		OnVerificada: func(*infra.ConfirmacionBanco) { verificadas++ },
		OnExpirada:   func() { expiradas++ },
	})

	p.Start(context.Background())
	esperarFin(t, p)

	assert.Equal(t, 2, consultor.total())
	assert.Equal(t, 1, verificadas)
	assert.Zero(t, expiradas)
}

func TestPollerStopDetieneSinCallbacks(t *testing.T) {
	consultor := &fakeConsultor{}
	var verificadas, expiradas int
	p := NewPoller(nuevaVerificacion(10_000, 12), consultor, Callbacks{
		OnVerificada: func(*infra.ConfirmacionBanco) { verificadas++ },
		OnExpirada:   func() { expiradas++ },
	})

	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond) // deja pasar el chequeo inmediato
	p.Stop()

	assert.Equal(t, EstadoInactivo, p.Estado())
	assert.Zero(t, verificadas)
	assert.Zero(t, expiradas)

	llamadas := consultor.total()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, llamadas, consultor.total(), "no debe consultar después de Stop")
}

func TestPollerStopEsIdempotente(t *testing.T) {
	p := NewPoller(nuevaVerificacion(10_000, 12), &fakeConsultor{}, Callbacks{})

	p.Start(context.Background())
	p.Stop()
	p.Stop() // segunda llamada: no-op

	// Stop sobre un poller nunca arrancado tampoco hace nada.
	otro := NewPoller(nuevaVerificacion(10_000, 12), &fakeConsultor{}, Callbacks{})
	otro.Stop()
}

func TestPollerCancelacionPorContexto(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	consultor := &fakeConsultor{}
	p := NewPoller(nuevaVerificacion(10_000, 12), consultor, Callbacks{})

	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	esperarFin(t, p)

	assert.Equal(t, EstadoInactivo, p.Estado())
}
