// Package verificacion runs the automatic bank-confirmation flow for digital
// payments. Each pending payment gets its own Poller: an immediate check at
// launch, then one check per interval until the bank confirms, the attempt
// budget runs out, or the poller is stopped.
package verificacion

import (
	"context"
	"sync"
	"time"

	"portalcaja/internal/infra"
	"portalcaja/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Estado of a running poller. The persisted VerificacionPago carries its own
// estado (pendiente | verificada | expirada); this one tracks the in-process
// lifecycle.
type Estado int

const (
	EstadoInactivo Estado = iota
	EstadoConsultando
	EstadoVerificada
	EstadoExpirada
)

func (e Estado) String() string {
	switch e {
	case EstadoConsultando:
		return "consultando"
	case EstadoVerificada:
		return "verificada"
	case EstadoExpirada:
		return "expirada"
	default:
		return "inactivo"
	}
}

// Consultor is the one call the poller makes per attempt. *infra.BancoClient
// is the production implementation.
type Consultor interface {
	Consultar(ctx context.Context, consulta infra.ConsultaPago) (*infra.ConfirmacionBanco, error)
}

// Callbacks fire from the poller goroutine. All are optional.
type Callbacks struct {
	// OnIntento fires after every check that did not confirm, with the
	// attempt number just consumed.
	OnIntento func(intento int)
	// OnVerificada fires once when the bank confirms.
	OnVerificada func(conf *infra.ConfirmacionBanco)
	// OnExpirada fires once when the attempt budget runs out.
	OnExpirada func()
}

// Poller drives the verification of one payment. Safe for concurrent Stop.
type Poller struct {
	verificacionID uuid.UUID
	consulta       infra.ConsultaPago
	consultor      Consultor
	intervalo      time.Duration
	maxIntentos    int
	callbacks      Callbacks

	mu       sync.Mutex
	estado   Estado
	intentos int
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPoller(v *model.VerificacionPago, consultor Consultor, callbacks Callbacks) *Poller {
	monto, _ := v.Monto.Float64()
	return &Poller{
		verificacionID: v.ID,
		consulta: infra.ConsultaPago{
			PagoID: v.PagoID.String(),
			Monto:  monto,
			Metodo: v.Metodo,
		},
		consultor:   consultor,
		intervalo:   time.Duration(v.IntervaloMs) * time.Millisecond,
		maxIntentos: v.MaxIntentos,
		callbacks:   callbacks,
	}
}

func (p *Poller) Estado() Estado {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estado
}

func (p *Poller) Intentos() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intentos
}

// Start launches the polling goroutine. Starting an already running poller is
// a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.estado == EstadoConsultando {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.estado = EstadoConsultando
	p.intentos = 0
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop cancels the polling loop and waits for the goroutine to exit.
// Idempotent: stopping twice, or stopping a finished poller, does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

// Done closes once the poller reaches a terminal state.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.intervalo)
	defer ticker.Stop()

	// First check is immediate: most Yape/Plin transfers land within seconds.
	if p.check(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			p.setEstado(EstadoInactivo)
			return
		case <-ticker.C:
			if p.check(ctx) {
				return
			}
		}
	}
}

// check consumes one attempt. Returns true when the poller reached a terminal
// state and the loop must exit.
func (p *Poller) check(ctx context.Context) bool {
	p.mu.Lock()
	p.intentos++
	intento := p.intentos
	p.mu.Unlock()

	conf, err := p.consultor.Consultar(ctx, p.consulta)
	if err != nil {
		if ctx.Err() != nil {
			p.setEstado(EstadoInactivo)
			return true
		}
		// Sidecar hiccup: the attempt still counts, the loop keeps going.
		log.Warn().Err(err).
			Str("verificacion_id", p.verificacionID.String()).
			Int("intento", intento).
			Msg("consulta al banco falló")
	} else if conf.Confirmado {
		p.setEstado(EstadoVerificada)
		if p.callbacks.OnVerificada != nil {
			p.callbacks.OnVerificada(conf)
		}
		return true
	}

	if intento >= p.maxIntentos {
		p.setEstado(EstadoExpirada)
		if p.callbacks.OnExpirada != nil {
			p.callbacks.OnExpirada()
		}
		return true
	}
	if p.callbacks.OnIntento != nil {
		p.callbacks.OnIntento(intento)
	}
	return false
}

func (p *Poller) setEstado(e Estado) {
	p.mu.Lock()
	p.estado = e
	p.mu.Unlock()
}
