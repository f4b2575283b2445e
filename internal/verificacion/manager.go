package verificacion

import (
	"context"
	"sync"

	"portalcaja/internal/infra"
	"portalcaja/internal/repository"
	"portalcaja/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager owns one Poller per pending verification and persists every state
// transition. It implements service.VerificacionLauncher, so checkout can
// kick off polling without importing this package.
type Manager struct {
	pagoRepo  repository.PagoRepository
	consultor Consultor
	pagos     service.PagoService

	// baseCtx bounds every poller; cancelling it on shutdown stops them all.
	baseCtx context.Context

	mu      sync.Mutex
	pollers map[uuid.UUID]*Poller
}

func NewManager(baseCtx context.Context, pagoRepo repository.PagoRepository, consultor Consultor, pagos service.PagoService) *Manager {
	return &Manager{
		pagoRepo:  pagoRepo,
		consultor: consultor,
		pagos:     pagos,
		baseCtx:   baseCtx,
		pollers:   make(map[uuid.UUID]*Poller),
	}
}

// Lanzar starts polling for the given verification. Launching again for the
// same id stops the previous poller first, so at most one runs per payment.
func (m *Manager) Lanzar(verificacionID string) {
	id, err := uuid.Parse(verificacionID)
	if err != nil {
		log.Error().Str("verificacion_id", verificacionID).Msg("id de verificación inválido")
		return
	}

	v, err := m.pagoRepo.FindVerificacionByID(m.baseCtx, id)
	if err != nil {
		log.Error().Err(err).Str("verificacion_id", verificacionID).
			Msg("verificación no encontrada; no se lanza el poller")
		return
	}
	if v.Estado != "pendiente" {
		return
	}

	p := NewPoller(v, m.consultor, Callbacks{
		OnIntento:    func(intento int) { m.persistIntento(id, intento) },
		OnVerificada: func(conf *infra.ConfirmacionBanco) { m.onVerificada(id, conf) },
		OnExpirada:   func() { m.onExpirada(id) },
	})

	m.mu.Lock()
	if prev, ok := m.pollers[id]; ok {
		go prev.Stop()
	}
	m.pollers[id] = p
	m.mu.Unlock()

	p.Start(m.baseCtx)
	log.Info().Str("verificacion_id", verificacionID).Msg("poller de verificación lanzado")
}

// Detener stops the poller for one verification, if any.
func (m *Manager) Detener(verificacionID uuid.UUID) {
	m.mu.Lock()
	p, ok := m.pollers[verificacionID]
	delete(m.pollers, verificacionID)
	m.mu.Unlock()
	if ok {
		p.Stop()
	}
}

// DetenerTodos stops every running poller; called on shutdown.
func (m *Manager) DetenerTodos() {
	m.mu.Lock()
	pollers := make([]*Poller, 0, len(m.pollers))
	for _, p := range m.pollers {
		pollers = append(pollers, p)
	}
	m.pollers = make(map[uuid.UUID]*Poller)
	m.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}

// EstadoEnVivo reports the in-process poller state, when one is running.
func (m *Manager) EstadoEnVivo(verificacionID uuid.UUID) (Estado, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pollers[verificacionID]
	if !ok {
		return EstadoInactivo, false
	}
	return p.Estado(), true
}

func (m *Manager) persistIntento(id uuid.UUID, intento int) {
	v, err := m.pagoRepo.FindVerificacionByID(m.baseCtx, id)
	if err != nil {
		return
	}
	v.Intentos = intento
	if err := m.pagoRepo.UpdateVerificacion(m.baseCtx, v); err != nil {
		log.Warn().Err(err).Str("verificacion_id", id.String()).Msg("no se pudo persistir el intento")
	}
}

func (m *Manager) onVerificada(id uuid.UUID, conf *infra.ConfirmacionBanco) {
	defer m.forget(id)

	v, err := m.pagoRepo.FindVerificacionByID(m.baseCtx, id)
	if err != nil {
		log.Error().Err(err).Str("verificacion_id", id.String()).Msg("verificación confirmada pero no encontrada")
		return
	}
	v.Estado = "verificada"
	v.CodigoOperacion = &conf.CodigoOperacion
	v.Banco = &conf.Banco
	v.AutoAprobado = conf.AutoAprobado
	if err := m.pagoRepo.UpdateVerificacion(m.baseCtx, v); err != nil {
		log.Error().Err(err).Str("verificacion_id", id.String()).Msg("no se pudo guardar la verificación")
		return
	}
	if err := m.pagoRepo.UpdateEstado(m.baseCtx, v.PagoID, "confirmado"); err != nil {
		log.Error().Err(err).Str("pago_id", v.PagoID.String()).Msg("no se pudo confirmar el pago")
		return
	}

	log.Info().
		Str("pago_id", v.PagoID.String()).
		Str("codigo_operacion", conf.CodigoOperacion).
		Str("banco", conf.Banco).
		Msg("pago digital verificado")

	if _, _, err := m.pagos.ProcesarConfirmado(m.baseCtx, v.PagoID); err != nil {
		log.Error().Err(err).Str("pago_id", v.PagoID.String()).Msg("post-proceso de pago verificado falló")
	}
}

// onExpirada leaves the payment in pendiente_revision: not an error state,
// the bank simply never matched within the window. The revision cron and the
// supervisors take it from here.
func (m *Manager) onExpirada(id uuid.UUID) {
	defer m.forget(id)

	v, err := m.pagoRepo.FindVerificacionByID(m.baseCtx, id)
	if err != nil {
		return
	}
	v.Estado = "expirada"
	v.Intentos = v.MaxIntentos
	if err := m.pagoRepo.UpdateVerificacion(m.baseCtx, v); err != nil {
		log.Error().Err(err).Str("verificacion_id", id.String()).Msg("no se pudo expirar la verificación")
	}
	if err := m.pagoRepo.UpdateEstado(m.baseCtx, v.PagoID, "pendiente_revision"); err != nil {
		log.Error().Err(err).Str("pago_id", v.PagoID.String()).Msg("no se pudo marcar el pago en revisión")
	}
	log.Warn().Str("pago_id", v.PagoID.String()).Msg("verificación expirada; pago pasa a revisión manual")
}

func (m *Manager) forget(id uuid.UUID) {
	m.mu.Lock()
	delete(m.pollers, id)
	m.mu.Unlock()
}
