package asistente

import (
	"sort"
	"strings"
)

// Intent names are part of the widget contract: the frontend maps each one to
// a navigation target or action.
const (
	IntencionBuscarColegiado  = "buscar_colegiado"
	IntencionConsultaDeuda    = "consulta_deuda"
	IntencionRegistrarPago    = "registrar_pago"
	IntencionAbrirCaja        = "abrir_caja"
	IntencionCerrarCaja       = "cerrar_caja"
	IntencionEmitirConstancia = "emitir_constancia"
	IntencionConsultaCatalogo = "consulta_catalogo"
	IntencionAnularPago       = "anular_pago"
	IntencionConfigurarAvisos = "configurar_avisos"
	IntencionDesconocida      = "desconocida"
)

// ConfianzaDirecta is assigned when the whole query is a DNI or matrícula:
// no keyword can beat an exact identifier.
const ConfianzaDirecta = 0.95

// Resultado is a classified utterance.
type Resultado struct {
	Intencion        string
	Confianza        float64
	TextoNormalizado string
	// Respuesta carries the generative fallback's answer, when one was asked.
	Respuesta string
}

// Matcher scores a fixed set of intents by keyword containment.
type Matcher struct {
	// nombres kept sorted so ties resolve deterministically: the
	// lexicographically smaller intent wins.
	nombres  []string
	keywords map[string][]string
}

func NewMatcher() *Matcher {
	m := &Matcher{
		keywords: map[string][]string{
			IntencionConsultaDeuda:    {"deuda", "deudas", "cuota", "cuotas", "saldo", "pendiente", "debe"},
			IntencionRegistrarPago:    {"pagar", "pago", "cobrar", "abonar", "cancelar"},
			IntencionAbrirCaja:        {"abrir", "apertura", "iniciar caja"},
			IntencionCerrarCaja:       {"cerrar", "cierre", "arqueo", "cuadrar"},
			IntencionEmitirConstancia: {"constancia", "habilidad", "certificado"},
			IntencionConsultaCatalogo: {"catalogo", "catálogo", "precio", "precios", "tarifa", "curso", "carnet"},
			IntencionAnularPago:       {"anular", "anulacion", "anulación", "nota de credito", "extornar"},
			IntencionConfigurarAvisos: {"aviso", "avisos", "alerta", "alertas", "recordatorio", "vencimiento"},
		},
	}
	for nombre := range m.keywords {
		m.nombres = append(m.nombres, nombre)
	}
	sort.Strings(m.nombres)
	return m
}

// Clasificar normalizes the utterance and picks the best intent.
// An exact DNI/matrícula short-circuits to buscar_colegiado; otherwise each
// intent scores hits/total over its keyword list and the highest ratio wins.
// Nothing matched means desconocida with confidence 0.
func (m *Matcher) Clasificar(texto string) Resultado {
	norm := NormalizarEntrada(texto)

	if EsIdentificador(norm) {
		return Resultado{
			Intencion:        IntencionBuscarColegiado,
			Confianza:        ConfianzaDirecta,
			TextoNormalizado: norm,
		}
	}

	best := Resultado{Intencion: IntencionDesconocida, Confianza: 0, TextoNormalizado: norm}
	for _, nombre := range m.nombres {
		kws := m.keywords[nombre]
		hits := 0
		for _, kw := range kws {
			if strings.Contains(norm, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) / float64(len(kws))
		if score > best.Confianza {
			best.Intencion = nombre
			best.Confianza = score
		}
	}
	return best
}
