package asistente

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizarEntradaNumerosHablados(t *testing.T) {
	assert.Equal(t, "05209918", NormalizarEntrada("cero cinco dos cero nueve nueve uno ocho"))
}

func TestNormalizarEntradaGruposDeDigitos(t *testing.T) {
	assert.Equal(t, "05209918", NormalizarEntrada("052 099 18"))
}

func TestNormalizarEntradaDNISinPadding(t *testing.T) {
	// 7 dígitos: se completa a 8 con ceros a la izquierda.
	assert.Equal(t, "05209918", NormalizarEntrada("5209918"))
}

func TestNormalizarEntradaMatricula(t *testing.T) {
	assert.Equal(t, "12-0345", NormalizarEntrada("12-345"))
	assert.Equal(t, "12-0345", NormalizarEntrada("12-0345"))
}

func TestNormalizarEntradaTextoMixto(t *testing.T) {
	assert.Equal(t, "deudas del colegiado 05209918",
		NormalizarEntrada("Deudas del colegiado cero cinco dos cero nueve nueve uno ocho"))
}

func TestClasificarDNIDirecto(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("052 099 18")

	assert.Equal(t, IntencionBuscarColegiado, res.Intencion)
	assert.Equal(t, ConfianzaDirecta, res.Confianza)
	assert.Equal(t, "05209918", res.TextoNormalizado)
}

func TestClasificarMatriculaDirecta(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("12-345")

	assert.Equal(t, IntencionBuscarColegiado, res.Intencion)
	assert.Equal(t, ConfianzaDirecta, res.Confianza)
	assert.Equal(t, "12-0345", res.TextoNormalizado)
}

func TestClasificarDeudaYPagoGanaMayorRatio(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("quiero pagar mi deuda")

	// "deuda" da 1/7 a consulta_deuda; "pagar" (y "pago" contenido en
	// "pagar"... no) da 1/5 a registrar_pago: gana registrar_pago.
	assert.Equal(t, IntencionRegistrarPago, res.Intencion)
	assert.InDelta(t, 1.0/5.0, res.Confianza, 1e-9)
}

func TestClasificarSoloDeuda(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("cuánto debe el colegiado")

	assert.Equal(t, IntencionConsultaDeuda, res.Intencion)
}

func TestClasificarConstancia(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("emitir constancia de habilidad")

	assert.Equal(t, IntencionEmitirConstancia, res.Intencion)
	assert.InDelta(t, 2.0/3.0, res.Confianza, 1e-9)
}

func TestClasificarDesconocida(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("hola buenos días")

	assert.Equal(t, IntencionDesconocida, res.Intencion)
	assert.Zero(t, res.Confianza)
}

func TestClasificarCierreDeCaja(t *testing.T) {
	m := NewMatcher()
	res := m.Clasificar("hacer el arqueo y cierre de caja")

	assert.Equal(t, IntencionCerrarCaja, res.Intencion)
}
