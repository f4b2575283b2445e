// Package asistente classifies free-text queries (typed search or voice
// transcript) into caja intents via keyword containment scoring, with an
// optional generative fallback for unmatched utterances.
package asistente

import (
	"regexp"
	"strings"
)

// Spoken digits as transcribed by Peruvian Spanish speech recognition.
var palabrasNumero = map[string]string{
	"cero":   "0",
	"uno":    "1",
	"una":    "1",
	"dos":    "2",
	"tres":   "3",
	"cuatro": "4",
	"cinco":  "5",
	"seis":   "6",
	"siete":  "7",
	"ocho":   "8",
	"nueve":  "9",
}

var (
	soloDigitos = regexp.MustCompile(`^\d+$`)
	matriculaRe = regexp.MustCompile(`^(\d{2})-(\d{3,4})$`)

	// Shapes a fully normalized token must take for a direct match.
	dniRe          = regexp.MustCompile(`^\d{8}$`)
	matriculaFinal = regexp.MustCompile(`^\d{2}-\d{4}$`)
)

// NormalizarEntrada rewrites an utterance so identifiers become canonical:
// spoken digit words turn into digits, consecutive digit groups merge, a
// 7-8 digit run is zero-padded to an 8-digit DNI, and NN-NNN[N] becomes the
// NN-NNNN matrícula format. Everything else passes through lowercased.
//
//	"cero cinco dos cero nueve nueve uno ocho" → "05209918"
//	"052 099 18"                               → "05209918"
//	"12-345"                                   → "12-0345"
func NormalizarEntrada(texto string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(texto)))

	traducidos := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if d, ok := palabrasNumero[tok]; ok {
			traducidos = append(traducidos, d)
			continue
		}
		traducidos = append(traducidos, tok)
	}

	// "052 099 18" reads as one number said in groups: merge adjacent runs.
	merged := make([]string, 0, len(traducidos))
	for _, tok := range traducidos {
		if len(merged) > 0 && soloDigitos.MatchString(tok) && soloDigitos.MatchString(merged[len(merged)-1]) {
			merged[len(merged)-1] += tok
			continue
		}
		merged = append(merged, tok)
	}

	for i, tok := range merged {
		merged[i] = formatearIdentificador(tok)
	}
	return strings.Join(merged, " ")
}

func formatearIdentificador(tok string) string {
	if m := matriculaRe.FindStringSubmatch(tok); m != nil {
		return m[1] + "-" + padCeros(m[2], 4)
	}
	if soloDigitos.MatchString(tok) && (len(tok) == 7 || len(tok) == 8) {
		return padCeros(tok, 8)
	}
	return tok
}

func padCeros(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// EsIdentificador reports whether the normalized text is, in its entirety, a
// DNI or a código de matrícula.
func EsIdentificador(textoNormalizado string) bool {
	return dniRe.MatchString(textoNormalizado) || matriculaFinal.MatchString(textoNormalizado)
}
