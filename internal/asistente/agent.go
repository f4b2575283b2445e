package asistente

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Agente is the generative fallback: when keyword scoring yields desconocida,
// the utterance goes to Gemini for a short natural-language answer. The caja
// works without it — an empty API key disables the fallback entirely.
type Agente struct {
	apiKey string
}

func NewAgente(apiKey string) *Agente {
	return &Agente{apiKey: apiKey}
}

func (a *Agente) Habilitado() bool { return a.apiKey != "" }

func (a *Agente) Responder(ctx context.Context, pregunta string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("asistente: crear cliente gemini: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	hoy := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`SYSTEM: Hoy es %s. Eres el asistente del portal de caja de un
colegio profesional peruano. Respondes en español, en dos oraciones como máximo.

Temas que dominas: cuotas y deudas de colegiados, constancias de habilidad,
caja (apertura, cierre, arqueo), métodos de pago (efectivo, Yape, Plin,
transferencia, tarjeta), comprobantes (boleta, factura, RUC) y avisos de
obligaciones tributarias (PDT 621, PLAME, AFP, CTS, gratificación, renta).
Si la pregunta no tiene que ver con el portal, indícalo amablemente.

USER: %s`, hoy, pregunta)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("asistente: gemini: %w", err)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("asistente: respuesta vacía de gemini")
}

// Asistente combines the deterministic matcher with the generative fallback.
type Asistente struct {
	matcher *Matcher
	agente  *Agente
}

func New(geminiAPIKey string) *Asistente {
	return &Asistente{matcher: NewMatcher(), agente: NewAgente(geminiAPIKey)}
}

// Consultar classifies the utterance. Only a desconocida result consults the
// generative agent, and its failure degrades to the plain desconocida answer.
func (a *Asistente) Consultar(ctx context.Context, texto string) Resultado {
	res := a.matcher.Clasificar(texto)
	if res.Intencion != IntencionDesconocida || !a.agente.Habilitado() {
		return res
	}

	respuesta, err := a.agente.Responder(ctx, texto)
	if err != nil {
		log.Warn().Err(err).Msg("fallback generativo no disponible")
		return res
	}
	res.Respuesta = respuesta
	return res
}
