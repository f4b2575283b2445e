package dto

type ConsultaAsistenteRequest struct {
	// Texto is the free-form utterance: typed search or voice transcript.
	Texto string `json:"texto" validate:"required,min=1"`
}

type ConsultaAsistenteResponse struct {
	Intencion        string  `json:"intencion"`
	Confianza        float64 `json:"confianza"`
	TextoNormalizado string  `json:"texto_normalizado"`
	// Respuesta is filled when the backend can answer directly (generative
	// fallback or canned replies); empty when the widget should navigate.
	Respuesta string `json:"respuesta,omitempty"`
}
