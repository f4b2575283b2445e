package dto

type EmitirConstanciaRequest struct {
	ColegiadoID string `json:"colegiado_id" validate:"required,uuid"`
}

type ConstanciaResponse struct {
	ID           string `json:"id"`
	Numero       int64  `json:"numero"`
	Colegiado    string `json:"colegiado"`
	VigenteHasta string `json:"vigente_hasta"`
	Estado       string `json:"estado"`
	EmitidaAuto  bool   `json:"emitida_auto"`
	CreatedAt    string `json:"created_at"`
}
