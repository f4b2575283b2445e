package dto

// ConfigAvisos is the alert configuration blob persisted verbatim under the
// member's fixed storage key. The shape is part of the portal contract — the
// widget reads it back field by field.
type ConfigAvisos struct {
	DiasAntes    []int             `json:"dias_antes" validate:"required,dive,min=0,max=30"`
	Horas        []int             `json:"horas"      validate:"required,dive,min=0,max=23"`
	Obligaciones ObligacionesAviso `json:"obligaciones"`
	RUCs         []RUCAviso        `json:"rucs" validate:"dive"`
}

type ObligacionesAviso struct {
	PDT621 bool `json:"pdt621"`
	PLAME  bool `json:"plame"`
	AFP    bool `json:"afp"`
	CTS    bool `json:"cts"`
	Grati  bool `json:"grati"`
	Renta  bool `json:"renta"`
}

type RUCAviso struct {
	RUC    string `json:"ruc"    validate:"required,len=11,numeric"`
	Nombre string `json:"nombre" validate:"required"`
	// UltimoDigito drives the SUNAT due-date schedule; derived server-side
	// from the RUC when absent.
	UltimoDigito int `json:"ultimoDigito" validate:"min=0,max=9"`
}
