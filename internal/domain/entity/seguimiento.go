package entity

import "time"

// Tipos de seguimiento registrables sobre una cotización.
const (
	TipoLlamada      = "llamada"
	TipoCorreo       = "correo"
	TipoNota         = "nota"
	TipoRecordatorio = "recordatorio"
)

// TipoSeguimientoValido valida el tipo recibido desde la API.
func TipoSeguimientoValido(tipo string) bool {
	switch tipo {
	case TipoLlamada, TipoCorreo, TipoNota, TipoRecordatorio:
		return true
	}
	return false
}

// Seguimiento es una interacción registrada o programada sobre una cotización.
// FRecordatorio marca el vencimiento del recordatorio; Enviado se vuelve true
// una sola vez tras un despacho exitoso y nunca se reenvía.
type Seguimiento struct {
	ID            string     `json:"id"`
	IDCotizacion  string     `json:"id_cotizacion"`
	Tipo          string     `json:"type"`
	Descripcion   string     `json:"descripcion"`
	FCreacion     string     `json:"f_creacion"` // dd-mm-yyyy HH:MM
	FRecordatorio *time.Time `json:"f_recordatorio,omitempty"`
	IDUser        string     `json:"id_user"`
	Enviado       bool       `json:"enviado"`
	EnviadoAt     *time.Time `json:"enviado_at,omitempty"`
	ErrorEnvio    string     `json:"error_envio,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
