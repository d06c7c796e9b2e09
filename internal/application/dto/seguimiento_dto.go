package dto

// CrearSeguimientoRequest alta de un seguimiento sobre una cotización.
// FRecordatorio es opcional, formato dd-mm-yyyy HH:MM (o HH:MM:SS).
type CrearSeguimientoRequest struct {
	Tipo          string `json:"type"`
	Descripcion   string `json:"descripcion"`
	FRecordatorio string `json:"f_recordatorio"`
}
