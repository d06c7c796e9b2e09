package entity

import "time"

// VehiculoRegistro es el registro de referencia de un vehículo, indexado por
// patente normalizada. Se crea en la primera resolución exitosa, se
// actualiza en las siguientes y nunca se elimina. Sirve para completar los
// subdocumentos de la cotización cuando el llamador envía valores "N/A".
type VehiculoRegistro struct {
	ID             string    `json:"id"`
	Patente        string    `json:"patente"`
	Marca          string    `json:"marca"`
	Modelo         string    `json:"modelo"`
	Anio           int       `json:"anio"`
	TipoVehiculo   string    `json:"tipoVehiculo,omitempty"`
	Color          string    `json:"color,omitempty"`
	ValorComercial string    `json:"valorComercial,omitempty"`
	NumeroChasis   string    `json:"numeroChasis,omitempty"`
	NumeroMotor    string    `json:"numeroMotor,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
