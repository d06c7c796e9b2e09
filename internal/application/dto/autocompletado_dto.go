package dto

import "github.com/seguroscl/cotizador-api/internal/domain/entity"

// InfoPatenteResponse resultado de resolver una patente.
// Si no hay datos, MostrarFormulario habilita el ingreso manual.
type InfoPatenteResponse struct {
	Encontrado        bool                     `json:"encontrado"`
	MostrarFormulario bool                     `json:"mostrarFormulario"`
	Vehiculo          *entity.VehiculoRegistro `json:"vehiculo,omitempty"`
}

// InfoRutResponse resultado de resolver un RUT contra clientes ya cotizados.
type InfoRutResponse struct {
	Encontrado        bool            `json:"encontrado"`
	MostrarFormulario bool            `json:"mostrarFormulario"`
	Cliente           *entity.Cliente `json:"cliente,omitempty"`
}

// GuardarVehiculoRequest alta/actualización del registro de referencia.
type GuardarVehiculoRequest struct {
	Patente        string `json:"patente"`
	Marca          string `json:"marca"`
	Modelo         string `json:"modelo"`
	Anio           int    `json:"anio"`
	TipoVehiculo   string `json:"tipoVehiculo"`
	Color          string `json:"color"`
	ValorComercial string `json:"valorComercial"`
	NumeroChasis   string `json:"numeroChasis"`
	NumeroMotor    string `json:"numeroMotor"`
}

// GuardarVehiculoResponse eco del registro guardado; Creado distingue el
// alta de la actualización.
type GuardarVehiculoResponse struct {
	Creado   bool                     `json:"creado"`
	Vehiculo *entity.VehiculoRegistro `json:"vehiculo"`
}
