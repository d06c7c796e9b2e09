package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados persistidos de una cotización.
const (
	EstadoEnProceso = "EN_PROCESO"
	EstadoCaducada  = "CADUCADA"
)

// Valores centinela: marcan un campo aún no completado por el corredor.
// Nunca deben tratarse como dato real al derivar el paso del asistente.
const (
	Placeholder               = "-"
	ProductoPendiente         = "Pendiente"
	FechaNacimientoPorDefecto = "01-01-1900"
	AnioPorDefecto            = 1900
)

// NumeroCotizacionBase piso de numeración: la primera cotización es la 1001.
const NumeroCotizacionBase = 1000

// estadosEmitidos bloquean la modificación posterior de una cotización
// (incluye variantes de género usadas históricamente).
var estadosEmitidos = map[string]bool{
	"EMITIDA":    true,
	"FINALIZADA": true,
	"CERRADA":    true,
	"EMITIDO":    true,
	"FINALIZADO": true,
	"CERRADO":    true,
}

// EsEstadoEmitido indica si el estado impide modificar la cotización.
func EsEstadoEmitido(estado string) bool {
	return estadosEmitidos[strings.ToUpper(strings.TrimSpace(estado))]
}

// Cliente es el asegurado embebido en la cotización.
type Cliente struct {
	RutCliente      string `json:"rut_cliente"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Correo          string `json:"correo"`
	Telefono        string `json:"telefono"`
	Sexo            string `json:"sexo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Ciudad          string `json:"ciudad"`
	Comuna          string `json:"comuna"`
	Direccion       string `json:"direccion"`
	Genero          string `json:"genero"`
}

// Vehiculo es el vehículo embebido en la cotización.
type Vehiculo struct {
	Patente        string `json:"patente"`
	Marca          string `json:"marca"`
	Modelo         string `json:"modelo"`
	Anio           int    `json:"anio"`
	Color          string `json:"color"`
	ValorComercial string `json:"valorComercial"`
	NumeroChasis   string `json:"numeroChasis"`
	NumeroMotor    string `json:"numeroMotor"`
	TipoVehiculo   string `json:"tipoVehiculo"`
}

// Producto es el producto contratado.
type Producto struct {
	TProducto string  `json:"t_producto"`
	Deducible float64 `json:"deducible"`
}

// Condiciones comentario libre + etiquetas del paso 3.
type Condiciones struct {
	Comentario string   `json:"comentario"`
	Tags       []string `json:"tags"`
}

// Vacias indica si las condiciones no aportan información.
func (c *Condiciones) Vacias() bool {
	return c == nil || (strings.TrimSpace(c.Comentario) == "" && len(c.Tags) == 0)
}

// Cotizacion es el agregado raíz del sistema.
// FechaCotizacion conserva el formato textual dd-mm-yyyy HH:MM:SS por
// compatibilidad con los datos almacenados; FechaDt es su forma canónica,
// materializada una sola vez al escribir (nil si el texto no parsea).
type Cotizacion struct {
	ID              string          `json:"id"`
	NCotizacion     int64           `json:"n_cotizacion"`
	FechaCotizacion string          `json:"fecha_cotizacion"`
	FechaDt         *time.Time      `json:"-"`
	IDCorredor      string          `json:"id_corredor"`
	Cliente         *Cliente        `json:"cliente,omitempty"`
	Vehiculo        *Vehiculo       `json:"vehiculo,omitempty"`
	Producto        *Producto       `json:"producto,omitempty"`
	Condiciones     *Condiciones    `json:"condiciones,omitempty"`
	Prima           decimal.Decimal `json:"prima"`
	Comision        decimal.Decimal `json:"comision"`
	ProbCierre      float64         `json:"prob_cierre"`
	Estado          string          `json:"estado"`
}

// Pasos del asistente de creación.
const (
	PasoVehiculo    = 1
	PasoAsegurado   = 2
	PasoCondiciones = 3
	PasoProducto    = 4
)

func suministrado(v string) bool {
	return v != "" && v != Placeholder
}

// PasoActual deriva el paso del asistente a partir de la completitud de los
// datos: devuelve el primer paso con datos faltantes y 4 si todo está completo.
// Los centinelas "-" y "Pendiente" cuentan como no suministrado.
func (c *Cotizacion) PasoActual() int {
	if c == nil {
		return PasoVehiculo
	}
	if c.Vehiculo == nil || !suministrado(c.Vehiculo.Patente) || !suministrado(c.Vehiculo.Marca) {
		return PasoVehiculo
	}
	if c.Cliente == nil || !suministrado(c.Cliente.RutCliente) ||
		!suministrado(c.Cliente.Nombre) || !suministrado(c.Cliente.Correo) {
		return PasoAsegurado
	}
	if c.Condiciones.Vacias() {
		return PasoCondiciones
	}
	if c.Producto == nil || !suministrado(c.Producto.TProducto) || c.Producto.TProducto == ProductoPendiente {
		return PasoProducto
	}
	return PasoProducto
}

// NuevaCotizacion construye el registro inicial con todos los campos en
// valores centinela y estado EN_PROCESO.
func NuevaCotizacion(id string, numero int64, fecha time.Time, idCorredor string) *Cotizacion {
	return &Cotizacion{
		ID:              id,
		NCotizacion:     numero,
		FechaCotizacion: fecha.Format("02-01-2006 15:04:05"),
		FechaDt:         &fecha,
		IDCorredor:      idCorredor,
		Cliente: &Cliente{
			RutCliente:      Placeholder,
			Nombre:          Placeholder,
			Apellido:        Placeholder,
			Correo:          Placeholder,
			Telefono:        Placeholder,
			Sexo:            Placeholder,
			FechaNacimiento: FechaNacimientoPorDefecto,
		},
		Vehiculo: &Vehiculo{
			Patente: Placeholder,
			Marca:   Placeholder,
			Modelo:  Placeholder,
			Anio:    AnioPorDefecto,
		},
		Producto: &Producto{
			TProducto: ProductoPendiente,
			Deducible: 0,
		},
		Prima:      decimal.Zero,
		Comision:   decimal.Zero,
		ProbCierre: 0,
		Estado:     EstadoEnProceso,
	}
}

// ClientePatch campos opcionales del paso asegurado. Los campos nil
// conservan el valor previo del documento (merge parcial, nunca se
// restablecen a centinela).
type ClientePatch struct {
	RutCliente      *string `json:"rut_cliente,omitempty"`
	Nombre          *string `json:"nombre,omitempty"`
	Apellido        *string `json:"apellido,omitempty"`
	Correo          *string `json:"correo,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	Sexo            *string `json:"sexo,omitempty"`
	FechaNacimiento *string `json:"fecha_nacimiento,omitempty"`
	Ciudad          *string `json:"ciudad,omitempty"`
	Comuna          *string `json:"comuna,omitempty"`
	Direccion       *string `json:"direccion,omitempty"`
	Genero          *string `json:"genero,omitempty"`
}

// VehiculoPatch campos opcionales del paso vehículo.
type VehiculoPatch struct {
	Patente        *string `json:"patente,omitempty"`
	Marca          *string `json:"marca,omitempty"`
	Modelo         *string `json:"modelo,omitempty"`
	Anio           *int    `json:"anio,omitempty"`
	Color          *string `json:"color,omitempty"`
	ValorComercial *string `json:"valorComercial,omitempty"`
	NumeroChasis   *string `json:"numeroChasis,omitempty"`
	NumeroMotor    *string `json:"numeroMotor,omitempty"`
	TipoVehiculo   *string `json:"tipoVehiculo,omitempty"`
}

// Aplicar devuelve una copia de v con los campos no nil del patch aplicados.
func (p VehiculoPatch) Aplicar(v Vehiculo) Vehiculo {
	if p.Patente != nil {
		v.Patente = *p.Patente
	}
	if p.Marca != nil {
		v.Marca = *p.Marca
	}
	if p.Modelo != nil {
		v.Modelo = *p.Modelo
	}
	if p.Anio != nil {
		v.Anio = *p.Anio
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
	if p.ValorComercial != nil {
		v.ValorComercial = *p.ValorComercial
	}
	if p.NumeroChasis != nil {
		v.NumeroChasis = *p.NumeroChasis
	}
	if p.NumeroMotor != nil {
		v.NumeroMotor = *p.NumeroMotor
	}
	if p.TipoVehiculo != nil {
		v.TipoVehiculo = *p.TipoVehiculo
	}
	return v
}

// Aplicar devuelve una copia de c con los campos no nil del patch aplicados.
func (p ClientePatch) Aplicar(c Cliente) Cliente {
	if p.RutCliente != nil {
		c.RutCliente = *p.RutCliente
	}
	if p.Nombre != nil {
		c.Nombre = *p.Nombre
	}
	if p.Apellido != nil {
		c.Apellido = *p.Apellido
	}
	if p.Correo != nil {
		c.Correo = *p.Correo
	}
	if p.Telefono != nil {
		c.Telefono = *p.Telefono
	}
	if p.Sexo != nil {
		c.Sexo = *p.Sexo
	}
	if p.FechaNacimiento != nil {
		c.FechaNacimiento = *p.FechaNacimiento
	}
	if p.Ciudad != nil {
		c.Ciudad = *p.Ciudad
	}
	if p.Comuna != nil {
		c.Comuna = *p.Comuna
	}
	if p.Direccion != nil {
		c.Direccion = *p.Direccion
	}
	if p.Genero != nil {
		c.Genero = *p.Genero
	}
	return c
}
