package repository

import (
	"context"
	"time"

	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// BitacoraFiltro filtros del endpoint de ordenamiento de la bitácora.
// Cliente busca en nombre/apellido; Vehiculo en marca/modelo.
type BitacoraFiltro struct {
	IDCorredor string
	Estado     string
	Cliente    string
	Vehiculo   string
}

// CotizacionRepository define el puerto de persistencia para Cotizacion.
// Los métodos de actualización por paso expresan el merge parcial como una
// única escritura atómica a nivel de documento (jamás read-modify-write) y
// devuelven el documento resultante; nil, nil cuando el id no existe.
type CotizacionRepository interface {
	// Crear persiste la cotización inicial asignando el siguiente
	// n_cotizacion (max existente + 1, piso 1001) en la misma sentencia.
	Crear(ctx context.Context, c *entity.Cotizacion) error
	ObtenerPorID(ctx context.Context, id string) (*entity.Cotizacion, error)
	// ObtenerVigentePorPatente busca una cotización no caducada cuyo
	// vehículo tenga la patente indicada (normalizada, mayúsculas).
	ObtenerVigentePorPatente(ctx context.Context, patente string) (*entity.Cotizacion, error)
	ActualizarVehiculo(ctx context.Context, id string, patch entity.VehiculoPatch) (*entity.Cotizacion, error)
	ActualizarCliente(ctx context.Context, id string, patch entity.ClientePatch) (*entity.Cotizacion, error)
	ActualizarCondiciones(ctx context.Context, id string, cond entity.Condiciones) (*entity.Cotizacion, error)
	// ListarPaginado aplica el filtro compilado, ordena por fecha
	// descendente (desempate por id) y devuelve la página más el total.
	ListarPaginado(ctx context.Context, f domain.CotizacionFiltro, page, limit int) ([]*entity.Cotizacion, int64, error)
	// ListarTodas devuelve el conjunto visible para el ordenamiento en
	// memoria de la bitácora.
	ListarTodas(ctx context.Context, f BitacoraFiltro) ([]*entity.Cotizacion, error)
	// CaducarVencidas marca CADUCADA en bloque toda cotización no caducada
	// con fecha canónica menor o igual al corte. Devuelve cuántas cambió.
	CaducarVencidas(ctx context.Context, corte time.Time) (int64, error)
	// BuscarClientePorRut encuentra el cliente embebido más reciente cuyo
	// RUT (limpio de puntos y guiones) coincida exactamente.
	BuscarClientePorRut(ctx context.Context, rutLimpio string) (*entity.Cliente, error)
}
