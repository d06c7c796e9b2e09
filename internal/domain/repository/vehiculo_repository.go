package repository

import (
	"context"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// VehiculoRepository registros de referencia de vehículos por patente.
type VehiculoRepository interface {
	// ObtenerPorPatente busca por patente sin distinguir mayúsculas;
	// nil, nil si no existe.
	ObtenerPorPatente(ctx context.Context, patente string) (*entity.VehiculoRegistro, error)
	// Upsert crea o actualiza el registro por patente. Devuelve true si lo creó.
	Upsert(ctx context.Context, v *entity.VehiculoRegistro) (bool, error)
}
