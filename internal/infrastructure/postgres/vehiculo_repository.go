package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

var _ repository.VehiculoRepository = (*VehiculoRepo)(nil)

// VehiculoRepo registro de referencia de vehículos, clave natural la patente.
type VehiculoRepo struct {
	q Querier
}

func NewVehiculoRepository(q Querier) *VehiculoRepo {
	return &VehiculoRepo{q: q}
}

// ObtenerPorPatente devuelve el registro o nil si la patente no está.
func (r *VehiculoRepo) ObtenerPorPatente(ctx context.Context, patente string) (*entity.VehiculoRegistro, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, patente, marca, modelo, anio, tipo_vehiculo, color,
		       valor_comercial, numero_chasis, numero_motor, created_at, updated_at
		FROM vehiculo WHERE patente = $1`
	var v entity.VehiculoRegistro
	err := r.q.QueryRow(ctx, query, patente).Scan(
		&v.ID, &v.Patente, &v.Marca, &v.Modelo, &v.Anio, &v.TipoVehiculo, &v.Color,
		&v.ValorComercial, &v.NumeroChasis, &v.NumeroMotor, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehiculo: %w", err)
	}
	return &v, nil
}

// Upsert crea o sobreescribe el registro de la patente en una sentencia.
// Devuelve true cuando la patente no existía.
func (r *VehiculoRepo) Upsert(ctx context.Context, v *entity.VehiculoRegistro) (bool, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO vehiculo (
			id, patente, marca, modelo, anio, tipo_vehiculo, color,
			valor_comercial, numero_chasis, numero_motor, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (patente) DO UPDATE SET
			marca = EXCLUDED.marca,
			modelo = EXCLUDED.modelo,
			anio = EXCLUDED.anio,
			tipo_vehiculo = EXCLUDED.tipo_vehiculo,
			color = EXCLUDED.color,
			valor_comercial = EXCLUDED.valor_comercial,
			numero_chasis = EXCLUDED.numero_chasis,
			numero_motor = EXCLUDED.numero_motor,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`
	var creado bool
	err := r.q.QueryRow(ctx, query,
		v.ID, v.Patente, v.Marca, v.Modelo, v.Anio, v.TipoVehiculo, v.Color,
		v.ValorComercial, v.NumeroChasis, v.NumeroMotor, v.CreatedAt, v.UpdatedAt,
	).Scan(&creado)
	if err != nil {
		return false, fmt.Errorf("upsert vehiculo: %w", err)
	}
	return creado, nil
}
