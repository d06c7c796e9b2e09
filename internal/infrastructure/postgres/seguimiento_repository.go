package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

var _ repository.SeguimientoRepository = (*SeguimientoRepo)(nil)

const columnasSeguimiento = `id, id_cotizacion, tipo, descripcion, f_creacion,
	f_recordatorio, id_user, enviado, enviado_at, error_envio, created_at`

// SeguimientoRepo adaptador de persistencia de seguimientos.
type SeguimientoRepo struct {
	q Querier
}

func NewSeguimientoRepository(q Querier) *SeguimientoRepo {
	return &SeguimientoRepo{q: q}
}

// Crear persiste un seguimiento nuevo.
func (r *SeguimientoRepo) Crear(ctx context.Context, s *entity.Seguimiento) error {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO seguimiento (
			id, id_cotizacion, tipo, descripcion, f_creacion,
			f_recordatorio, id_user, enviado, enviado_at, error_envio, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.IDCotizacion, s.Tipo, s.Descripcion, s.FCreacion,
		s.FRecordatorio, s.IDUser, s.Enviado, s.EnviadoAt, s.ErrorEnvio, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert seguimiento: %w", err)
	}
	return nil
}

// ListarPorCotizacion devuelve los seguimientos de la cotización, recientes primero.
func (r *SeguimientoRepo) ListarPorCotizacion(ctx context.Context, idCotizacion string) ([]*entity.Seguimiento, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + columnasSeguimiento + `
		FROM seguimiento
		WHERE id_cotizacion = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, idCotizacion)
	if err != nil {
		return nil, fmt.Errorf("list seguimientos: %w", err)
	}
	defer rows.Close()
	return escanearSeguimientos(rows)
}

// ListarPendientes devuelve los recordatorios no enviados con fecha de aviso
// cumplida. Un seguimiento enviado nunca vuelve a aparecer.
func (r *SeguimientoRepo) ListarPendientes(ctx context.Context, hasta time.Time) ([]*entity.Seguimiento, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + columnasSeguimiento + `
		FROM seguimiento
		WHERE tipo = $1 AND enviado = FALSE AND f_recordatorio IS NOT NULL AND f_recordatorio <= $2
		ORDER BY f_recordatorio ASC`
	rows, err := r.q.Query(ctx, query, entity.TipoRecordatorio, hasta)
	if err != nil {
		return nil, fmt.Errorf("list recordatorios pendientes: %w", err)
	}
	defer rows.Close()
	return escanearSeguimientos(rows)
}

// MarcarEnviado deja constancia del envío y limpia cualquier error previo.
func (r *SeguimientoRepo) MarcarEnviado(ctx context.Context, id string, cuando time.Time) error {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	_, err := r.q.Exec(ctx, `
		UPDATE seguimiento
		SET enviado = TRUE, enviado_at = $2, error_envio = ''
		WHERE id = $1`, id, cuando)
	if err != nil {
		return fmt.Errorf("marcar seguimiento enviado: %w", err)
	}
	return nil
}

// RegistrarErrorEnvio guarda el último error de envío sin marcar el seguimiento.
func (r *SeguimientoRepo) RegistrarErrorEnvio(ctx context.Context, id, mensaje string) error {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	_, err := r.q.Exec(ctx, `UPDATE seguimiento SET error_envio = $2 WHERE id = $1`, id, mensaje)
	if err != nil {
		return fmt.Errorf("registrar error de envío: %w", err)
	}
	return nil
}

func escanearSeguimientos(rows pgx.Rows) ([]*entity.Seguimiento, error) {
	datos := []*entity.Seguimiento{}
	for rows.Next() {
		var s entity.Seguimiento
		err := rows.Scan(
			&s.ID, &s.IDCotizacion, &s.Tipo, &s.Descripcion, &s.FCreacion,
			&s.FRecordatorio, &s.IDUser, &s.Enviado, &s.EnviadoAt, &s.ErrorEnvio, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan seguimiento: %w", err)
		}
		datos = append(datos, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar seguimientos: %w", err)
	}
	return datos, nil
}
