package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

var _ repository.CotizacionRepository = (*CotizacionRepo)(nil)

// columnasCotizacion lista estable de columnas para SELECT y RETURNING.
const columnasCotizacion = `id, n_cotizacion, fecha_cotizacion, fecha_dt, id_corredor,
	cliente, vehiculo, producto, condiciones, prima, comision, prob_cierre, estado`

// CotizacionRepo adaptador de persistencia de cotizaciones (usable con pool o tx).
type CotizacionRepo struct {
	q Querier
}

// NewCotizacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCotizacionRepository(q Querier) *CotizacionRepo {
	return &CotizacionRepo{q: q}
}

// Crear inserta la cotización asignando el siguiente correlativo en la misma
// sentencia (piso 1001). El número asignado queda en c.NCotizacion.
func (r *CotizacionRepo) Crear(ctx context.Context, c *entity.Cotizacion) error {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cotizacion (
			id, n_cotizacion, fecha_cotizacion, fecha_dt, id_corredor,
			cliente, vehiculo, producto, condiciones, prima, comision, prob_cierre, estado
		)
		VALUES (
			$1,
			(SELECT GREATEST(COALESCE(MAX(n_cotizacion), $2::bigint), $2::bigint) + 1 FROM cotizacion),
			$3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING n_cotizacion`
	err := r.q.QueryRow(ctx, query,
		c.ID, entity.NumeroCotizacionBase, c.FechaCotizacion, c.FechaDt, c.IDCorredor,
		c.Cliente, c.Vehiculo, c.Producto, c.Condiciones,
		c.Prima, c.Comision, c.ProbCierre, c.Estado,
	).Scan(&c.NCotizacion)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflicto("el número de cotización ya fue asignado, reintente")
		}
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve la cotización o nil si no existe.
func (r *CotizacionRepo) ObtenerPorID(ctx context.Context, id string) (*entity.Cotizacion, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `SELECT ` + columnasCotizacion + ` FROM cotizacion WHERE id = $1`
	c, err := escanearCotizacion(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}
	return c, nil
}

// ObtenerVigentePorPatente busca la cotización EN_PROCESO más reciente para la patente.
func (r *CotizacionRepo) ObtenerVigentePorPatente(ctx context.Context, patente string) (*entity.Cotizacion, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + columnasCotizacion + `
		FROM cotizacion
		WHERE upper(COALESCE(vehiculo->>'patente', '')) = $1 AND estado = $2
		ORDER BY fecha_dt DESC NULLS LAST, n_cotizacion DESC
		LIMIT 1`
	c, err := escanearCotizacion(r.q.QueryRow(ctx, query, patente, entity.EstadoEnProceso))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion por patente: %w", err)
	}
	return c, nil
}

// ActualizarVehiculo fusiona el patch sobre el subdocumento vehiculo en una
// sola sentencia y devuelve el documento resultante (nil si el id no existe).
func (r *CotizacionRepo) ActualizarVehiculo(ctx context.Context, id string, patch entity.VehiculoPatch) (*entity.Cotizacion, error) {
	cuerpo, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("serializar patch de vehículo: %w", err)
	}
	return r.fusionarSubdocumento(ctx, id, "vehiculo", cuerpo)
}

// ActualizarCliente fusiona el patch sobre el subdocumento cliente.
func (r *CotizacionRepo) ActualizarCliente(ctx context.Context, id string, patch entity.ClientePatch) (*entity.Cotizacion, error) {
	cuerpo, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("serializar patch de cliente: %w", err)
	}
	return r.fusionarSubdocumento(ctx, id, "cliente", cuerpo)
}

// fusionarSubdocumento aplica `col = COALESCE(col,'{}') || patch` de forma
// atómica. Los campos ausentes del patch conservan su valor previo sin leer
// antes de escribir.
func (r *CotizacionRepo) fusionarSubdocumento(ctx context.Context, id, columna string, patch []byte) (*entity.Cotizacion, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	// columna viene de un conjunto fijo interno, nunca del request.
	query := `
		UPDATE cotizacion
		SET ` + columna + ` = COALESCE(` + columna + `, '{}'::jsonb) || $2::jsonb
		WHERE id = $1
		RETURNING ` + columnasCotizacion
	c, err := escanearCotizacion(r.q.QueryRow(ctx, query, id, patch))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update %s: %w", columna, err)
	}
	return c, nil
}

// ActualizarCondiciones reemplaza el subdocumento condiciones completo.
func (r *CotizacionRepo) ActualizarCondiciones(ctx context.Context, id string, cond entity.Condiciones) (*entity.Cotizacion, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cotizacion
		SET condiciones = $2
		WHERE id = $1
		RETURNING ` + columnasCotizacion
	c, err := escanearCotizacion(r.q.QueryRow(ctx, query, id, cond))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update condiciones: %w", err)
	}
	return c, nil
}

// ListarPaginado aplica el filtro compilado en SQL y devuelve la página y el
// total filtrado. El orden es fecha descendente con correlativo de desempate.
func (r *CotizacionRepo) ListarPaginado(ctx context.Context, f domain.CotizacionFiltro, page, limit int) ([]*entity.Cotizacion, int64, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	where, args := buildCotizacionWhere(f)

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM cotizacion`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cotizaciones: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM cotizacion%s ORDER BY fecha_dt DESC NULLS LAST, n_cotizacion DESC LIMIT $%d OFFSET $%d`,
		columnasCotizacion, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()

	datos, err := escanearCotizaciones(rows)
	if err != nil {
		return nil, 0, err
	}
	return datos, total, nil
}

// ListarTodas carga el conjunto visible completo para ordenamiento en memoria.
func (r *CotizacionRepo) ListarTodas(ctx context.Context, f repository.BitacoraFiltro) ([]*entity.Cotizacion, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	var cond []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.IDCorredor != "" {
		cond = append(cond, "id_corredor = "+arg(f.IDCorredor))
	}
	if f.Estado != "" {
		cond = append(cond, "lower(replace(estado, '_', ' ')) = "+arg(f.Estado))
	}
	if f.Cliente != "" {
		p := arg("%" + f.Cliente + "%")
		cond = append(cond, fmt.Sprintf(
			"(COALESCE(cliente->>'nombre','') ILIKE %s OR COALESCE(cliente->>'apellido','') ILIKE %s)", p, p,
		))
	}
	if f.Vehiculo != "" {
		p := arg("%" + f.Vehiculo + "%")
		cond = append(cond, fmt.Sprintf(
			"(COALESCE(vehiculo->>'marca','') ILIKE %s OR COALESCE(vehiculo->>'modelo','') ILIKE %s OR COALESCE(vehiculo->>'patente','') ILIKE %s)",
			p, p, p,
		))
	}

	where := ""
	if len(cond) > 0 {
		where = " WHERE " + strings.Join(cond, " AND ")
	}

	rows, err := r.q.Query(ctx, `SELECT `+columnasCotizacion+` FROM cotizacion`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones para ordenar: %w", err)
	}
	defer rows.Close()
	return escanearCotizaciones(rows)
}

// CaducarVencidas marca CADUCADA toda cotización EN_PROCESO anterior al corte.
// Las filas sin fecha_dt interpretable no caducan por barrido.
func (r *CotizacionRepo) CaducarVencidas(ctx context.Context, corte time.Time) (int64, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	tag, err := r.q.Exec(ctx, `
		UPDATE cotizacion
		SET estado = $1
		WHERE estado = $2 AND fecha_dt IS NOT NULL AND fecha_dt < $3`,
		entity.EstadoCaducada, entity.EstadoEnProceso, corte,
	)
	if err != nil {
		return 0, fmt.Errorf("caducar cotizaciones: %w", err)
	}
	return tag.RowsAffected(), nil
}

// BuscarClientePorRut devuelve los datos de cliente de la cotización más
// reciente con ese RUT (normalizado sin puntos ni guiones), o nil.
func (r *CotizacionRepo) BuscarClientePorRut(ctx context.Context, rutLimpio string) (*entity.Cliente, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT cliente
		FROM cotizacion
		WHERE upper(regexp_replace(COALESCE(cliente->>'rut_cliente',''), '[.-]', '', 'g')) = $1
		  AND COALESCE(cliente->>'nombre', '-') <> '-'
		ORDER BY fecha_dt DESC NULLS LAST, n_cotizacion DESC
		LIMIT 1`
	var cliente *entity.Cliente
	if err := r.q.QueryRow(ctx, query, rutLimpio).Scan(&cliente); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar cliente por rut: %w", err)
	}
	return cliente, nil
}

// buildCotizacionWhere traduce el filtro compilado a la cláusula WHERE y sus
// argumentos posicionales. Separado para poder probarlo sin base de datos.
func buildCotizacionWhere(f domain.CotizacionFiltro) (string, []any) {
	var cond []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.IDCorredor != "" {
		cond = append(cond, "id_corredor = "+arg(f.IDCorredor))
	}
	if f.RutLimpio != "" {
		limpio := arg("%" + f.RutLimpio + "%")
		crudo := arg("%" + f.RutCrudo + "%")
		cond = append(cond, fmt.Sprintf(
			"(regexp_replace(COALESCE(cliente->>'rut_cliente',''), '[.-]', '', 'g') ILIKE %s OR COALESCE(cliente->>'rut_cliente','') ILIKE %s)",
			limpio, crudo,
		))
	}
	if f.Estado != "" {
		cond = append(cond, "lower(replace(estado, '_', ' ')) = "+arg(f.Estado))
	}
	if f.Desde != nil {
		cond = append(cond, "fecha_dt >= "+arg(*f.Desde))
	}
	if f.Hasta != nil {
		cond = append(cond, "fecha_dt <= "+arg(*f.Hasta))
	}
	if b := f.Busqueda; b != nil {
		texto := arg("%" + strings.ToLower(b.TextoPlano) + "%")
		patente := arg("%" + strings.ToUpper(b.Texto) + "%")
		numeroTexto := arg("%" + b.Texto + "%")
		or := []string{
			// nombre y apellido comparados sin acentos ni mayúsculas
			fmt.Sprintf(
				"translate(lower(COALESCE(cliente->>'nombre','') || ' ' || COALESCE(cliente->>'apellido','')), 'áéíóúüñ', 'aeiouun') LIKE %s",
				texto,
			),
			fmt.Sprintf("upper(COALESCE(vehiculo->>'patente','')) LIKE %s", patente),
			fmt.Sprintf("CAST(n_cotizacion AS TEXT) LIKE %s", numeroTexto),
		}
		if b.EsNumerica {
			or = append(or, "n_cotizacion = "+arg(b.Numero))
		}
		cond = append(cond, "("+strings.Join(or, " OR ")+")")
	}

	if len(cond) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(cond, " AND "), args
}

// escaneos compartidos

func escanearCotizacion(row pgx.Row) (*entity.Cotizacion, error) {
	var c entity.Cotizacion
	err := row.Scan(
		&c.ID, &c.NCotizacion, &c.FechaCotizacion, &c.FechaDt, &c.IDCorredor,
		&c.Cliente, &c.Vehiculo, &c.Producto, &c.Condiciones,
		&c.Prima, &c.Comision, &c.ProbCierre, &c.Estado,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func escanearCotizaciones(rows pgx.Rows) ([]*entity.Cotizacion, error) {
	datos := []*entity.Cotizacion{}
	for rows.Next() {
		c, err := escanearCotizacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotizacion: %w", err)
		}
		datos = append(datos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar cotizaciones: %w", err)
	}
	return datos, nil
}
