package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

const (
	limiteListadoPorDefecto = 20
	limiteListadoMaximo     = 200
	limiteOrdenPorDefecto   = 20
	limiteOrdenMaximo       = 100
)

// BitacoraUseCase consultas de bitácora: listado filtrado con paginación en
// SQL y ordenamiento multi-criterio en memoria sobre el conjunto visible.
type BitacoraUseCase struct {
	repo repository.CotizacionRepository
	log  *logger.Logger
}

func NewBitacoraUseCase(repo repository.CotizacionRepository, log *logger.Logger) *BitacoraUseCase {
	return &BitacoraUseCase{repo: repo, log: log}
}

// Listar devuelve la página solicitada aplicando el alcance por rol y los
// filtros de la petición. Los filtros se empujan a la consulta; la metadata
// refleja el total filtrado.
func (uc *BitacoraUseCase) Listar(ctx context.Context, actor domain.Actor, req dto.ListarCotizacionesRequest) (*dto.ListarCotizacionesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = limiteListadoPorDefecto
	}
	if limit > limiteListadoMaximo {
		limit = limiteListadoMaximo
	}

	filtro := domain.CompilarFiltro(actor, domain.FiltroParams{
		RutCliente: req.RutCliente,
		IDCorredor: req.IDCorredor,
		Estado:     req.Estado,
		Search:     req.Search,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	})

	datos, total, err := uc.repo.ListarPaginado(ctx, filtro, page, limit)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("listar cotizaciones: %w", err))
	}
	if datos == nil {
		datos = []*entity.Cotizacion{}
	}

	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	meta := dto.ListarMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
		Filters:    filtrosAplicados(req, filtro),
	}
	if actor.Rol != "" {
		rol := actor.Rol
		meta.Rol = &rol
	}
	return &dto.ListarCotizacionesResponse{Data: datos, Meta: meta}, nil
}

// filtrosAplicados refleja en la metadata solo los filtros que tuvieron efecto.
func filtrosAplicados(req dto.ListarCotizacionesRequest, filtro domain.CotizacionFiltro) dto.FiltrosAplicados {
	var f dto.FiltrosAplicados
	if filtro.RutLimpio != "" {
		rut := req.RutCliente
		f.RutCliente = &rut
	}
	if filtro.IDCorredor != "" {
		id := filtro.IDCorredor
		f.IDCorredor = &id
	}
	if filtro.Estado != "" {
		estado := req.Estado
		f.Estado = &estado
	}
	if filtro.Busqueda != nil {
		search := req.Search
		f.Search = &search
	}
	if filtro.Desde != nil {
		from := req.DateFrom
		f.DateFrom = &from
	}
	if filtro.Hasta != nil {
		to := req.DateTo
		f.DateTo = &to
	}
	return f
}

// camposOrden campos admitidos por Ordenar. Cualquier otro valor cae al
// orden por defecto (fecha descendente).
var camposOrden = map[string]bool{
	"cliente":      true,
	"vehiculo":     true,
	"producto":     true,
	"prima":        true,
	"comision":     true,
	"prob_cierre":  true,
	"estado":       true,
	"fecha":        true,
	"n_cotizacion": true,
}

// Ordenar carga el conjunto visible (alcance por rol más filtros de igualdad),
// lo ordena en memoria por el criterio pedido y pagina el resultado. El empate
// se resuelve por id en la misma dirección del criterio principal.
func (uc *BitacoraUseCase) Ordenar(ctx context.Context, actor domain.Actor, req dto.OrdenarRequest) (*dto.OrdenarResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = limiteOrdenPorDefecto
	}
	if limit > limiteOrdenMaximo {
		limit = limiteOrdenMaximo
	}

	campo := strings.ToLower(strings.TrimSpace(req.Sort))
	if !camposOrden[campo] {
		campo = "fecha"
	}
	desc := true
	if strings.EqualFold(strings.TrimSpace(req.Dir), "asc") {
		desc = false
	}

	filtro := repository.BitacoraFiltro{
		IDCorredor: actor.CorredorVisible(""),
		Estado:     domain.NormalizarEstado(req.Estado),
		Cliente:    strings.TrimSpace(req.Cliente),
		Vehiculo:   strings.TrimSpace(req.Vehiculo),
	}

	datos, err := uc.repo.ListarTodas(ctx, filtro)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("cargar cotizaciones para ordenar: %w", err))
	}

	ordenarCotizaciones(datos, campo, desc)

	total := int64(len(datos))
	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	inicio := (page - 1) * limit
	if inicio > len(datos) {
		inicio = len(datos)
	}
	fin := inicio + limit
	if fin > len(datos) {
		fin = len(datos)
	}
	pagina := datos[inicio:fin]
	if pagina == nil {
		pagina = []*entity.Cotizacion{}
	}

	return &dto.OrdenarResponse{
		Datos:      pagina,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// registroOrden precalcula las claves de comparación una sola vez por registro.
type registroOrden struct {
	cot        *entity.Cotizacion
	texto      string
	numero     float64
	fecha      time.Time
	tieneFecha bool
}

// ordenarCotizaciones ordena el slice en el lugar. La comparación de texto es
// insensible a mayúsculas y acentos; los campos numéricos comparan por valor.
func ordenarCotizaciones(datos []*entity.Cotizacion, campo string, desc bool) {
	registros := make([]registroOrden, len(datos))
	for i, c := range datos {
		registros[i] = clavesDe(c, campo)
	}

	numerico := campo == "prima" || campo == "comision" || campo == "prob_cierre" || campo == "n_cotizacion"
	porFecha := campo == "fecha"

	sort.SliceStable(registros, func(i, j int) bool {
		a, b := registros[i], registros[j]
		var cmp int
		switch {
		case porFecha:
			cmp = compararFechas(a, b)
		case numerico:
			switch {
			case a.numero < b.numero:
				cmp = -1
			case a.numero > b.numero:
				cmp = 1
			}
		default:
			cmp = strings.Compare(a.texto, b.texto)
		}
		if cmp == 0 {
			cmp = strings.Compare(a.cot.ID, b.cot.ID)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	for i := range registros {
		datos[i] = registros[i].cot
	}
}

// compararFechas trata los registros sin fecha interpretable como el valor
// mínimo, así quedan al final en el orden descendente por defecto.
func compararFechas(a, b registroOrden) int {
	switch {
	case a.tieneFecha && !b.tieneFecha:
		return 1
	case !a.tieneFecha && b.tieneFecha:
		return -1
	case !a.tieneFecha && !b.tieneFecha:
		return 0
	case a.fecha.Before(b.fecha):
		return -1
	case a.fecha.After(b.fecha):
		return 1
	}
	return 0
}

func clavesDe(c *entity.Cotizacion, campo string) registroOrden {
	r := registroOrden{cot: c}
	switch campo {
	case "cliente":
		if c.Cliente != nil {
			r.texto = claveTexto(c.Cliente.Nombre + " " + c.Cliente.Apellido)
		}
	case "vehiculo":
		if c.Vehiculo != nil {
			r.texto = claveTexto(c.Vehiculo.Marca + " " + c.Vehiculo.Modelo)
		}
	case "producto":
		if c.Producto != nil {
			r.texto = claveTexto(c.Producto.TProducto)
		}
	case "estado":
		r.texto = claveTexto(c.Estado)
	case "prima":
		r.numero, _ = c.Prima.Float64()
	case "comision":
		r.numero, _ = c.Comision.Float64()
	case "prob_cierre":
		r.numero = c.ProbCierre
	case "n_cotizacion":
		r.numero = float64(c.NCotizacion)
	case "fecha":
		if c.FechaDt != nil {
			r.fecha, r.tieneFecha = *c.FechaDt, true
		} else if t, ok := domain.ParseFechaCotizacion(c.FechaCotizacion); ok {
			r.fecha, r.tieneFecha = t, true
		}
	}
	return r
}

func claveTexto(s string) string {
	return strings.ToLower(domain.QuitarAcentos(strings.TrimSpace(s)))
}
