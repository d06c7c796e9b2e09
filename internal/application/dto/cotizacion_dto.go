package dto

import "github.com/seguroscl/cotizador-api/internal/domain/entity"

// ListarCotizacionesRequest parámetros crudos del listado paginado.
type ListarCotizacionesRequest struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	DateFrom   string `query:"date_from"` // dd-mm-yyyy
	DateTo     string `query:"date_to"`   // dd-mm-yyyy
	RutCliente string `query:"rut_cliente"`
	IDCorredor string `query:"id_corredor"` // solo privilegiados
	Estado     string `query:"estado"`
	Search     string `query:"search"`
}

// FiltrosAplicados eco de los filtros efectivos en la metadata de la página.
type FiltrosAplicados struct {
	DateFrom   *string `json:"date_from"`
	DateTo     *string `json:"date_to"`
	RutCliente *string `json:"rut_cliente"`
	IDCorredor *string `json:"id_corredor"`
	Estado     *string `json:"estado"`
	Search     *string `json:"search"`
}

// ListarMeta metadatos de paginación del listado.
// TotalPages es siempre >= 1, incluso con total 0.
type ListarMeta struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int64            `json:"totalPages"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`
	Filters    FiltrosAplicados `json:"filters"`
	Rol        *string          `json:"rol"`
}

// ListarCotizacionesResponse página del listado.
type ListarCotizacionesResponse struct {
	Data []*entity.Cotizacion `json:"data"`
	Meta ListarMeta           `json:"meta"`
}

// OrdenarRequest parámetros del endpoint de ordenamiento de la bitácora.
// Sort y Dir aceptan listas separadas por coma (ej. "cliente,prima" / "asc,desc").
type OrdenarRequest struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Sort     string `query:"sort"`
	Dir      string `query:"dir"`
	Estado   string `query:"estado"`
	Cliente  string `query:"cliente"`
	Vehiculo string `query:"vehiculo"`
}

// OrdenarResponse página ordenada de la bitácora.
type OrdenarResponse struct {
	Datos      []*entity.Cotizacion `json:"datos"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int64                `json:"totalPages"`
}

// CrearCotizacionRequest alta de la cotización inicial.
type CrearCotizacionRequest struct {
	IDCorredor string `json:"id_corredor"`
}

// CondicionesRequest paso 3 del asistente.
type CondicionesRequest struct {
	Comentario string   `json:"comentario"`
	Tags       []string `json:"tags"`
}

// CotizacionConPaso cotización más el paso del asistente derivado.
type CotizacionConPaso struct {
	Cotizacion *entity.Cotizacion `json:"cotizacion"`
	PasoActual int                `json:"paso_actual"`
}
