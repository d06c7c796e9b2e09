package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FiltroParams son los parámetros crudos de consulta del listado,
// tal como llegan del borde HTTP.
type FiltroParams struct {
	RutCliente string
	IDCorredor string // solo efectivo para actores privilegiados
	Estado     string
	Search     string
	DateFrom   string // dd-mm-yyyy
	DateTo     string // dd-mm-yyyy
}

// CotizacionFiltro es el conjunto de predicados ya compilado: visibilidad,
// RUT, estado, búsqueda libre y rango de fechas. Un campo en cero significa
// "sin predicado": la ausencia de un filtro jamás estrecha el resultado.
type CotizacionFiltro struct {
	IDCorredor string // visibilidad ya resuelta por la política
	RutLimpio  string // RUT sin puntos ni guiones
	RutCrudo   string // RUT tal como llegó
	Estado     string // minúsculas, guiones bajos convertidos a espacio
	Busqueda   *Busqueda
	Desde      *time.Time // inclusive, normalizado a 00:00:00
	Hasta      *time.Time // inclusive, normalizado a 23:59:59
}

// Busqueda es la expansión OR de la búsqueda libre: el término se compara
// contra nombre/apellido del cliente, patente del vehículo y número de
// cotización; si al quitar el prefijo COT- y los separadores queda un número
// puro, se agrega además la coincidencia exacta por n_cotizacion.
type Busqueda struct {
	Texto      string // término original, recortado
	TextoPlano string // sin acentos, para nombre/apellido
	Limpio     string // sin prefijo COT-, espacios ni guiones
	Numero     int64  // válido solo si EsNumerica
	EsNumerica bool
}

var (
	reCOT     = regexp.MustCompile(`(?i)COT-?`)
	reEspacio = regexp.MustCompile(`\s+`)
	reDigitos = regexp.MustCompile(`^\d+$`)
)

// NormalizarRut quita puntos y guiones y pasa a mayúsculas.
func NormalizarRut(rut string) string {
	s := strings.TrimSpace(rut)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(s)
}

// NormalizarPatente recorta y pasa a mayúsculas.
func NormalizarPatente(patente string) string {
	return strings.ToUpper(strings.TrimSpace(patente))
}

// NormalizarEstado lleva el estado a minúsculas con guiones bajos como espacios,
// para comparar valor completo sin distinguir mayúsculas ni separador.
func NormalizarEstado(estado string) string {
	s := strings.ToLower(strings.TrimSpace(estado))
	return strings.ReplaceAll(s, "_", " ")
}

// QuitarAcentos elimina los diacríticos del término (búsqueda insensible a acentos).
func QuitarAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plano, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return plano
}

// CompilarBusqueda expande el término de búsqueda libre. Devuelve nil si el
// término está vacío.
func CompilarBusqueda(termino string) *Busqueda {
	termino = strings.TrimSpace(termino)
	if termino == "" {
		return nil
	}
	limpio := reCOT.ReplaceAllString(termino, "")
	limpio = reEspacio.ReplaceAllString(limpio, "")
	limpio = strings.ReplaceAll(limpio, "-", "")

	b := &Busqueda{
		Texto:      termino,
		TextoPlano: QuitarAcentos(termino),
		Limpio:     limpio,
	}
	if reDigitos.MatchString(limpio) {
		if n, err := strconv.ParseInt(limpio, 10, 64); err == nil {
			b.Numero = n
			b.EsNumerica = true
		}
	}
	return b
}

// CompilarFiltro compone el filtro completo del listado: política de
// visibilidad del actor, normalización de RUT/estado, expansión de búsqueda
// y rango de fechas inclusivo. Las fechas con formato inválido se descartan
// (no generan predicado).
func CompilarFiltro(actor Actor, p FiltroParams) CotizacionFiltro {
	f := CotizacionFiltro{
		IDCorredor: actor.CorredorVisible(strings.TrimSpace(p.IDCorredor)),
		Busqueda:   CompilarBusqueda(p.Search),
	}
	if rut := strings.TrimSpace(p.RutCliente); rut != "" {
		f.RutCrudo = rut
		f.RutLimpio = NormalizarRut(rut)
	}
	if estado := strings.TrimSpace(p.Estado); estado != "" {
		f.Estado = NormalizarEstado(estado)
	}
	f.Desde, f.Hasta = ParseRangoFecha(p.DateFrom, p.DateTo)
	return f
}
