package domain

import (
	"strings"
	"time"
)

// Formatos textuales con los que se persisten las fechas de cotización.
// El layout dd-mm-yyyy se mantiene por compatibilidad con los datos ya almacenados.
const (
	LayoutFechaHora      = "02-01-2006 15:04:05"
	LayoutFechaHoraCorta = "02-01-2006 15:04"
	LayoutFecha          = "02-01-2006"
)

// FormatFechaCotizacion devuelve t en el formato textual persistido (dd-mm-yyyy HH:MM:SS).
func FormatFechaCotizacion(t time.Time) string {
	return t.Format(LayoutFechaHora)
}

// ParseFechaCotizacion interpreta una fecha almacenada como texto.
// Acepta dd-mm-yyyy con hora completa, hora sin segundos o solo fecha.
// Un valor no parseable devuelve ok=false; nunca es motivo de error:
// los registros sin fecha válida se excluyen de cualquier filtro por fecha.
func ParseFechaCotizacion(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{LayoutFechaHora, LayoutFechaHoraCorta, LayoutFecha} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseRangoFecha interpreta los límites date_from/date_to (formato estricto dd-mm-yyyy).
// desde se normaliza a las 00:00:00 y hasta a las 23:59:59 del día indicado,
// de modo que el rango sea inclusivo en ambos extremos.
func ParseRangoFecha(desde, hasta string) (*time.Time, *time.Time) {
	var d, h *time.Time
	if t, err := time.ParseInLocation(LayoutFecha, strings.TrimSpace(desde), time.Local); err == nil && desde != "" {
		inicio := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		d = &inicio
	}
	if t, err := time.ParseInLocation(LayoutFecha, strings.TrimSpace(hasta), time.Local); err == nil && hasta != "" {
		fin := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.Local)
		h = &fin
	}
	return d, h
}
