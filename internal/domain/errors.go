package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error es el error de dominio con status HTTP equivalente.
// Expose indica si el mensaje puede mostrarse al cliente en producción;
// los errores internos viajan con Expose=false y un mensaje genérico.
type Error struct {
	Status  int
	Mensaje string
	Expose  bool
	causa   error
}

func (e *Error) Error() string { return e.Mensaje }

func (e *Error) Unwrap() error { return e.causa }

// NewValidacion entrada faltante o malformada (400).
func NewValidacion(formato string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Mensaje: fmt.Sprintf(formato, args...), Expose: true}
}

// NewNoEncontrado recurso inexistente (404).
func NewNoEncontrado(formato string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Mensaje: fmt.Sprintf(formato, args...), Expose: true}
}

// NewNoAutorizado el actor no es dueño del recurso (403).
func NewNoAutorizado(formato string, args ...any) *Error {
	return &Error{Status: http.StatusForbidden, Mensaje: fmt.Sprintf(formato, args...), Expose: true}
}

// NewConflicto estado incompatible con la operación (409). No reintentable.
func NewConflicto(formato string, args ...any) *Error {
	return &Error{Status: http.StatusConflict, Mensaje: fmt.Sprintf(formato, args...), Expose: true}
}

// NewInterno falla de almacenamiento u otra causa inesperada (500).
// El mensaje expuesto es genérico; la causa queda disponible vía Unwrap para logs.
func NewInterno(causa error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Mensaje: "error interno",
		Expose:  false,
		causa:   causa,
	}
}

// AsError extrae un *Error de la cadena de errores.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
