package repository

import (
	"context"
	"time"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// SeguimientoRepository define el puerto de persistencia para Seguimiento.
type SeguimientoRepository interface {
	Crear(ctx context.Context, s *entity.Seguimiento) error
	ListarPorCotizacion(ctx context.Context, idCotizacion string) ([]*entity.Seguimiento, error)
	// ListarPendientes devuelve los seguimientos no enviados con
	// recordatorio vencido (f_recordatorio <= hasta).
	ListarPendientes(ctx context.Context, hasta time.Time) ([]*entity.Seguimiento, error)
	MarcarEnviado(ctx context.Context, id string, cuando time.Time) error
	// RegistrarErrorEnvio deja constancia del último fallo sin marcar el
	// seguimiento como enviado; el siguiente ciclo lo reintenta.
	RegistrarErrorEnvio(ctx context.Context, id, mensaje string) error
}
