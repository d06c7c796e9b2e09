package repository

import (
	"context"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// AuditLogRepository persistencia solo-inserción de la bitácora de auditoría.
type AuditLogRepository interface {
	Crear(ctx context.Context, e *entity.AuditLog) error
}
