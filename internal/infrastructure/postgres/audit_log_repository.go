package postgres

import (
	"context"
	"fmt"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo persistencia append-only de auditoría.
type AuditLogRepo struct {
	q Querier
}

func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Crear inserta la entrada. No hay update ni delete sobre esta tabla.
func (r *AuditLogRepo) Crear(ctx context.Context, e *entity.AuditLog) error {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO audit_log (
			id, actor_id, action, entity, entity_id,
			before_doc, after_doc, metadata, ip, user_agent, request_id, created_at
		)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ActorID, e.Action, e.Entity, e.EntityID,
		e.Before, e.After, e.Metadata, e.IP, e.UserAgent, e.RequestID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}
