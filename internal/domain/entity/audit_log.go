package entity

import "time"

// AuditLog es una entrada inmutable de la bitácora de auditoría.
// Before/After son instantáneas opacas del documento afectado; Metadata es
// libre e incluye el diff de campos calculado para las actualizaciones.
// Una vez escrita, la entrada nunca se modifica ni se elimina.
type AuditLog struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id,omitempty"` // vacío para acciones del sistema
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id,omitempty"`
	Before    map[string]any `json:"before,omitempty"`
	After     map[string]any `json:"after,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
