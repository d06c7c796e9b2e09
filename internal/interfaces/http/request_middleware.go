package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/seguroscl/cotizador-api/internal/application/audit"
)

// LocalRequestID clave del identificador de la petición en c.Locals.
const LocalRequestID = "request_id"

// RequestIDMiddleware asigna un identificador a cada petición. Respeta el
// X-Request-ID entrante para poder correlacionar con el frontend.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(LocalRequestID, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// contextoAuditoria arma el contexto de auditoría de la petición actual.
func contextoAuditoria(c *fiber.Ctx) audit.Contexto {
	id, _ := c.Locals(LocalRequestID).(string)
	return audit.Contexto{
		ActorID:   GetUserID(c),
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		RequestID: id,
	}
}
