package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/domain"
)

// codigos por status para el cuerpo de error.
func codigoDe(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "VALIDATION"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// responderError traduce un error de dominio a la respuesta HTTP. Los errores
// sin tipo se tratan como internos y nunca exponen el detalle.
func responderError(c *fiber.Ctx, err error) error {
	if derr, ok := domain.AsError(err); ok {
		return c.Status(derr.Status).JSON(dto.ErrorResponse{
			Code:    codigoDe(derr.Status),
			Message: derr.Mensaje,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "error interno del servidor",
	})
}
