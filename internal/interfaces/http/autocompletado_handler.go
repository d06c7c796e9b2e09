package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/application/usecase"
)

// AutocompletadoHandler precarga de formularios y registro de vehículos.
type AutocompletadoHandler struct {
	uc *usecase.AutocompletadoUseCase
}

func NewAutocompletadoHandler(uc *usecase.AutocompletadoUseCase) *AutocompletadoHandler {
	return &AutocompletadoHandler{uc: uc}
}

// InfoPatente GET /api/autocompletado/patente/:patente
func (h *AutocompletadoHandler) InfoPatente(c *fiber.Ctx) error {
	out, err := h.uc.InfoPatente(c.UserContext(), c.Params("patente"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// InfoRut GET /api/autocompletado/rut/:rut
func (h *AutocompletadoHandler) InfoRut(c *fiber.Ctx) error {
	out, err := h.uc.InfoRut(c.UserContext(), c.Params("rut"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// UpsertVehiculo PUT /api/vehiculos
func (h *AutocompletadoHandler) UpsertVehiculo(c *fiber.Ctx) error {
	var in dto.GuardarVehiculoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ActualizarOCrearVehiculo(c.UserContext(), in, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	status := fiber.StatusOK
	if out.Creado {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}
