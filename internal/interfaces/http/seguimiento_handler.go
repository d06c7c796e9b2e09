package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/application/usecase"
)

// SeguimientoHandler peticiones de seguimientos de una cotización.
type SeguimientoHandler struct {
	uc *usecase.SeguimientoUseCase
}

func NewSeguimientoHandler(uc *usecase.SeguimientoUseCase) *SeguimientoHandler {
	return &SeguimientoHandler{uc: uc}
}

// Create POST /api/cotizaciones/:id/seguimientos
func (h *SeguimientoHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearSeguimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	seg, err := h.uc.Crear(c.UserContext(), c.Params("id"), GetUserID(c), in, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(seg)
}

// List GET /api/cotizaciones/:id/seguimientos
func (h *SeguimientoHandler) List(c *fiber.Ctx) error {
	datos, err := h.uc.ListarPorCotizacion(c.UserContext(), c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(datos)
}
