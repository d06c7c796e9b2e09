package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/application/usecase"
)

// BitacoraHandler consultas de bitácora de cotizaciones.
type BitacoraHandler struct {
	uc *usecase.BitacoraUseCase
}

func NewBitacoraHandler(uc *usecase.BitacoraUseCase) *BitacoraHandler {
	return &BitacoraHandler{uc: uc}
}

// List GET /api/cotizaciones?page=1&limit=20&estado=...&search=...
func (h *BitacoraHandler) List(c *fiber.Ctx) error {
	var req dto.ListarCotizacionesRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.Listar(c.UserContext(), GetActor(c), req)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Sort GET /api/cotizaciones/ordenar?sort=fecha&dir=desc
func (h *BitacoraHandler) Sort(c *fiber.Ctx) error {
	var req dto.OrdenarRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.Ordenar(c.UserContext(), GetActor(c), req)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}
