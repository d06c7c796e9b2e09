package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/application/usecase"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// CotizacionHandler peticiones del ciclo de vida de la cotización.
type CotizacionHandler struct {
	uc *usecase.CotizacionUseCase
}

func NewCotizacionHandler(uc *usecase.CotizacionUseCase) *CotizacionHandler {
	return &CotizacionHandler{uc: uc}
}

// Create POST /api/cotizaciones
func (h *CotizacionHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearCotizacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.IDCorredor == "" {
		in.IDCorredor = GetUserID(c)
	}
	cot, err := h.uc.CrearInicial(c.UserContext(), in.IDCorredor, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cot)
}

// GetByID GET /api/cotizaciones/:id
func (h *CotizacionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.ObtenerPorID(c.UserContext(), c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// GetByPatente GET /api/cotizaciones/patente/:patente
func (h *CotizacionHandler) GetByPatente(c *fiber.Ctx) error {
	out, err := h.uc.ObtenerVigentePorPatente(c.UserContext(), c.Params("patente"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// GetParaModificar GET /api/cotizaciones/:id/modificar
func (h *CotizacionHandler) GetParaModificar(c *fiber.Ctx) error {
	cot, err := h.uc.ParaModificar(c.UserContext(), c.Params("id"), GetActor(c), contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(cot)
}

// UpdateVehiculo PUT /api/cotizaciones/:id/vehiculo
func (h *CotizacionHandler) UpdateVehiculo(c *fiber.Ctx) error {
	var patch entity.VehiculoPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cot, err := h.uc.ActualizarVehiculo(c.UserContext(), c.Params("id"), patch, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(cot)
}

// UpdateCliente PUT /api/cotizaciones/:id/cliente
func (h *CotizacionHandler) UpdateCliente(c *fiber.Ctx) error {
	var patch entity.ClientePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cot, err := h.uc.ActualizarCliente(c.UserContext(), c.Params("id"), patch, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(cot)
}

// UpdateCondiciones PUT /api/cotizaciones/:id/condiciones
func (h *CotizacionHandler) UpdateCondiciones(c *fiber.Ctx) error {
	var in dto.CondicionesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cond, err := h.uc.GuardarCondiciones(c.UserContext(), c.Params("id"), in, contextoAuditoria(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(cond)
}
