package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguroscl/cotizador-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CotizacionUC     *usecase.CotizacionUseCase
	BitacoraUC       *usecase.BitacoraUseCase
	SeguimientoUC    *usecase.SeguimientoUseCase
	AutocompletadoUC *usecase.AutocompletadoUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todo el dominio va detrás del Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestIDMiddleware())

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	cotizaciones := api.Group("/cotizaciones")
	cotizacionHandler := NewCotizacionHandler(deps.CotizacionUC)
	bitacoraHandler := NewBitacoraHandler(deps.BitacoraUC)
	seguimientoHandler := NewSeguimientoHandler(deps.SeguimientoUC)

	cotizaciones.Get("/", bitacoraHandler.List)
	cotizaciones.Get("/ordenar", bitacoraHandler.Sort)
	cotizaciones.Post("/", cotizacionHandler.Create)
	cotizaciones.Get("/patente/:patente", cotizacionHandler.GetByPatente)
	cotizaciones.Get("/:id", cotizacionHandler.GetByID)
	cotizaciones.Get("/:id/modificar", cotizacionHandler.GetParaModificar)
	cotizaciones.Put("/:id/vehiculo", cotizacionHandler.UpdateVehiculo)
	cotizaciones.Put("/:id/cliente", cotizacionHandler.UpdateCliente)
	cotizaciones.Put("/:id/condiciones", cotizacionHandler.UpdateCondiciones)
	cotizaciones.Get("/:id/seguimientos", seguimientoHandler.List)
	cotizaciones.Post("/:id/seguimientos", seguimientoHandler.Create)

	autocompletado := api.Group("/autocompletado")
	autocompletadoHandler := NewAutocompletadoHandler(deps.AutocompletadoUC)
	autocompletado.Get("/patente/:patente", autocompletadoHandler.InfoPatente)
	autocompletado.Get("/rut/:rut", autocompletadoHandler.InfoRut)

	vehiculos := api.Group("/vehiculos")
	vehiculos.Put("/", autocompletadoHandler.UpsertVehiculo)
}
