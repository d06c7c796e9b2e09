package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/seguroscl/cotizador-api/internal/application/audit"
	"github.com/seguroscl/cotizador-api/internal/application/usecase"
	"github.com/seguroscl/cotizador-api/internal/infrastructure/email"
	"github.com/seguroscl/cotizador-api/internal/infrastructure/postgres"
	"github.com/seguroscl/cotizador-api/internal/infrastructure/scheduler"
	httpRouter "github.com/seguroscl/cotizador-api/internal/interfaces/http"
	"github.com/seguroscl/cotizador-api/pkg/config"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	cotizacionRepo := postgres.NewCotizacionRepository(pool)
	seguimientoRepo := postgres.NewSeguimientoRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	vehiculoRepo := postgres.NewVehiculoRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)

	auditoria := audit.NewWriter(auditRepo, log, 0)
	defer auditoria.Close()

	mailer := email.NewSMTPMailer(cfg.SMTP, log)

	cotizacionUC := usecase.NewCotizacionUseCase(cotizacionRepo, vehiculoRepo, auditoria, cfg.Cotizacion.DiasVigencia)
	bitacoraUC := usecase.NewBitacoraUseCase(cotizacionRepo, log)
	seguimientoUC := usecase.NewSeguimientoUseCase(cotizacionRepo, seguimientoRepo, auditoria)
	autocompletadoUC := usecase.NewAutocompletadoUseCase(cotizacionRepo, vehiculoRepo, auditoria)
	caducidadUC := usecase.NewCaducidadUseCase(cotizacionRepo, log, cfg.Cotizacion.DiasVigencia)
	recordatorioUC := usecase.NewRecordatorioUseCase(seguimientoRepo, usuarioRepo, mailer, log)

	tareas := scheduler.New(log,
		scheduler.Task{
			Nombre:    "caducar-cotizaciones",
			Intervalo: cfg.Cotizacion.IntervaloCaducidad,
			Fn: func(ctx context.Context) error {
				_, err := caducidadUC.CaducarVencidas(ctx)
				return err
			},
		},
		scheduler.Task{
			Nombre:    "enviar-recordatorios",
			Intervalo: cfg.Cotizacion.IntervaloRecordatorio,
			Fn: func(ctx context.Context) error {
				_, err := recordatorioUC.ProcesarRecordatorios(ctx)
				return err
			},
		},
	)
	tareas.Start()
	defer tareas.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CotizacionUC:     cotizacionUC,
		BitacoraUC:       bitacoraUC,
		SeguimientoUC:    seguimientoUC,
		AutocompletadoUC: autocompletadoUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
