package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// RecordatorioUseCase despacho de recordatorios vencidos por correo. Cada
// envío se marca de forma individual: un fallo no detiene la tanda y el
// seguimiento fallido queda pendiente para el siguiente ciclo.
type RecordatorioUseCase struct {
	seguimientos repository.SeguimientoRepository
	usuarios     repository.UsuarioRepository
	mailer       Mailer
	log          *logger.Logger
}

func NewRecordatorioUseCase(
	seguimientos repository.SeguimientoRepository,
	usuarios repository.UsuarioRepository,
	mailer Mailer,
	log *logger.Logger,
) *RecordatorioUseCase {
	return &RecordatorioUseCase{
		seguimientos: seguimientos,
		usuarios:     usuarios,
		mailer:       mailer,
		log:          log,
	}
}

// ProcesarRecordatorios envía los recordatorios cuya fecha de aviso ya pasó.
// Devuelve cuántos se enviaron con éxito.
func (uc *RecordatorioUseCase) ProcesarRecordatorios(ctx context.Context) (int, error) {
	pendientes, err := uc.seguimientos.ListarPendientes(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("listar recordatorios pendientes: %w", err)
	}

	enviados := 0
	for _, seg := range pendientes {
		if err := uc.enviarUno(ctx, seg); err != nil {
			uc.log.Error().Err(err).
				Str("seguimiento_id", seg.ID).
				Str("id_cotizacion", seg.IDCotizacion).
				Msg("fallo el envío del recordatorio")
			if regErr := uc.seguimientos.RegistrarErrorEnvio(ctx, seg.ID, err.Error()); regErr != nil {
				uc.log.Error().Err(regErr).Str("seguimiento_id", seg.ID).Msg("no se pudo registrar el error de envío")
			}
			continue
		}
		enviados++
	}
	if len(pendientes) > 0 {
		uc.log.Info().Int("pendientes", len(pendientes)).Int("enviados", enviados).Msg("tanda de recordatorios procesada")
	}
	return enviados, nil
}

func (uc *RecordatorioUseCase) enviarUno(ctx context.Context, seg *entity.Seguimiento) error {
	usuario, err := uc.usuarios.ObtenerPorID(ctx, seg.IDUser)
	if err != nil {
		return fmt.Errorf("buscar usuario %s: %w", seg.IDUser, err)
	}
	if usuario == nil || usuario.Email == "" {
		return fmt.Errorf("el usuario %s no tiene correo registrado", seg.IDUser)
	}

	asunto := "Recordatorio de cotización"
	cuando := ""
	if seg.FRecordatorio != nil {
		cuando = seg.FRecordatorio.Format(domain.LayoutFechaHoraCorta)
	}
	cuerpo := fmt.Sprintf(
		"<p>Hola %s,</p><p>Tienes un recordatorio programado para el %s:</p><blockquote>%s</blockquote><p>Cotización: %s</p>",
		usuario.Nombre, cuando, seg.Descripcion, seg.IDCotizacion,
	)

	if err := uc.mailer.Enviar(ctx, usuario.Email, asunto, cuerpo); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", usuario.Email, err)
	}
	if err := uc.seguimientos.MarcarEnviado(ctx, seg.ID, time.Now()); err != nil {
		return fmt.Errorf("marcar recordatorio enviado: %w", err)
	}
	return nil
}
