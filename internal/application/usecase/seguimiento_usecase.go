package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seguroscl/cotizador-api/internal/application/audit"
	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

// SeguimientoUseCase interacciones registradas sobre una cotización:
// llamadas, correos, notas y recordatorios programados.
type SeguimientoUseCase struct {
	cotizaciones repository.CotizacionRepository
	seguimientos repository.SeguimientoRepository
	auditoria    *audit.Writer
}

func NewSeguimientoUseCase(
	cotizaciones repository.CotizacionRepository,
	seguimientos repository.SeguimientoRepository,
	auditoria *audit.Writer,
) *SeguimientoUseCase {
	return &SeguimientoUseCase{
		cotizaciones: cotizaciones,
		seguimientos: seguimientos,
		auditoria:    auditoria,
	}
}

// Crear registra un seguimiento sobre la cotización. Un recordatorio exige
// fecha futura de aviso; el resto de los tipos la ignora.
func (uc *SeguimientoUseCase) Crear(ctx context.Context, idCotizacion, idUser string, req dto.CrearSeguimientoRequest, actx audit.Contexto) (*entity.Seguimiento, error) {
	if idCotizacion == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}
	tipo := strings.ToLower(strings.TrimSpace(req.Tipo))
	if !entity.TipoSeguimientoValido(tipo) {
		return nil, domain.NewValidacion("tipo de seguimiento inválido: %s", req.Tipo)
	}
	descripcion := strings.TrimSpace(req.Descripcion)
	if descripcion == "" {
		return nil, domain.NewValidacion("la descripción es obligatoria")
	}

	cot, err := uc.cotizaciones.ObtenerPorID(ctx, idCotizacion)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if cot == nil {
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}

	ahora := time.Now()
	seg := &entity.Seguimiento{
		ID:           uuid.New().String(),
		IDCotizacion: idCotizacion,
		Tipo:         tipo,
		Descripcion:  descripcion,
		FCreacion:    ahora.Format(domain.LayoutFechaHoraCorta),
		IDUser:       idUser,
		CreatedAt:    ahora,
	}
	if tipo == entity.TipoRecordatorio {
		if req.FRecordatorio == "" {
			return nil, domain.NewValidacion("un recordatorio requiere f_recordatorio")
		}
		cuando, ok := domain.ParseFechaCotizacion(req.FRecordatorio)
		if !ok {
			return nil, domain.NewValidacion("f_recordatorio con formato inválido: %s", req.FRecordatorio)
		}
		if !cuando.After(ahora) {
			return nil, domain.NewValidacion("f_recordatorio debe ser una fecha futura")
		}
		seg.FRecordatorio = &cuando
	}

	if err := uc.seguimientos.Crear(ctx, seg); err != nil {
		return nil, domain.NewInterno(fmt.Errorf("crear seguimiento: %w", err))
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "seguimiento.create",
		Entity:   "Seguimiento",
		EntityID: seg.ID,
		After:    audit.Instantanea(seg),
		Metadata: map[string]any{
			"id_cotizacion": idCotizacion,
			"tipo":          tipo,
		},
	})
	return seg, nil
}

// ListarPorCotizacion devuelve los seguimientos más recientes primero.
func (uc *SeguimientoUseCase) ListarPorCotizacion(ctx context.Context, idCotizacion string) ([]*entity.Seguimiento, error) {
	if idCotizacion == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}
	datos, err := uc.seguimientos.ListarPorCotizacion(ctx, idCotizacion)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("listar seguimientos: %w", err))
	}
	if datos == nil {
		datos = []*entity.Seguimiento{}
	}
	return datos, nil
}
