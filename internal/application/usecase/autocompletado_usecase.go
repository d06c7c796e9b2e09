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

// AutocompletadoUseCase precarga de formularios del asistente: datos de
// vehículo por patente, datos de cliente por RUT y mantención del registro
// de referencia de vehículos.
type AutocompletadoUseCase struct {
	cotizaciones repository.CotizacionRepository
	vehiculos    repository.VehiculoRepository
	auditoria    *audit.Writer
}

func NewAutocompletadoUseCase(
	cotizaciones repository.CotizacionRepository,
	vehiculos repository.VehiculoRepository,
	auditoria *audit.Writer,
) *AutocompletadoUseCase {
	return &AutocompletadoUseCase{
		cotizaciones: cotizaciones,
		vehiculos:    vehiculos,
		auditoria:    auditoria,
	}
}

// InfoPatente resuelve qué hacer cuando el corredor digita una patente:
// si existe una cotización vigente para ella devuelve conflicto con el
// número, si hay registro de referencia devuelve los datos para precargar
// y si no hay nada indica mostrar el formulario vacío.
func (uc *AutocompletadoUseCase) InfoPatente(ctx context.Context, patente string) (*dto.InfoPatenteResponse, error) {
	patente = domain.NormalizarPatente(patente)
	if patente == "" {
		return &dto.InfoPatenteResponse{MostrarFormulario: true}, nil
	}

	vigente, err := uc.cotizaciones.ObtenerVigentePorPatente(ctx, patente)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización vigente: %w", err))
	}
	if vigente != nil {
		return nil, domain.NewConflicto(
			"Tu cotización está en proceso aún, no puedes cotizar de nuevo este vehículo (Cotización #%d)",
			vigente.NCotizacion,
		)
	}

	registro, err := uc.vehiculos.ObtenerPorPatente(ctx, patente)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar vehículo: %w", err))
	}
	if registro == nil {
		return &dto.InfoPatenteResponse{MostrarFormulario: true}, nil
	}
	return &dto.InfoPatenteResponse{Encontrado: true, Vehiculo: registro}, nil
}

// InfoRut busca los datos del cliente en cotizaciones anteriores para
// precargar el paso asegurado.
func (uc *AutocompletadoUseCase) InfoRut(ctx context.Context, rut string) (*dto.InfoRutResponse, error) {
	limpio := domain.NormalizarRut(rut)
	if limpio == "" {
		return nil, domain.NewValidacion("el RUT es obligatorio")
	}
	cliente, err := uc.cotizaciones.BuscarClientePorRut(ctx, limpio)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cliente por rut: %w", err))
	}
	if cliente == nil {
		return &dto.InfoRutResponse{MostrarFormulario: true}, nil
	}
	return &dto.InfoRutResponse{Encontrado: true, Cliente: cliente}, nil
}

// ActualizarOCrearVehiculo mantiene el registro de referencia por patente.
// Crea el registro si no existe y lo sobreescribe si ya estaba.
func (uc *AutocompletadoUseCase) ActualizarOCrearVehiculo(ctx context.Context, req dto.GuardarVehiculoRequest, actx audit.Contexto) (*dto.GuardarVehiculoResponse, error) {
	patente := domain.NormalizarPatente(req.Patente)
	if patente == "" {
		return nil, domain.NewValidacion("la patente es obligatoria")
	}
	if strings.TrimSpace(req.Marca) == "" || strings.TrimSpace(req.Modelo) == "" {
		return nil, domain.NewValidacion("marca y modelo son obligatorios")
	}
	if req.Anio < entity.AnioPorDefecto {
		return nil, domain.NewValidacion("año de vehículo inválido: %d", req.Anio)
	}

	previo, err := uc.vehiculos.ObtenerPorPatente(ctx, patente)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar vehículo: %w", err))
	}

	ahora := time.Now()
	registro := &entity.VehiculoRegistro{
		ID:             uuid.New().String(),
		Patente:        patente,
		Marca:          strings.TrimSpace(req.Marca),
		Modelo:         strings.TrimSpace(req.Modelo),
		Anio:           req.Anio,
		TipoVehiculo:   strings.TrimSpace(req.TipoVehiculo),
		Color:          strings.TrimSpace(req.Color),
		ValorComercial: strings.TrimSpace(req.ValorComercial),
		NumeroChasis:   strings.TrimSpace(req.NumeroChasis),
		NumeroMotor:    strings.TrimSpace(req.NumeroMotor),
		CreatedAt:      ahora,
		UpdatedAt:      ahora,
	}
	if previo != nil {
		registro.ID = previo.ID
		registro.CreatedAt = previo.CreatedAt
	}

	creado, err := uc.vehiculos.Upsert(ctx, registro)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("guardar vehículo: %w", err))
	}

	accion := "vehiculo.update"
	if creado {
		accion = "vehiculo.create"
	}
	entrada := audit.Entrada{
		Action:   accion,
		Entity:   "Vehiculo",
		EntityID: registro.ID,
		After:    audit.Instantanea(registro),
		Metadata: map[string]any{"patente": patente},
	}
	if previo != nil {
		entrada.Before = audit.Instantanea(previo)
	}
	uc.auditoria.Log(actx, entrada)

	return &dto.GuardarVehiculoResponse{Vehiculo: registro, Creado: creado}, nil
}
