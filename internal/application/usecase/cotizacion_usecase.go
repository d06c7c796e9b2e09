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

// NoAplica valor con el que el frontend marca un campo de vehículo sin dato;
// se reemplaza con el registro de referencia cuando existe.
const NoAplica = "N/A"

// CotizacionUseCase ciclo de vida de la cotización: alta inicial, pasos del
// asistente, consulta y elegibilidad de modificación.
type CotizacionUseCase struct {
	repo         repository.CotizacionRepository
	vehiculos    repository.VehiculoRepository
	auditoria    *audit.Writer
	diasVigencia int
}

// NewCotizacionUseCase construye el caso de uso.
func NewCotizacionUseCase(
	repo repository.CotizacionRepository,
	vehiculos repository.VehiculoRepository,
	auditoria *audit.Writer,
	diasVigencia int,
) *CotizacionUseCase {
	return &CotizacionUseCase{
		repo:         repo,
		vehiculos:    vehiculos,
		auditoria:    auditoria,
		diasVigencia: diasVigencia,
	}
}

// CrearInicial crea la cotización con todos los campos en centinela, estado
// EN_PROCESO y el siguiente número correlativo.
func (uc *CotizacionUseCase) CrearInicial(ctx context.Context, idCorredor string, actx audit.Contexto) (*entity.Cotizacion, error) {
	idCorredor = strings.TrimSpace(idCorredor)
	if idCorredor == "" {
		return nil, domain.NewValidacion("falta id_corredor para crear la cotización")
	}

	cot := entity.NuevaCotizacion(uuid.New().String(), 0, time.Now(), idCorredor)
	if err := uc.repo.Crear(ctx, cot); err != nil {
		// una colisión de correlativo llega como conflicto del repositorio
		// y debe conservar su estado para que el llamador pueda reintentar
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.NewInterno(fmt.Errorf("crear cotización: %w", err))
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "cotizacion.create",
		Entity:   "Cotizacion",
		EntityID: cot.ID,
		After:    audit.Instantanea(cot),
		Metadata: map[string]any{
			"n_cotizacion": cot.NCotizacion,
			"id_corredor":  idCorredor,
		},
	})
	return cot, nil
}

// ActualizarVehiculo aplica el paso vehículo como merge parcial atómico.
// Los campos enviados como "N/A" se completan desde el registro de
// referencia del vehículo cuando existe; si no, conservan el valor previo.
func (uc *CotizacionUseCase) ActualizarVehiculo(ctx context.Context, id string, patch entity.VehiculoPatch, actx audit.Contexto) (*entity.Cotizacion, error) {
	if id == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}

	antes, err := uc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if antes == nil {
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}

	if patch.Patente != nil {
		normalizada := domain.NormalizarPatente(*patch.Patente)
		patch.Patente = &normalizada
	}
	uc.completarDesdeRegistro(ctx, &patch)

	actualizada, err := uc.repo.ActualizarVehiculo(ctx, id, patch)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("actualizar vehículo: %w", err))
	}
	if actualizada == nil {
		return nil, domain.NewNoEncontrado("no se encontró la cotización a actualizar")
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "cotizacion.update.vehiculo",
		Entity:   "Cotizacion",
		EntityID: id,
		Before:   audit.Instantanea(antes.Vehiculo),
		After:    audit.Instantanea(actualizada.Vehiculo),
		Metadata: map[string]any{
			"n_cotizacion": antes.NCotizacion,
			"paso":         "vehiculo",
		},
	})
	return actualizada, nil
}

// completarDesdeRegistro sustituye los campos "N/A" del patch con el registro
// de referencia del vehículo. Un campo sin respaldo pasa a nil (conserva el
// valor previo del documento). Cualquier fallo de consulta se ignora: el
// registro es solo un respaldo.
func (uc *CotizacionUseCase) completarDesdeRegistro(ctx context.Context, patch *entity.VehiculoPatch) {
	esNA := func(v *string) bool {
		return v != nil && (strings.TrimSpace(*v) == "" || strings.EqualFold(strings.TrimSpace(*v), NoAplica))
	}
	if !esNA(patch.Color) && !esNA(patch.ValorComercial) && !esNA(patch.NumeroChasis) &&
		!esNA(patch.NumeroMotor) && !esNA(patch.TipoVehiculo) {
		return
	}

	var registro *entity.VehiculoRegistro
	if patch.Patente != nil {
		registro, _ = uc.vehiculos.ObtenerPorPatente(ctx, *patch.Patente)
	}

	respaldar := func(campo **string, valor string) {
		if !esNA(*campo) {
			return
		}
		if registro != nil && valor != "" {
			v := valor
			*campo = &v
			return
		}
		*campo = nil
	}
	var vacio entity.VehiculoRegistro
	if registro == nil {
		registro = &vacio
	}
	respaldar(&patch.Color, registro.Color)
	respaldar(&patch.ValorComercial, registro.ValorComercial)
	respaldar(&patch.NumeroChasis, registro.NumeroChasis)
	respaldar(&patch.NumeroMotor, registro.NumeroMotor)
	respaldar(&patch.TipoVehiculo, registro.TipoVehiculo)
}

// ActualizarCliente aplica el paso asegurado. El RUT es obligatorio y se
// almacena normalizado (sin puntos ni guiones, mayúsculas); el resto de los
// campos no enviados conserva su valor previo.
func (uc *CotizacionUseCase) ActualizarCliente(ctx context.Context, id string, patch entity.ClientePatch, actx audit.Contexto) (*entity.Cotizacion, error) {
	if id == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}

	antes, err := uc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if antes == nil {
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}

	if patch.RutCliente == nil || domain.NormalizarRut(*patch.RutCliente) == "" {
		return nil, domain.NewValidacion("el RUT es obligatorio")
	}
	rut := domain.NormalizarRut(*patch.RutCliente)
	patch.RutCliente = &rut

	actualizada, err := uc.repo.ActualizarCliente(ctx, id, patch)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("actualizar cliente: %w", err))
	}
	if actualizada == nil {
		return nil, domain.NewNoEncontrado("no se pudo actualizar la cotización")
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "cotizacion.update.cliente",
		Entity:   "Cotizacion",
		EntityID: id,
		Before:   audit.Instantanea(antes.Cliente),
		After:    audit.Instantanea(actualizada.Cliente),
		Metadata: map[string]any{
			"n_cotizacion": antes.NCotizacion,
			"paso":         "cliente",
			"rut":          rut,
		},
	})
	return actualizada, nil
}

// GuardarCondiciones aplica el paso 3: comentario recortado y tags sin vacíos.
func (uc *CotizacionUseCase) GuardarCondiciones(ctx context.Context, id string, req dto.CondicionesRequest, actx audit.Contexto) (*entity.Condiciones, error) {
	if id == "" {
		return nil, domain.NewValidacion("id_cotizacion requerido")
	}

	cond := entity.Condiciones{
		Comentario: strings.TrimSpace(req.Comentario),
		Tags:       make([]string, 0, len(req.Tags)),
	}
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			cond.Tags = append(cond.Tags, t)
		}
	}

	antes, err := uc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if antes == nil {
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}

	actualizada, err := uc.repo.ActualizarCondiciones(ctx, id, cond)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("guardar condiciones: %w", err))
	}
	if actualizada == nil || actualizada.Condiciones == nil {
		return nil, domain.NewInterno(fmt.Errorf("no se pudieron guardar las condiciones"))
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "condiciones.insertar",
		Entity:   "Cotizacion",
		EntityID: id,
		Before:   audit.Instantanea(antes.Condiciones),
		After:    audit.Instantanea(actualizada.Condiciones),
		Metadata: map[string]any{"id_cotizacion": id},
	})
	return actualizada.Condiciones, nil
}

// ObtenerPorID devuelve la cotización completa y el paso del asistente en el
// que quedó, para retomar la edición donde corresponde.
func (uc *CotizacionUseCase) ObtenerPorID(ctx context.Context, id string) (*dto.CotizacionConPaso, error) {
	if id == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}
	cot, err := uc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if cot == nil {
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}
	return &dto.CotizacionConPaso{Cotizacion: cot, PasoActual: cot.PasoActual()}, nil
}

// ObtenerVigentePorPatente busca la cotización no caducada asociada a la patente.
func (uc *CotizacionUseCase) ObtenerVigentePorPatente(ctx context.Context, patente string) (*dto.CotizacionConPaso, error) {
	patente = domain.NormalizarPatente(patente)
	if patente == "" {
		return nil, domain.NewValidacion("la patente es obligatoria")
	}
	cot, err := uc.repo.ObtenerVigentePorPatente(ctx, patente)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización por patente: %w", err))
	}
	if cot == nil {
		return nil, domain.NewNoEncontrado("no se encontró una cotización vigente para esta patente")
	}
	return &dto.CotizacionConPaso{Cotizacion: cot, PasoActual: cot.PasoActual()}, nil
}

// ParaModificar valida la elegibilidad de edición posterior: el actor debe
// ser dueño, el estado no puede ser terminal y la cotización debe seguir
// dentro de la ventana de vigencia. Los rechazos son errores de validación
// (4xx), nunca de servidor, y quedan auditados.
func (uc *CotizacionUseCase) ParaModificar(ctx context.Context, id string, actor domain.Actor, actx audit.Contexto) (*entity.Cotizacion, error) {
	if id == "" {
		return nil, domain.NewValidacion("falta id de la cotización")
	}

	cot, err := uc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, domain.NewInterno(fmt.Errorf("buscar cotización: %w", err))
	}
	if cot == nil {
		uc.auditoria.Log(actx, audit.Entrada{
			Action:   "cotizacion.get.notfound",
			Entity:   "Cotizacion",
			EntityID: id,
			Metadata: map[string]any{"userId": actor.ID},
		})
		return nil, domain.NewNoEncontrado("cotización no encontrada")
	}

	if cot.IDCorredor != actor.ID {
		uc.auditoria.Log(actx, audit.Entrada{
			Action:   "cotizacion.get.unauthorized",
			Entity:   "Cotizacion",
			EntityID: id,
			Metadata: map[string]any{"userId": actor.ID, "ownerId": cot.IDCorredor},
		})
		return nil, domain.NewNoAutorizado("no tienes permiso para modificar esta cotización")
	}

	if entity.EsEstadoEmitido(cot.Estado) {
		uc.auditoria.Log(actx, audit.Entrada{
			Action:   "cotizacion.modify.rejected.estado",
			Entity:   "Cotizacion",
			EntityID: id,
			Metadata: map[string]any{"estado": cot.Estado, "userId": actor.ID},
		})
		return nil, domain.NewConflicto("la cotización ya fue emitida y no puede modificarse")
	}

	fecha := cot.FechaDt
	if fecha == nil {
		if t, ok := domain.ParseFechaCotizacion(cot.FechaCotizacion); ok {
			fecha = &t
		}
	}
	if fecha == nil || time.Now().After(fecha.AddDate(0, 0, uc.diasVigencia)) {
		uc.auditoria.Log(actx, audit.Entrada{
			Action:   "cotizacion.modify.rejected.vigencia",
			Entity:   "Cotizacion",
			EntityID: id,
			Metadata: map[string]any{"fechaCotizacion": cot.FechaCotizacion, "userId": actor.ID},
		})
		return nil, domain.NewConflicto("la cotización está fuera de vigencia")
	}

	uc.auditoria.Log(actx, audit.Entrada{
		Action:   "cotizacion.get.modificar",
		Entity:   "Cotizacion",
		EntityID: id,
		After: map[string]any{
			"id":           cot.ID,
			"estado":       cot.Estado,
			"n_cotizacion": cot.NCotizacion,
		},
		Metadata: map[string]any{"userId": actor.ID},
	})
	return cot, nil
}
