package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguroscl/cotizador-api/internal/application/audit"
	"github.com/seguroscl/cotizador-api/internal/application/dto"
	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

func nuevoCotizacionUC(t *testing.T) (*CotizacionUseCase, *repoCotizacionFake, *repoVehiculoFake) {
	t.Helper()
	repo := newRepoCotizacionFake()
	vehiculos := newRepoVehiculoFake()
	w, _ := nuevoWriterDePrueba()
	t.Cleanup(w.Close)
	return NewCotizacionUseCase(repo, vehiculos, w, 15), repo, vehiculos
}

func TestCrearInicial_AsignaCorrelativoYEstado(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	primera, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)
	segunda, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	assert.Equal(t, int64(1001), primera.NCotizacion, "la numeración parte en 1001")
	assert.Equal(t, int64(1002), segunda.NCotizacion)
	assert.Equal(t, entity.EstadoEnProceso, primera.Estado)
	assert.Equal(t, entity.PasoVehiculo, primera.PasoActual(), "recién creada queda en el primer paso")
}

func TestCrearInicial_SinCorredorEsValidacion(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)

	_, err := uc.CrearInicial(context.Background(), "  ", audit.Contexto{})
	require.Error(t, err)
	derr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 400, derr.Status)
}

func TestCrearInicial_ConflictoDeCorrelativoConservaElEstado(t *testing.T) {
	uc, repo, _ := nuevoCotizacionUC(t)
	repo.fallo = domain.NewConflicto("el número de cotización ya fue tomado")

	_, err := uc.CrearInicial(context.Background(), "corredor-1", audit.Contexto{})
	require.Error(t, err)
	derr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 409, derr.Status, "la colisión de correlativo no se degrada a error interno")
	assert.True(t, derr.Expose)
}

func TestActualizarVehiculo_AvanzaElPaso(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	patente, marca, modelo := "abcd12", "Toyota", "Yaris"
	actualizada, err := uc.ActualizarVehiculo(ctx, cot.ID, entity.VehiculoPatch{
		Patente: &patente, Marca: &marca, Modelo: &modelo,
	}, audit.Contexto{})
	require.NoError(t, err)

	assert.Equal(t, "ABCD12", actualizada.Vehiculo.Patente, "la patente se guarda normalizada")
	assert.Equal(t, entity.PasoAsegurado, actualizada.PasoActual())
}

func TestActualizarVehiculo_NoAplicaUsaRegistro(t *testing.T) {
	uc, _, vehiculos := nuevoCotizacionUC(t)
	ctx := context.Background()

	_, err := vehiculos.Upsert(ctx, &entity.VehiculoRegistro{
		ID: "v1", Patente: "ABCD12", Marca: "Toyota", Modelo: "Yaris", Color: "rojo",
	})
	require.NoError(t, err)

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	patente, marca, color := "ABCD12", "Toyota", "N/A"
	actualizada, err := uc.ActualizarVehiculo(ctx, cot.ID, entity.VehiculoPatch{
		Patente: &patente, Marca: &marca, Color: &color,
	}, audit.Contexto{})
	require.NoError(t, err)

	assert.Equal(t, "rojo", actualizada.Vehiculo.Color, "N/A se completa desde el registro de referencia")
}

func TestActualizarVehiculo_NoAplicaSinRegistroConservaPrevio(t *testing.T) {
	uc, repo, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)
	repo.porID[cot.ID].Vehiculo.Color = "azul"

	patente, color := "ZZZZ99", "N/A"
	actualizada, err := uc.ActualizarVehiculo(ctx, cot.ID, entity.VehiculoPatch{
		Patente: &patente, Color: &color,
	}, audit.Contexto{})
	require.NoError(t, err)

	assert.Equal(t, "azul", actualizada.Vehiculo.Color, "sin registro de respaldo el valor previo se conserva")
}

func TestActualizarCliente_RutObligatorio(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	nombre := "María"
	_, err = uc.ActualizarCliente(ctx, cot.ID, entity.ClientePatch{Nombre: &nombre}, audit.Contexto{})
	require.Error(t, err)
	derr, _ := domain.AsError(err)
	assert.Equal(t, 400, derr.Status)

	rut := "12.345.678-9"
	actualizada, err := uc.ActualizarCliente(ctx, cot.ID, entity.ClientePatch{
		RutCliente: &rut, Nombre: &nombre,
	}, audit.Contexto{})
	require.NoError(t, err)
	assert.Equal(t, "123456789", actualizada.Cliente.RutCliente, "el RUT se guarda sin puntos ni guiones")
	assert.Equal(t, "María", actualizada.Cliente.Nombre)
}

func TestGuardarCondiciones_Normaliza(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	cond, err := uc.GuardarCondiciones(ctx, cot.ID, dto.CondicionesRequest{
		Comentario: "  cliente apurado  ",
		Tags:       []string{" urgente ", "", "  ", "renovación"},
	}, audit.Contexto{})
	require.NoError(t, err)

	assert.Equal(t, "cliente apurado", cond.Comentario)
	assert.Equal(t, []string{"urgente", "renovación"}, cond.Tags)
}

func TestObtenerPorID_NoExiste(t *testing.T) {
	uc, _, _ := nuevoCotizacionUC(t)

	_, err := uc.ObtenerPorID(context.Background(), "no-existe")
	require.Error(t, err)
	derr, _ := domain.AsError(err)
	assert.Equal(t, 404, derr.Status)
}

func TestParaModificar_Rechazos(t *testing.T) {
	uc, repo, _ := nuevoCotizacionUC(t)
	ctx := context.Background()
	duenio := domain.Actor{ID: "corredor-1", Rol: "corredor"}

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)

	t.Run("actor que no es dueño", func(t *testing.T) {
		otro := domain.Actor{ID: "corredor-2", Rol: "corredor"}
		_, err := uc.ParaModificar(ctx, cot.ID, otro, audit.Contexto{})
		require.Error(t, err)
		derr, _ := domain.AsError(err)
		assert.Equal(t, 403, derr.Status)
	})

	t.Run("estado emitido bloquea", func(t *testing.T) {
		repo.porID[cot.ID].Estado = "EMITIDA"
		_, err := uc.ParaModificar(ctx, cot.ID, duenio, audit.Contexto{})
		require.Error(t, err)
		derr, _ := domain.AsError(err)
		assert.Equal(t, 409, derr.Status)
		repo.porID[cot.ID].Estado = entity.EstadoEnProceso
	})

	t.Run("fuera de vigencia bloquea", func(t *testing.T) {
		vieja := time.Now().AddDate(0, 0, -16)
		repo.porID[cot.ID].FechaDt = &vieja
		_, err := uc.ParaModificar(ctx, cot.ID, duenio, audit.Contexto{})
		require.Error(t, err)
		derr, _ := domain.AsError(err)
		assert.Equal(t, 409, derr.Status)
	})

	t.Run("vigente y propia pasa", func(t *testing.T) {
		reciente := time.Now().AddDate(0, 0, -3)
		repo.porID[cot.ID].FechaDt = &reciente
		obtenida, err := uc.ParaModificar(ctx, cot.ID, duenio, audit.Contexto{})
		require.NoError(t, err)
		assert.Equal(t, cot.ID, obtenida.ID)
	})

	t.Run("inexistente es 404", func(t *testing.T) {
		_, err := uc.ParaModificar(ctx, "nada", duenio, audit.Contexto{})
		require.Error(t, err)
		derr, _ := domain.AsError(err)
		assert.Equal(t, 404, derr.Status)
	})
}

func TestObtenerVigentePorPatente(t *testing.T) {
	uc, repo, _ := nuevoCotizacionUC(t)
	ctx := context.Background()

	cot, err := uc.CrearInicial(ctx, "corredor-1", audit.Contexto{})
	require.NoError(t, err)
	repo.porID[cot.ID].Vehiculo.Patente = "ABCD12"

	conPaso, err := uc.ObtenerVigentePorPatente(ctx, "abcd12")
	require.NoError(t, err)
	assert.Equal(t, cot.ID, conPaso.Cotizacion.ID)

	_, err = uc.ObtenerVigentePorPatente(ctx, "NOPE99")
	require.Error(t, err)
	derr, _ := domain.AsError(err)
	assert.Equal(t, 404, derr.Status)
}
