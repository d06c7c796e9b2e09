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

func nuevoAutocompletadoUC(t *testing.T) (*AutocompletadoUseCase, *repoCotizacionFake, *repoVehiculoFake) {
	t.Helper()
	cotizaciones := newRepoCotizacionFake()
	vehiculos := newRepoVehiculoFake()
	w, _ := nuevoWriterDePrueba()
	t.Cleanup(w.Close)
	return NewAutocompletadoUseCase(cotizaciones, vehiculos, w), cotizaciones, vehiculos
}

func TestInfoPatente_ConCotizacionVigenteEsConflicto(t *testing.T) {
	uc, cotizaciones, _ := nuevoAutocompletadoUC(t)
	ctx := context.Background()

	cot := cotizacionDe("cot-1", "corredor-1", 1042, time.Now())
	cot.Vehiculo.Patente = "ABCD12"
	sembrar(cotizaciones, cot)

	_, err := uc.InfoPatente(ctx, "abcd12")
	require.Error(t, err)
	derr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 409, derr.Status)
	assert.Contains(t, derr.Mensaje, "#1042", "el conflicto informa el número de la cotización vigente")
}

func TestInfoPatente_ConRegistroPrecarga(t *testing.T) {
	uc, _, vehiculos := nuevoAutocompletadoUC(t)
	ctx := context.Background()

	_, err := vehiculos.Upsert(ctx, &entity.VehiculoRegistro{
		ID: "v1", Patente: "ABCD12", Marca: "Toyota", Modelo: "Yaris", Anio: 2020,
	})
	require.NoError(t, err)

	out, err := uc.InfoPatente(ctx, "ABCD12")
	require.NoError(t, err)
	require.NotNil(t, out.Vehiculo)
	assert.Equal(t, "Toyota", out.Vehiculo.Marca)
	assert.True(t, out.Encontrado)
	assert.False(t, out.MostrarFormulario)
}

func TestInfoPatente_SinDatosMuestraFormulario(t *testing.T) {
	uc, _, _ := nuevoAutocompletadoUC(t)

	out, err := uc.InfoPatente(context.Background(), "ZZZZ99")
	require.NoError(t, err)
	assert.True(t, out.MostrarFormulario)
	assert.Nil(t, out.Vehiculo)

	// patente vacía también cae al formulario, sin error
	out, err = uc.InfoPatente(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, out.MostrarFormulario)
}

func TestInfoRut(t *testing.T) {
	uc, cotizaciones, _ := nuevoAutocompletadoUC(t)
	ctx := context.Background()

	cot := cotizacionDe("cot-1", "corredor-1", 1001, time.Now())
	cot.Cliente.RutCliente = "123456789"
	cot.Cliente.Nombre = "María"
	sembrar(cotizaciones, cot)

	out, err := uc.InfoRut(ctx, "12.345.678-9")
	require.NoError(t, err)
	require.NotNil(t, out.Cliente)
	assert.Equal(t, "María", out.Cliente.Nombre)
	assert.True(t, out.Encontrado)

	out, err = uc.InfoRut(ctx, "99.999.999-9")
	require.NoError(t, err)
	assert.True(t, out.MostrarFormulario)
	assert.False(t, out.Encontrado)

	_, err = uc.InfoRut(ctx, "   ")
	require.Error(t, err)
	derr, _ := domain.AsError(err)
	assert.Equal(t, 400, derr.Status)
}

func TestActualizarOCrearVehiculo(t *testing.T) {
	uc, _, vehiculos := nuevoAutocompletadoUC(t)
	ctx := context.Background()

	out, err := uc.ActualizarOCrearVehiculo(ctx, dto.GuardarVehiculoRequest{
		Patente: "abcd12", Marca: " Toyota ", Modelo: "Yaris", Anio: 2020,
	}, audit.Contexto{})
	require.NoError(t, err)
	assert.True(t, out.Creado)
	assert.Equal(t, "ABCD12", out.Vehiculo.Patente)
	assert.Equal(t, "Toyota", out.Vehiculo.Marca)

	// segunda escritura sobre la misma patente es actualización
	out, err = uc.ActualizarOCrearVehiculo(ctx, dto.GuardarVehiculoRequest{
		Patente: "ABCD12", Marca: "Toyota", Modelo: "Corolla", Anio: 2021,
	}, audit.Contexto{})
	require.NoError(t, err)
	assert.False(t, out.Creado)
	assert.Equal(t, "Corolla", vehiculos.porPatente["ABCD12"].Modelo)
}

func TestActualizarOCrearVehiculo_Validaciones(t *testing.T) {
	uc, _, _ := nuevoAutocompletadoUC(t)
	ctx := context.Background()

	casos := []dto.GuardarVehiculoRequest{
		{Marca: "Toyota", Modelo: "Yaris", Anio: 2020},             // sin patente
		{Patente: "ABCD12", Modelo: "Yaris", Anio: 2020},           // sin marca
		{Patente: "ABCD12", Marca: "Toyota", Anio: 2020},           // sin modelo
		{Patente: "ABCD12", Marca: "Toyota", Modelo: "Y", Anio: 3}, // año absurdo
	}
	for _, req := range casos {
		_, err := uc.ActualizarOCrearVehiculo(ctx, req, audit.Contexto{})
		require.Error(t, err)
		derr, _ := domain.AsError(err)
		assert.Equal(t, 400, derr.Status)
	}
}
