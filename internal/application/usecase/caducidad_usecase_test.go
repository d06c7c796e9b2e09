package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

func TestCaducarVencidas(t *testing.T) {
	repo := newRepoCotizacionFake()
	vieja := cotizacionDe("vieja", "corredor-1", 1001, time.Now().AddDate(0, 0, -16))
	reciente := cotizacionDe("reciente", "corredor-1", 1002, time.Now().AddDate(0, 0, -14))
	sinFecha := cotizacionDe("sin-fecha", "corredor-1", 1003, time.Now().AddDate(0, 0, -30))
	sinFecha.FechaDt = nil
	sembrar(repo, vieja, reciente, sinFecha)

	uc := NewCaducidadUseCase(repo, logger.Nop(), 15)

	n, err := uc.CaducarVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "solo la cotización de 16 días caduca")

	assert.Equal(t, entity.EstadoCaducada, repo.porID["vieja"].Estado)
	assert.Equal(t, entity.EstadoEnProceso, repo.porID["reciente"].Estado, "14 días sigue vigente")
	assert.Equal(t, entity.EstadoEnProceso, repo.porID["sin-fecha"].Estado, "sin fecha interpretable no caduca por barrido")
}

// El barrido es idempotente: la segunda pasada no encuentra nada que cambiar.
func TestCaducarVencidas_Idempotente(t *testing.T) {
	repo := newRepoCotizacionFake()
	sembrar(repo, cotizacionDe("vieja", "corredor-1", 1001, time.Now().AddDate(0, 0, -20)))
	uc := NewCaducidadUseCase(repo, logger.Nop(), 15)

	n, err := uc.CaducarVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = uc.CaducarVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
