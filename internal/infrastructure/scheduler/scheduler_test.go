package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seguroscl/cotizador-api/pkg/logger"
)

func esperarConteo(t *testing.T, n *atomic.Int64, minimo int64) {
	t.Helper()
	plazo := time.After(2 * time.Second)
	for n.Load() < minimo {
		select {
		case <-plazo:
			t.Fatalf("se esperaban al menos %d corridas, hubo %d", minimo, n.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestScheduler_CorreInmediatoYPorIntervalo(t *testing.T) {
	var corridas atomic.Int64
	s := New(logger.Nop(), Task{
		Nombre:    "prueba",
		Intervalo: 20 * time.Millisecond,
		Fn: func(context.Context) error {
			corridas.Add(1)
			return nil
		},
	})

	s.Start()
	defer s.Stop()

	// la primera corrida no espera el intervalo
	esperarConteo(t, &corridas, 1)
	esperarConteo(t, &corridas, 3)
}

func TestScheduler_UnErrorNoDetieneLaTarea(t *testing.T) {
	var corridas atomic.Int64
	s := New(logger.Nop(), Task{
		Nombre:    "con-fallos",
		Intervalo: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			if corridas.Add(1) == 1 {
				return errors.New("fallo transitorio")
			}
			return nil
		},
	})

	s.Start()
	defer s.Stop()

	esperarConteo(t, &corridas, 3)
}

func TestScheduler_StopEsperaYEsIdempotente(t *testing.T) {
	var corridas atomic.Int64
	s := New(logger.Nop(), Task{
		Nombre:    "detenible",
		Intervalo: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			corridas.Add(1)
			return nil
		},
	})

	s.Start()
	esperarConteo(t, &corridas, 1)
	s.Stop()

	quedo := corridas.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, quedo, corridas.Load(), "después de Stop no hay corridas nuevas")

	// segundo Stop y Start repetido no hacen daño
	s.Stop()
	s.Start()
	defer s.Stop()
	esperarConteo(t, &corridas, quedo+1)
}
