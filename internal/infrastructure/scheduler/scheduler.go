package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// Task trabajo periódico con nombre. El error de una corrida se registra y la
// tarea sigue programada; un pánico dentro de Fn no se rescata a propósito.
type Task struct {
	Nombre    string
	Intervalo time.Duration
	Fn        func(ctx context.Context) error
}

// Scheduler corre tareas periódicas en goroutines propias con parada limpia.
type Scheduler struct {
	log    *logger.Logger
	tareas []Task

	mu      sync.Mutex
	cancel  context.CancelFunc
	corrido sync.WaitGroup
}

func New(log *logger.Logger, tareas ...Task) *Scheduler {
	return &Scheduler{log: log, tareas: tareas}
}

// Start lanza todas las tareas. Cada una corre de inmediato una primera vez y
// después en su intervalo.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, t := range s.tareas {
		s.corrido.Add(1)
		go s.correr(ctx, t)
	}
}

func (s *Scheduler) correr(ctx context.Context, t Task) {
	defer s.corrido.Done()

	s.ejecutar(ctx, t)
	ticker := time.NewTicker(t.Intervalo)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ejecutar(ctx, t)
		}
	}
}

func (s *Scheduler) ejecutar(ctx context.Context, t Task) {
	inicio := time.Now()
	if err := t.Fn(ctx); err != nil {
		s.log.Error().Err(err).Str("tarea", t.Nombre).Msg("la tarea programada falló")
		return
	}
	s.log.Debug().Str("tarea", t.Nombre).Dur("duracion", time.Since(inicio)).Msg("tarea programada completada")
}

// Stop cancela las tareas y espera a que terminen las corridas en curso.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.corrido.Wait()
}
