package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// repoAuditFake acumula las entradas persistidas; puede fallar a voluntad.
type repoAuditFake struct {
	mu       sync.Mutex
	entradas []*entity.AuditLog
	fallo    error
}

func (r *repoAuditFake) Crear(_ context.Context, e *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallo != nil {
		return r.fallo
	}
	r.entradas = append(r.entradas, e)
	return nil
}

func (r *repoAuditFake) todas() []*entity.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.AuditLog(nil), r.entradas...)
}

func TestWriter_PersisteEntradaConDiff(t *testing.T) {
	repo := &repoAuditFake{}
	w := NewWriter(repo, logger.Nop(), 8)

	w.Log(Contexto{ActorID: "u1", IP: "10.0.0.1", RequestID: "req-1"}, Entrada{
		Action:   "cotizacion.update.cliente",
		Entity:   "Cotizacion",
		EntityID: "cot-1",
		Before:   map[string]any{"nombre": "-"},
		After:    map[string]any{"nombre": "María"},
	})
	w.Close()

	entradas := repo.todas()
	require.Len(t, entradas, 1)
	e := entradas[0]
	assert.Equal(t, "u1", e.ActorID)
	assert.Equal(t, "cotizacion.update.cliente", e.Action)
	assert.Equal(t, "req-1", e.RequestID)
	require.NotNil(t, e.Metadata)

	diff, ok := e.Metadata["diff"].(DiffResultado)
	require.True(t, ok, "las actualizaciones llevan el diff en la metadata")
	assert.Contains(t, diff.Changed, "nombre")
}

func TestWriter_SinBeforeNoCalculaDiff(t *testing.T) {
	repo := &repoAuditFake{}
	w := NewWriter(repo, logger.Nop(), 8)

	w.Log(Contexto{ActorID: "u1"}, Entrada{
		Action:   "cotizacion.create",
		Entity:   "Cotizacion",
		EntityID: "cot-1",
		After:    map[string]any{"estado": "EN_PROCESO"},
	})
	w.Close()

	entradas := repo.todas()
	require.Len(t, entradas, 1)
	if entradas[0].Metadata != nil {
		assert.NotContains(t, entradas[0].Metadata, "diff")
	}
}

// Un fallo de persistencia jamás llega al llamador: Log no devuelve error y
// el resto de la operación sigue su curso.
func TestWriter_FalloDePersistenciaSeTraga(t *testing.T) {
	repo := &repoAuditFake{fallo: errors.New("db caída")}
	w := NewWriter(repo, logger.Nop(), 8)

	assert.NotPanics(t, func() {
		w.Log(Contexto{}, Entrada{Action: "x", Entity: "Y", EntityID: "1"})
		w.Close()
	})
	assert.Empty(t, repo.todas())
}

// La cola llena descarta en vez de bloquear al productor.
func TestWriter_ColaLlenaNoBloquea(t *testing.T) {
	repo := &repoAuditFake{}
	w := NewWriter(repo, logger.Nop(), 1)

	hecho := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			w.Log(Contexto{}, Entrada{Action: "a", Entity: "E", EntityID: "1"})
		}
		close(hecho)
	}()

	select {
	case <-hecho:
	case <-time.After(2 * time.Second):
		t.Fatal("Log bloqueó con la cola llena")
	}
	w.Close()
}

func TestWriter_CloseDrenaPendientes(t *testing.T) {
	repo := &repoAuditFake{}
	w := NewWriter(repo, logger.Nop(), 16)

	for i := 0; i < 5; i++ {
		w.Log(Contexto{}, Entrada{Action: "a", Entity: "E", EntityID: "1"})
	}
	w.Close()

	assert.Len(t, repo.todas(), 5, "Close espera a que se persista lo encolado")
}
