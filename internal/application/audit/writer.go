package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// Contexto identifica al actor y la petición que origina una entrada.
// ActorID vacío denota una acción del sistema (barridos, recordatorios).
type Contexto struct {
	ActorID   string
	IP        string
	UserAgent string
	RequestID string
}

// Entrada es lo que el llamador aporta; el writer completa id, fecha y diff.
type Entrada struct {
	Action   string
	Entity   string
	EntityID string
	Before   map[string]any
	After    map[string]any
	Metadata map[string]any
}

const colaPorDefecto = 256

// Writer registra entradas de auditoría de mejor esfuerzo: una cola acotada
// drenada por una goroutine dedicada. Log nunca bloquea ni falla hacia el
// llamador; una cola llena o un error de persistencia solo se registran en
// el log. Las entradas jamás se modifican después de escritas.
type Writer struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
	cola chan *entity.AuditLog

	cierre  sync.Once
	drenado sync.WaitGroup
}

// NewWriter construye el writer. tamCola <= 0 usa el tamaño por defecto.
func NewWriter(repo repository.AuditLogRepository, log *logger.Logger, tamCola int) *Writer {
	if tamCola <= 0 {
		tamCola = colaPorDefecto
	}
	w := &Writer{
		repo: repo,
		log:  log,
		cola: make(chan *entity.AuditLog, tamCola),
	}
	w.drenado.Add(1)
	go w.drenar()
	return w
}

// Log encola una entrada de auditoría. Para operaciones de actualización
// (before y after presentes) calcula el diff de campos y lo adjunta a la
// metadata. No bloquea: si la cola está llena la entrada se descarta con un
// aviso en el log, sin afectar jamás a la operación principal.
func (w *Writer) Log(ctx Contexto, e Entrada) {
	registro := &entity.AuditLog{
		ID:        uuid.New().String(),
		ActorID:   ctx.ActorID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Before:    e.Before,
		After:     e.After,
		Metadata:  e.Metadata,
		IP:        ctx.IP,
		UserAgent: ctx.UserAgent,
		RequestID: ctx.RequestID,
		CreatedAt: time.Now(),
	}

	if e.Before != nil && e.After != nil {
		if d := Diff(e.Before, e.After); !d.Vacio() {
			if registro.Metadata == nil {
				registro.Metadata = map[string]any{}
			}
			registro.Metadata["diff"] = d
		}
	}

	select {
	case w.cola <- registro:
	default:
		w.log.Warn().
			Str("action", e.Action).
			Str("entity", e.Entity).
			Msg("auditoría: cola llena, entrada descartada")
	}
}

func (w *Writer) drenar() {
	defer w.drenado.Done()
	for registro := range w.cola {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := w.repo.Crear(ctx, registro)
		cancel()
		if err != nil {
			w.log.Error().Err(err).
				Str("action", registro.Action).
				Str("entity", registro.Entity).
				Msg("auditoría: fallo al persistir entrada")
		}
	}
}

// Close drena lo pendiente y detiene la goroutine de escritura.
func (w *Writer) Close() {
	w.cierre.Do(func() {
		close(w.cola)
	})
	w.drenado.Wait()
}
