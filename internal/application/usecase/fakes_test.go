package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/seguroscl/cotizador-api/internal/application/audit"
	"github.com/seguroscl/cotizador-api/internal/domain"
	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// repoCotizacionFake implementación en memoria del puerto de cotizaciones.
type repoCotizacionFake struct {
	mu           sync.Mutex
	porID        map[string]*entity.Cotizacion
	fallo        error
	ultimoFiltro domain.CotizacionFiltro
}

func newRepoCotizacionFake() *repoCotizacionFake {
	return &repoCotizacionFake{porID: map[string]*entity.Cotizacion{}}
}

var _ repository.CotizacionRepository = (*repoCotizacionFake)(nil)

func (r *repoCotizacionFake) Crear(_ context.Context, c *entity.Cotizacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallo != nil {
		return r.fallo
	}
	var max int64 = entity.NumeroCotizacionBase
	for _, otro := range r.porID {
		if otro.NCotizacion > max {
			max = otro.NCotizacion
		}
	}
	c.NCotizacion = max + 1
	r.porID[c.ID] = c
	return nil
}

func (r *repoCotizacionFake) ObtenerPorID(_ context.Context, id string) (*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallo != nil {
		return nil, r.fallo
	}
	return r.porID[id], nil
}

func (r *repoCotizacionFake) ObtenerVigentePorPatente(_ context.Context, patente string) (*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.porID {
		if c.Estado == entity.EstadoEnProceso && c.Vehiculo != nil &&
			strings.EqualFold(c.Vehiculo.Patente, patente) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *repoCotizacionFake) ActualizarVehiculo(_ context.Context, id string, patch entity.VehiculoPatch) (*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.porID[id]
	if !ok {
		return nil, nil
	}
	var base entity.Vehiculo
	if c.Vehiculo != nil {
		base = *c.Vehiculo
	}
	nuevo := patch.Aplicar(base)
	c.Vehiculo = &nuevo
	return c, nil
}

func (r *repoCotizacionFake) ActualizarCliente(_ context.Context, id string, patch entity.ClientePatch) (*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.porID[id]
	if !ok {
		return nil, nil
	}
	var base entity.Cliente
	if c.Cliente != nil {
		base = *c.Cliente
	}
	nuevo := patch.Aplicar(base)
	c.Cliente = &nuevo
	return c, nil
}

func (r *repoCotizacionFake) ActualizarCondiciones(_ context.Context, id string, cond entity.Condiciones) (*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.porID[id]
	if !ok {
		return nil, nil
	}
	c.Condiciones = &cond
	return c, nil
}

func (r *repoCotizacionFake) ListarPaginado(_ context.Context, f domain.CotizacionFiltro, page, limit int) ([]*entity.Cotizacion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallo != nil {
		return nil, 0, r.fallo
	}
	r.ultimoFiltro = f

	var visibles []*entity.Cotizacion
	for _, c := range r.porID {
		if f.IDCorredor != "" && c.IDCorredor != f.IDCorredor {
			continue
		}
		if f.Estado != "" && domain.NormalizarEstado(c.Estado) != f.Estado {
			continue
		}
		visibles = append(visibles, c)
	}
	sort.Slice(visibles, func(i, j int) bool { return visibles[i].NCotizacion > visibles[j].NCotizacion })

	total := int64(len(visibles))
	inicio := (page - 1) * limit
	if inicio > len(visibles) {
		inicio = len(visibles)
	}
	fin := inicio + limit
	if fin > len(visibles) {
		fin = len(visibles)
	}
	return visibles[inicio:fin], total, nil
}

func (r *repoCotizacionFake) ListarTodas(_ context.Context, f repository.BitacoraFiltro) ([]*entity.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallo != nil {
		return nil, r.fallo
	}
	var visibles []*entity.Cotizacion
	for _, c := range r.porID {
		if f.IDCorredor != "" && c.IDCorredor != f.IDCorredor {
			continue
		}
		if f.Estado != "" && domain.NormalizarEstado(c.Estado) != f.Estado {
			continue
		}
		visibles = append(visibles, c)
	}
	return visibles, nil
}

func (r *repoCotizacionFake) CaducarVencidas(_ context.Context, corte time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.porID {
		if c.Estado == entity.EstadoEnProceso && c.FechaDt != nil && c.FechaDt.Before(corte) {
			c.Estado = entity.EstadoCaducada
			n++
		}
	}
	return n, nil
}

func (r *repoCotizacionFake) BuscarClientePorRut(_ context.Context, rutLimpio string) (*entity.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.porID {
		if c.Cliente != nil && domain.NormalizarRut(c.Cliente.RutCliente) == rutLimpio &&
			c.Cliente.Nombre != entity.Placeholder {
			return c.Cliente, nil
		}
	}
	return nil, nil
}

// repoSeguimientoFake puerto de seguimientos en memoria.
type repoSeguimientoFake struct {
	mu      sync.Mutex
	porID   map[string]*entity.Seguimiento
	falloEn string // id que provoca fallo en MarcarEnviado
}

func newRepoSeguimientoFake() *repoSeguimientoFake {
	return &repoSeguimientoFake{porID: map[string]*entity.Seguimiento{}}
}

var _ repository.SeguimientoRepository = (*repoSeguimientoFake)(nil)

func (r *repoSeguimientoFake) Crear(_ context.Context, s *entity.Seguimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.porID[s.ID] = s
	return nil
}

func (r *repoSeguimientoFake) ListarPorCotizacion(_ context.Context, idCotizacion string) ([]*entity.Seguimiento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Seguimiento
	for _, s := range r.porID {
		if s.IDCotizacion == idCotizacion {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *repoSeguimientoFake) ListarPendientes(_ context.Context, hasta time.Time) ([]*entity.Seguimiento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Seguimiento
	for _, s := range r.porID {
		if s.Tipo == entity.TipoRecordatorio && !s.Enviado &&
			s.FRecordatorio != nil && !s.FRecordatorio.After(hasta) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *repoSeguimientoFake) MarcarEnviado(_ context.Context, id string, cuando time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.falloEn {
		return fmt.Errorf("fallo forzado al marcar %s", id)
	}
	if s, ok := r.porID[id]; ok {
		s.Enviado = true
		s.EnviadoAt = &cuando
		s.ErrorEnvio = ""
	}
	return nil
}

func (r *repoSeguimientoFake) RegistrarErrorEnvio(_ context.Context, id, mensaje string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.porID[id]; ok {
		s.ErrorEnvio = mensaje
	}
	return nil
}

// repoVehiculoFake registro de referencia en memoria.
type repoVehiculoFake struct {
	mu         sync.Mutex
	porPatente map[string]*entity.VehiculoRegistro
}

func newRepoVehiculoFake() *repoVehiculoFake {
	return &repoVehiculoFake{porPatente: map[string]*entity.VehiculoRegistro{}}
}

var _ repository.VehiculoRepository = (*repoVehiculoFake)(nil)

func (r *repoVehiculoFake) ObtenerPorPatente(_ context.Context, patente string) (*entity.VehiculoRegistro, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.porPatente[strings.ToUpper(patente)], nil
}

func (r *repoVehiculoFake) Upsert(_ context.Context, v *entity.VehiculoRegistro) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clave := strings.ToUpper(v.Patente)
	_, existia := r.porPatente[clave]
	r.porPatente[clave] = v
	return !existia, nil
}

// repoUsuarioFake usuarios en memoria.
type repoUsuarioFake struct {
	porID map[string]*entity.Usuario
}

var _ repository.UsuarioRepository = (*repoUsuarioFake)(nil)

func (r *repoUsuarioFake) ObtenerPorID(_ context.Context, id string) (*entity.Usuario, error) {
	return r.porID[id], nil
}

// repoAuditFake acumula entradas de auditoría.
type repoAuditFake struct {
	mu       sync.Mutex
	entradas []*entity.AuditLog
}

var _ repository.AuditLogRepository = (*repoAuditFake)(nil)

func (r *repoAuditFake) Crear(_ context.Context, e *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entradas = append(r.entradas, e)
	return nil
}

// mailerFake registra los envíos; puede fallar para destinos marcados.
type mailerFake struct {
	mu      sync.Mutex
	envios  []string
	fallaEn map[string]bool
}

var _ Mailer = (*mailerFake)(nil)

func (m *mailerFake) Enviar(_ context.Context, para, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fallaEn[para] {
		return fmt.Errorf("smtp rechazó el envío a %s", para)
	}
	m.envios = append(m.envios, para)
	return nil
}

func nuevoWriterDePrueba() (*audit.Writer, *repoAuditFake) {
	repo := &repoAuditFake{}
	return audit.NewWriter(repo, logger.Nop(), 64), repo
}
