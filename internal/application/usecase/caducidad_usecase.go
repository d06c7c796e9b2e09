package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/seguroscl/cotizador-api/internal/domain/repository"
	"github.com/seguroscl/cotizador-api/pkg/logger"
)

// CaducidadUseCase barrido periódico que marca CADUCADA toda cotización en
// proceso cuya fecha quedó fuera de la ventana de vigencia. Idempotente: una
// segunda pasada sin cambios reporta cero.
type CaducidadUseCase struct {
	repo         repository.CotizacionRepository
	log          *logger.Logger
	diasVigencia int
}

func NewCaducidadUseCase(repo repository.CotizacionRepository, log *logger.Logger, diasVigencia int) *CaducidadUseCase {
	return &CaducidadUseCase{repo: repo, log: log, diasVigencia: diasVigencia}
}

// CaducarVencidas ejecuta el barrido y devuelve cuántas cotizaciones cambiaron.
func (uc *CaducidadUseCase) CaducarVencidas(ctx context.Context) (int64, error) {
	corte := time.Now().AddDate(0, 0, -uc.diasVigencia)
	n, err := uc.repo.CaducarVencidas(ctx, corte)
	if err != nil {
		return 0, fmt.Errorf("caducar cotizaciones: %w", err)
	}
	if n > 0 {
		uc.log.Info().Int64("caducadas", n).Time("corte", corte).Msg("cotizaciones caducadas por vencimiento")
	} else {
		uc.log.Debug().Time("corte", corte).Msg("sin cotizaciones por caducar")
	}
	return n, nil
}
