package repository

import (
	"context"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
)

// UsuarioRepository consulta de usuarios (destinatarios de recordatorios).
type UsuarioRepository interface {
	ObtenerPorID(ctx context.Context, id string) (*entity.Usuario, error)
}
