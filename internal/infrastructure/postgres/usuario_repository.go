package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seguroscl/cotizador-api/internal/domain/entity"
	"github.com/seguroscl/cotizador-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo lectura de usuarios para resolver destinatarios y claims.
type UsuarioRepo struct {
	q Querier
}

func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

// ObtenerPorID devuelve el usuario o nil si no existe.
func (r *UsuarioRepo) ObtenerPorID(ctx context.Context, id string) (*entity.Usuario, error) {
	ctx, cancel := conTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, email, nombre, apellido, rol, password_hash, created_at, updated_at
		FROM usuario WHERE id = $1`
	var u entity.Usuario
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Nombre, &u.Apellido, &u.Rol, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}
