package entity

import "time"

// Usuario cuenta de acceso. Aquí solo se consulta para resolver el correo
// del destinatario de un recordatorio y para el contexto de visibilidad.
type Usuario struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nombre       string    `json:"nombre,omitempty"`
	Apellido     string    `json:"apellido,omitempty"`
	Rol          string    `json:"rol,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
