package domain

import "strings"

// Actor es la identidad autenticada que ejecuta una operación.
type Actor struct {
	ID  string
	Rol string
}

// Roles con visibilidad total sobre las cotizaciones.
var rolesPrivilegiados = map[string]bool{
	"admin":         true,
	"administrator": true,
	"ejecutivo":     true,
}

// EsPrivilegiado indica si el actor ve todas las cotizaciones y puede
// filtrar por corredor arbitrario. La comparación de rol es case-insensitive;
// un rol desconocido o vacío degrada a no privilegiado.
func (a Actor) EsPrivilegiado() bool {
	return rolesPrivilegiados[strings.ToLower(strings.TrimSpace(a.Rol))]
}

// CorredorVisible resuelve el id_corredor efectivo de una consulta:
// un actor privilegiado puede pedir un corredor explícito (o todos, con "");
// cualquier otro actor queda restringido a sus propias cotizaciones y el
// filtro solicitado se ignora.
func (a Actor) CorredorVisible(solicitado string) string {
	if a.EsPrivilegiado() {
		return solicitado
	}
	return a.ID
}
