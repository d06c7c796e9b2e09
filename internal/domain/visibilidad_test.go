package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEsPrivilegiado(t *testing.T) {
	tests := []struct {
		rol      string
		esperado bool
	}{
		{"admin", true},
		{"Admin", true},
		{"ADMINISTRATOR", true},
		{"ejecutivo", true},
		{"Ejecutivo", true},
		{"corredor", false},
		{"vendedor", false},
		{"", false},
		{"rol-desconocido", false},
	}
	for _, tc := range tests {
		t.Run("rol "+tc.rol, func(t *testing.T) {
			a := Actor{ID: "u1", Rol: tc.rol}
			assert.Equal(t, tc.esperado, a.EsPrivilegiado())
		})
	}
}

func TestCorredorVisible(t *testing.T) {
	privilegiado := Actor{ID: "admin-1", Rol: "admin"}
	corredor := Actor{ID: "corredor-7", Rol: "corredor"}

	// privilegiado sin filtro explícito ve todo
	assert.Equal(t, "", privilegiado.CorredorVisible(""))
	// privilegiado puede acotar a un corredor específico
	assert.Equal(t, "corredor-9", privilegiado.CorredorVisible("corredor-9"))

	// corredor siempre queda acotado a sí mismo
	assert.Equal(t, "corredor-7", corredor.CorredorVisible(""))
	// el id_corredor pedido por un no privilegiado se ignora
	assert.Equal(t, "corredor-7", corredor.CorredorVisible("corredor-9"))

	// rol desconocido degrada a no privilegiado
	raro := Actor{ID: "u2", Rol: "auditor"}
	assert.Equal(t, "u2", raro.CorredorVisible("otro"))
}
