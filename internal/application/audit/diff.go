package audit

import "encoding/json"

// ProfundidadMaxima tope de recursión del diff sobre objetos anidados.
const ProfundidadMaxima = 3

// Cambio par antes/después de un campo modificado.
type Cambio struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// DiffResultado diferencias campo a campo entre dos instantáneas.
// Las claves son rutas con punto (ej. "vehiculo.patente").
type DiffResultado struct {
	Added   map[string]any    `json:"added"`
	Removed map[string]any    `json:"removed"`
	Changed map[string]Cambio `json:"changed"`
}

// Vacio indica si no se detectó ninguna diferencia.
func (d DiffResultado) Vacio() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff calcula las claves agregadas, eliminadas y cambiadas entre dos
// instantáneas, descendiendo en objetos anidados hasta ProfundidadMaxima.
// Más allá del tope los valores se comparan como opacos.
func Diff(antes, despues map[string]any) DiffResultado {
	r := DiffResultado{
		Added:   map[string]any{},
		Removed: map[string]any{},
		Changed: map[string]Cambio{},
	}
	diffNivel(antes, despues, 0, "", &r)
	return r
}

func diffNivel(a, b map[string]any, nivel int, ruta string, r *DiffResultado) {
	claves := map[string]struct{}{}
	for k := range a {
		claves[k] = struct{}{}
	}
	for k := range b {
		claves[k] = struct{}{}
	}

	for k := range claves {
		va, enA := a[k]
		vb, enB := b[k]
		p := k
		if ruta != "" {
			p = ruta + "." + k
		}

		ma, aEsMapa := va.(map[string]any)
		mb, bEsMapa := vb.(map[string]any)
		if aEsMapa && bEsMapa && nivel < ProfundidadMaxima {
			diffNivel(ma, mb, nivel+1, p, r)
			continue
		}

		switch {
		case !enA && enB:
			r.Added[p] = vb
		case enA && !enB:
			r.Removed[p] = va
		case !iguales(va, vb):
			r.Changed[p] = Cambio{Before: va, After: vb}
		}
	}
}

// iguales compara por representación JSON: suficiente para instantáneas que
// provienen de (de)serialización y evita comparar tipos no comparables.
func iguales(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ja) == string(jb)
}

// Instantanea convierte un valor arbitrario (entidad, subdocumento) en el
// mapa genérico que persiste la bitácora. Devuelve nil si v es nil o no
// serializable.
func Instantanea(v any) map[string]any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
