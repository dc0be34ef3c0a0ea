package gamedata

import "strings"

// =============================================================================
// SKILL CATALOG
// =============================================================================
//
// Skills come from free-form skill documents (see internal/skilldoc) and are
// stored inside a profile. The combat engine only reads them.
//
// JSON Schema (field names match the profile files written by earlier
// versions of the tool, so existing profiles keep loading):
// ------------
// {
//   "id": "patada_rapida_0421",
//   "nombre": "PATADA RÁPIDA",
//   "categoria": "Físico",
//   "tipo": "Física",
//   "clasificacion": "Ofensiva",
//   "alcance": "1",
//   "costo_pa": 2,
//   "tier": 1,
//   "efecto": "Daña FUE x2 al objetivo.",
//   "aclaraciones": ["No acumulable"],
//   "formula": {"stat": "FUE", "multiplier": 2}
// }
//
// Cost:
// -----
// costo_pa = 0 means "PA Variable": the operator declares the cost when the
// skill is used.
//
// Damage:
// -------
// formula is the damage hint extracted from the effect text. The engine turns
// it into a number with the acting profile's stats.

// DamageFormula is a single-stat damage hint: stats[Stat] * Multiplier.
type DamageFormula struct {
	Stat       string  `json:"stat"`
	Multiplier float64 `json:"multiplier"`
}

// Skill is one entry of a profile's skill catalog.
type Skill struct {
	ID            string         `json:"id"`
	Name          string         `json:"nombre"`
	Category      string         `json:"categoria,omitempty"`
	Type          string         `json:"tipo,omitempty"`
	Class         string         `json:"clasificacion,omitempty"`
	Range         string         `json:"alcance,omitempty"`
	PACost        int            `json:"costo_pa"`
	EXPCost       *int           `json:"costo_exp,omitempty"`
	Tier          *int           `json:"tier,omitempty"`
	VisualEffect  string         `json:"efecto_visual,omitempty"`
	Effect        string         `json:"efecto,omitempty"`
	Clarification []string       `json:"aclaraciones"`
	Source        string         `json:"fuente,omitempty"`
	SourcePath    string         `json:"ruta_fuente,omitempty"`
	Passive       bool           `json:"esPasiva,omitempty"`
	Formula       *DamageFormula `json:"formula,omitempty"`
}

// IsPassive reports whether the skill cannot be used as a combat action.
// Older profiles lack the esPasiva flag, so the descriptive fields are
// checked as well.
func (s *Skill) IsPassive() bool {
	if s.Passive {
		return true
	}
	for _, field := range []string{s.Category, s.Type, s.Class} {
		if strings.Contains(strings.ToLower(field), "pasiv") {
			return true
		}
	}
	return false
}

// IsVariableCost returns true if the operator declares the PA cost on use.
func (s *Skill) IsVariableCost() bool {
	return s.PACost == 0
}

// Description returns the mechanical effect, falling back to the visual one.
func (s *Skill) Description() string {
	if s.Effect != "" {
		return s.Effect
	}
	if s.VisualEffect != "" {
		return s.VisualEffect
	}
	return "Sin descripción"
}
