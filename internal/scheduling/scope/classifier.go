// Package scope classifies a project's surface mix into a template scope.
package scope

import "github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"

// Areas holds the raw surface quantities of a project.
type Areas struct {
	Floor     float64 `json:"floor"`
	Wall      float64 `json:"wall"`
	Ceiling   float64 `json:"ceiling"`
	Baseboard float64 `json:"baseboard"`
}

// FromProject extracts the surface quantities of p.
func FromProject(p domain.Project) Areas {
	return Areas{
		Floor:     p.FloorArea,
		Wall:      p.WallArea,
		Ceiling:   p.CeilingArea,
		Baseboard: p.BaseboardLength,
	}
}

// Classify maps surface quantities to a scope. It never fails: anything that
// is neither floor-only nor wall/ceiling-only is COMBINED, including the
// all-zero input, which callers reject beforehand with HasScope.
func Classify(a Areas) domain.Scope {
	floor := positive(a.Floor)
	wall := positive(a.Wall)
	ceiling := positive(a.Ceiling)

	switch {
	case floor && !wall && !ceiling:
		return domain.ScopeFloorOnly
	case !floor && (wall || ceiling):
		return domain.ScopeWallCeiling
	default:
		return domain.ScopeCombined
	}
}

// HasScope reports whether any quantity, baseboard included, is non-zero.
func HasScope(a Areas) bool {
	return positive(a.Floor) || positive(a.Wall) || positive(a.Ceiling) || positive(a.Baseboard)
}

func positive(v float64) bool {
	return v > 0
}
