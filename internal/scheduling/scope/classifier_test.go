package scope

import (
	"testing"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		areas Areas
		want  domain.Scope
	}{
		{"floor only", Areas{Floor: 40}, domain.ScopeFloorOnly},
		{"floor with baseboard", Areas{Floor: 40, Baseboard: 12}, domain.ScopeFloorOnly},
		{"walls only", Areas{Wall: 80}, domain.ScopeWallCeiling},
		{"ceiling only", Areas{Ceiling: 20}, domain.ScopeWallCeiling},
		{"walls and ceiling", Areas{Wall: 80, Ceiling: 20}, domain.ScopeWallCeiling},
		{"floor and walls", Areas{Floor: 40, Wall: 80}, domain.ScopeCombined},
		{"floor and ceiling", Areas{Floor: 40, Ceiling: 20}, domain.ScopeCombined},
		{"everything", Areas{Floor: 1, Wall: 1, Ceiling: 1, Baseboard: 1}, domain.ScopeCombined},
		{"all zero", Areas{}, domain.ScopeCombined},
		{"baseboard only", Areas{Baseboard: 10}, domain.ScopeCombined},
		{"negative floor treated as zero", Areas{Floor: -3, Wall: 5}, domain.ScopeWallCeiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.areas))
		})
	}
}

func TestClassify_Totality(t *testing.T) {
	values := []float64{0, 0.5, 10}
	for _, f := range values {
		for _, w := range values {
			for _, c := range values {
				for _, b := range values {
					got := Classify(Areas{Floor: f, Wall: w, Ceiling: c, Baseboard: b})
					assert.True(t, got.Valid(), "scope %q is not a known scope", got)

					floorOnly := f > 0 && w == 0 && c == 0
					assert.Equal(t, floorOnly, got == domain.ScopeFloorOnly,
						"floor=%v wall=%v ceiling=%v", f, w, c)
				}
			}
		}
	}
}

func TestHasScope(t *testing.T) {
	assert.False(t, HasScope(Areas{}))
	assert.False(t, HasScope(Areas{Floor: -1}))
	assert.True(t, HasScope(Areas{Baseboard: 3}))
	assert.True(t, HasScope(Areas{Ceiling: 0.1}))
}

func TestFromProject(t *testing.T) {
	p := domain.Project{FloorArea: 1, WallArea: 2, CeilingArea: 3, BaseboardLength: 4}
	assert.Equal(t, Areas{Floor: 1, Wall: 2, Ceiling: 3, Baseboard: 4}, FromProject(p))
}
