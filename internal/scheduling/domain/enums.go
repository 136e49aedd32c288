package domain

import "strings"

// Scope is the surface mix of a project and selects the template sequence.
type Scope string

const (
	ScopeFloorOnly   Scope = "FLOOR_ONLY"
	ScopeWallCeiling Scope = "WALL_CEILING"
	ScopeCombined    Scope = "COMBINED"
)

// Scopes lists every scope in a stable order.
var Scopes = []Scope{ScopeFloorOnly, ScopeWallCeiling, ScopeCombined}

func (s Scope) Valid() bool {
	switch s {
	case ScopeFloorOnly, ScopeWallCeiling, ScopeCombined:
		return true
	}
	return false
}

// ParseScope normalises user input ("combined", " Floor_Only ") to a Scope.
// The result may still be invalid.
func ParseScope(s string) Scope {
	return Scope(strings.ToUpper(strings.TrimSpace(s)))
}

// Phase groups steps into the preparation, application and finish blocks.
type Phase string

const (
	PhasePreparation Phase = "PREPARATION"
	PhaseApplication Phase = "APPLICATION"
	PhaseFinish      Phase = "FINISH"
)

func (p Phase) Valid() bool {
	switch p {
	case PhasePreparation, PhaseApplication, PhaseFinish:
		return true
	}
	return false
}

// Surface is the surface a step works on. GENERAL covers both floor and walls.
type Surface string

const (
	SurfaceFloor   Surface = "FLOOR"
	SurfaceWall    Surface = "WALL"
	SurfaceGeneral Surface = "GENERAL"
)

func (s Surface) Valid() bool {
	switch s {
	case SurfaceFloor, SurfaceWall, SurfaceGeneral:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a generated task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// SatisfiesDependency reports whether a predecessor in state s unblocks its dependents.
func (s TaskStatus) SatisfiesDependency() bool {
	return s == StatusCompleted
}

// CanTransitionTo reports whether moving from s to next is allowed.
// The machine only moves forward; re-applying the current state is a no-op
// so concurrent "complete" calls resolve as last-write-wins.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusCompleted
	case StatusInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}

// AllowedPredecessors returns the states from which next may be entered.
func AllowedPredecessors(next TaskStatus) []TaskStatus {
	out := make([]TaskStatus, 0, 3)
	for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusCompleted} {
		if s.CanTransitionTo(next) {
			out = append(out, s)
		}
	}
	return out
}
