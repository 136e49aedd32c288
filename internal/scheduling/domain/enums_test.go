package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusPending, StatusPending, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, TaskStatus("CANCELLED"), false},
		{TaskStatus(""), StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAllowedPredecessors(t *testing.T) {
	assert.Equal(t, []TaskStatus{StatusPending}, AllowedPredecessors(StatusPending))
	assert.Equal(t, []TaskStatus{StatusPending, StatusInProgress}, AllowedPredecessors(StatusInProgress))
	assert.Equal(t, []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}, AllowedPredecessors(StatusCompleted))
}

func TestTaskStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCompleted.SatisfiesDependency())
	assert.False(t, StatusInProgress.SatisfiesDependency())
	assert.False(t, StatusPending.IsTerminal())
}

func TestBatchResult_Add(t *testing.T) {
	var b BatchResult
	b.Add(Created("p1", ScopeFloorOnly, 13, time.Now()))
	b.Add(Skipped("p2", SkipNoScope))
	b.Add(Failed("p3", ErrEmptyCalendar))
	b.Add(Skipped("p4", SkipAlreadyScheduled))

	assert.Equal(t, 1, b.Created)
	assert.Equal(t, 2, b.Skipped)
	assert.Equal(t, 1, b.Failed)
	assert.Len(t, b.Outcomes, 4)
	assert.Equal(t, ErrEmptyCalendar.Error(), b.Outcomes[2].Error)
}

func TestSkipReasonFor(t *testing.T) {
	reason, ok := SkipReasonFor(fmt.Errorf("wrap: %w", ErrAlreadyScheduled))
	assert.True(t, ok)
	assert.Equal(t, SkipAlreadyScheduled, reason)

	_, ok = SkipReasonFor(errors.New("boom"))
	assert.False(t, ok)
}
