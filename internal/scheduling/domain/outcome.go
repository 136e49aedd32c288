package domain

import (
	"errors"
	"time"
)

// OutcomeKind is the result category of one generation attempt.
type OutcomeKind string

const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// Skip reasons.
const (
	SkipAlreadyScheduled = "already_scheduled"
	SkipNoScope          = "no_scope"
)

// Outcome reports what Generate did for a single project.
type Outcome struct {
	ProjectID string      `json:"project_id"`
	Kind      OutcomeKind `json:"kind"`
	Count     int         `json:"count,omitempty"`
	Scope     Scope       `json:"scope,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Error     string      `json:"error,omitempty"`
	Deadline  *time.Time  `json:"deadline,omitempty"`

	Err error `json:"-"`
}

func Created(projectID string, scope Scope, count int, deadline time.Time) Outcome {
	return Outcome{ProjectID: projectID, Kind: OutcomeCreated, Scope: scope, Count: count, Deadline: &deadline}
}

func Skipped(projectID, reason string) Outcome {
	return Outcome{ProjectID: projectID, Kind: OutcomeSkipped, Reason: reason}
}

func Failed(projectID string, err error) Outcome {
	return Outcome{ProjectID: projectID, Kind: OutcomeFailed, Error: err.Error(), Err: err}
}

// SkipReasonFor maps the skip sentinels to their reason code.
func SkipReasonFor(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrAlreadyScheduled):
		return SkipAlreadyScheduled, true
	case errors.Is(err, ErrNoScope):
		return SkipNoScope, true
	}
	return "", false
}

// BatchResult collects the outcomes of one multi-project run.
type BatchResult struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes,omitempty"`
}

// Add records an outcome and bumps the matching counter.
func (b *BatchResult) Add(o Outcome) {
	b.Outcomes = append(b.Outcomes, o)
	switch o.Kind {
	case OutcomeCreated:
		b.Created++
	case OutcomeSkipped:
		b.Skipped++
	case OutcomeFailed:
		b.Failed++
	}
}
