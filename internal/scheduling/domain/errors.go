package domain

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrRunNotFound       = errors.New("generation run not found")
	ErrAlreadyScheduled  = errors.New("project already scheduled")
	ErrNoScope           = errors.New("project has no surface scope")
	ErrMissingStartDate  = errors.New("project has no start date")
	ErrEmptyCalendar     = errors.New("no eligible work days in schedule window")
	ErrWindowTooLong     = errors.New("schedule window too long")
	ErrUnknownScope      = errors.New("unknown scope category")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("invalid task status transition")
	ErrNoTasks           = errors.New("project has no tasks")
	ErrWorkerNotFound    = errors.New("worker not found")
)
