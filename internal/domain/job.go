package domain

import "time"

type Job struct {
	ID         string
	TaskName   string
	Params     map[string]string
	Status     JobStatus
	Error      string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}
