package domain

type AgendaStatus string

const (
	AgendaActive   AgendaStatus = "active"
	AgendaInactive AgendaStatus = "inactive"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Task names understood by the job runner.
const (
	TaskAgendaItemRecalc   = "agenda_item_recalc"
	TaskAgendaDeactivation = "agenda_deactivation"
)

// Job parameter keys for TaskAgendaItemRecalc.
const (
	ParamAgendaID          = "AgendaId"
	ParamAgendaMeetingTime = "AgendaMeetingTime"
)
