package domain

import "time"

// MoveRequest is the transient input record of a "move to another agenda"
// action. It is deleted once the move completes.
type MoveRequest struct {
	ID         string
	ItemID     string
	ToAgendaID string
	CreatedAt  time.Time
}
