package domain

import "time"

// AgendaItem is one persisted row of an agenda. Order, StartTime and EndTime
// are maintained by the scheduler; the rest is user-entered or derived from
// the linked document.
type AgendaItem struct {
	ID            string
	AgendaID      string
	Topic         string
	DocumentID    *int64
	Order         *int
	DurationMin   *int
	StartTime     *string
	EndTime       *string
	ProjectOwner  *string
	DocumentOwner *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplyDocument fills the fields derived from a linked document. Passing nil
// unlinks: the project owner is cleared and the topic is left as is.
func (i *AgendaItem) ApplyDocument(doc *Document) {
	if doc == nil {
		i.ProjectOwner = nil
		return
	}
	i.Topic = doc.Number
	if doc.ProjectManager != nil {
		i.ProjectOwner = CloneString(doc.ProjectManager)
	}
	if doc.ProjectManager == nil || *doc.ProjectManager != doc.Owner {
		i.DocumentOwner = StringPtr(doc.Owner)
	}
}

// CopyForAgenda returns a new unscheduled item on agendaID carrying over the
// topic, duration, owners and document link.
func (i *AgendaItem) CopyForAgenda(agendaID, newID string, now time.Time) *AgendaItem {
	var docID *int64
	if i.DocumentID != nil {
		v := *i.DocumentID
		docID = &v
	}
	return &AgendaItem{
		ID:            newID,
		AgendaID:      agendaID,
		Topic:         i.Topic,
		DocumentID:    docID,
		DurationMin:   CloneInt(i.DurationMin),
		ProjectOwner:  CloneString(i.ProjectOwner),
		DocumentOwner: CloneString(i.DocumentOwner),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
