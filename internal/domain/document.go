package domain

// Document is the controlled document an agenda item can be linked to.
type Document struct {
	ID             int64
	Number         string
	Owner          string
	ProjectManager *string
	AgendaIDs      []string
}

// ReplaceAgenda swaps from for to in the document's agenda links and reports
// whether anything changed. A document not linked to from gains no link.
func (d *Document) ReplaceAgenda(from, to string) bool {
	for i, id := range d.AgendaIDs {
		if id == from {
			d.AgendaIDs[i] = to
			return true
		}
	}
	return false
}
