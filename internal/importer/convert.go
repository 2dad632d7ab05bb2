package importer

import (
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/service"
)

// Convert turns a validated file into create inputs for agendaID, filling
// durations from the file defaults. Call ValidateItemFile first.
func Convert(file *ItemFile, agendaID string) []service.CreateItemInput {
	var defaultDuration *int
	if file.Defaults != nil {
		defaultDuration = file.Defaults.DurationMin
	}

	inputs := make([]service.CreateItemInput, 0, len(file.Items))
	for _, e := range file.Items {
		in := service.CreateItemInput{
			AgendaID:    agendaID,
			Topic:       e.Topic,
			Order:       domain.CloneInt(e.Order),
			DurationMin: domain.CloneInt(e.DurationMin),
		}
		if in.DurationMin == nil {
			in.DurationMin = domain.CloneInt(defaultDuration)
		}
		if e.DocumentID != nil {
			id := *e.DocumentID
			in.DocumentID = &id
		}
		inputs = append(inputs, in)
	}
	return inputs
}
