package importer

import (
	"fmt"
	"unicode/utf8"
)

const maxTopicLen = 255

// ValidateItemFile checks the file before conversion and returns every
// problem found.
func ValidateItemFile(file *ItemFile) []error {
	var errs []error

	if file.Defaults != nil && file.Defaults.DurationMin != nil && *file.Defaults.DurationMin < 0 {
		errs = append(errs, fmt.Errorf("defaults.duration_min must not be negative, got %d", *file.Defaults.DurationMin))
	}
	if len(file.Items) == 0 {
		errs = append(errs, fmt.Errorf("items: at least one item is required"))
	}

	seenOrders := make(map[int]int)
	for i, e := range file.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		if e.Topic == "" && e.DocumentID == nil {
			errs = append(errs, fmt.Errorf("%s: topic or document_id is required", prefix))
		}
		if utf8.RuneCountInString(e.Topic) > maxTopicLen {
			errs = append(errs, fmt.Errorf("%s.topic is longer than %d characters", prefix, maxTopicLen))
		}
		if e.DocumentID != nil && *e.DocumentID <= 0 {
			errs = append(errs, fmt.Errorf("%s.document_id must be positive, got %d", prefix, *e.DocumentID))
		}
		if e.DurationMin != nil && *e.DurationMin < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must not be negative, got %d", prefix, *e.DurationMin))
		}

		if e.Order == nil {
			continue
		}
		if *e.Order <= 0 {
			errs = append(errs, fmt.Errorf("%s.order must be positive, got %d", prefix, *e.Order))
			continue
		}
		// Imported rows skip renumbering, so a repeated order would stick.
		if first, dup := seenOrders[*e.Order]; dup {
			errs = append(errs, fmt.Errorf("%s.order: %d is already used by items[%d]", prefix, *e.Order, first))
		} else {
			seenOrders[*e.Order] = i
		}
	}

	return errs
}
