package domain

import (
	"fmt"
	"regexp"
	"time"
)

// meetingTimePatterns mirrors the record-level validation rule on the agenda
// meeting time field. A value must match at least one of them.
var meetingTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^0*[1-9]:[0-5][0-9] (AM|PM).*$`),
	regexp.MustCompile(`^1[0-2]:[0-5][0-9] (AM|PM).*$`),
	regexp.MustCompile(`^0[0-9]:[0-5][0-9].*$`),
	regexp.MustCompile(`^1[0-9]:[0-5][0-9].*$`),
	regexp.MustCompile(`^2[0-3]:[0-5][0-9].*$`),
}

type Agenda struct {
	ID          string
	Name        string
	MeetingDate *time.Time
	MeetingTime *string
	Status      AgendaStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateMeetingTime accepts nil/blank or a value in "h:mm AM|PM ..." or
// "hh:mm ..." form.
func ValidateMeetingTime(meetingTime *string) error {
	mt := BlankToNil(meetingTime)
	if mt == nil {
		return nil
	}
	if !IsValidMeetingTime(*mt) {
		return fmt.Errorf("%w: meeting time %q must look like \"9:30 AM ET\" or \"13:30 CET\"", ErrValidation, *mt)
	}
	return nil
}

// IsValidMeetingTime reports whether s satisfies the meeting time rule.
func IsValidMeetingTime(s string) bool {
	for _, p := range meetingTimePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// IsPast reports whether the agenda's meeting date is before the day of now.
// Agendas without a meeting date are never past.
func (a *Agenda) IsPast(now time.Time) bool {
	if a.MeetingDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return a.MeetingDate.Before(today)
}

// MeetingTimeChanged reports whether a change from old to updated counts as a
// meeting time change: set, cleared, or a different value.
func MeetingTimeChanged(old, updated *string) bool {
	return !StringPtrEqual(old, updated)
}
