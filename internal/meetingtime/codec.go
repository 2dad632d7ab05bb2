// Package meetingtime converts agenda meeting times between their display form
// ("1:45 PM ET", "13:45 CET") and a fractional hour-of-day (13.75).
package meetingtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format identifies which clock a meeting time is written in.
type Format int

const (
	TwentyFourHour Format = iota
	TwelveHour
)

func (f Format) String() string {
	if f == TwelveHour {
		return "12h"
	}
	return "24h"
}

// FormatError reports a time string that matches neither recognised format.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid meeting time %q: %s", e.Input, e.Reason)
}

// DetectFormat returns TwelveHour when the text carries an AM/PM marker
// anywhere (case-insensitive), otherwise TwentyFourHour.
func DetectFormat(text string) Format {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return TwelveHour
	}
	return TwentyFourHour
}

// Parse converts the leading "H:MM" token of text into hours. Trailing tokens
// such as a timezone label are ignored. In TwelveHour mode hours 1-11 followed
// by a PM token move to the afternoon; any other second token leaves the hour
// as written.
func Parse(text string, format Format) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, &FormatError{Input: text, Reason: "empty"}
	}

	hhmm := strings.Split(fields[0], ":")
	if len(hhmm) != 2 {
		return 0, &FormatError{Input: text, Reason: "expected H:MM"}
	}
	hh, err := strconv.Atoi(hhmm[0])
	if err != nil {
		return 0, &FormatError{Input: text, Reason: "hour is not a number"}
	}
	mm, err := strconv.Atoi(hhmm[1])
	if err != nil {
		return 0, &FormatError{Input: text, Reason: "minute is not a number"}
	}

	if format == TwelveHour && len(fields) > 1 && strings.EqualFold(fields[1], "PM") {
		if hh >= 1 && hh <= 11 {
			hh += 12
		}
	}

	return float64(hh) + float64(mm)/60, nil
}

// FormatHours renders hours as "H:MM". TwelveHour output folds afternoon hours
// back to 1-11 but carries no AM/PM suffix; existing agendas display it this way.
func FormatHours(hours float64, format Format) string {
	hour := int(hours)
	minute := int(math.Round((hours - float64(hour)) * 60))
	if minute == 60 {
		minute = 0
		hour++
	}

	if format == TwelveHour && hour >= 13 {
		hour -= 12
	}

	return fmt.Sprintf("%d:%02d", hour, minute)
}
