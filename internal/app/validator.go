package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"practicelog/internal/model"
)

// FieldErrors carries one message per offending form field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SessionForm is the unvalidated payload for creating a session.
type SessionForm struct {
	Date         string
	Topic        string
	DurationMin  int
	Notes        string
	Tags         []string
	InstrumentID uint
	Instrument   string
}

// acceptedDateLayouts covers the canonical day format plus the datetime
// shapes the HTML inputs and older exports produce; anything beyond the day
// is truncated.
var acceptedDateLayouts = []string{
	model.DateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ValidateSessionForm checks the form and returns a normalized copy:
// date reduced to "YYYY-MM-DD", topic trimmed, tags trimmed and
// deduplicated case-insensitively (first casing wins). On failure it
// returns a FieldErrors value and the zero form; nothing is persisted by
// this function.
func ValidateSessionForm(form SessionForm) (SessionForm, error) {
	errs := FieldErrors{}

	date, ok := parseDate(form.Date)
	if !ok {
		errs["date"] = "must be a calendar date (YYYY-MM-DD)"
	}

	topic := strings.TrimSpace(form.Topic)
	if topic == "" {
		errs["topic"] = "must not be empty"
	}

	if form.DurationMin <= 0 {
		errs["duration_min"] = "must be a positive number of minutes"
	}

	if len(errs) > 0 {
		return SessionForm{}, errs
	}

	return SessionForm{
		Date:         date,
		Topic:        topic,
		DurationMin:  form.DurationMin,
		Notes:        strings.TrimSpace(form.Notes),
		Tags:         NormalizeTags(form.Tags),
		InstrumentID: form.InstrumentID,
		Instrument:   strings.TrimSpace(form.Instrument),
	}, nil
}

// NormalizeTags trims, drops empties and deduplicates case-insensitively,
// keeping the first casing seen and the original order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTags breaks a comma-delimited tag string into raw tag names.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func parseDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, layout := range acceptedDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(model.DateLayout), true
		}
	}
	return "", false
}
