package app

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateSessionForm(t *testing.T) {
	tests := []struct {
		name       string
		form       SessionForm
		wantFields []string
	}{
		{
			name: "valid form",
			form: SessionForm{Date: "2026-08-20", Topic: "Scales", DurationMin: 30},
		},
		{
			name:       "zero duration",
			form:       SessionForm{Date: "2026-08-20", Topic: "Scales", DurationMin: 0},
			wantFields: []string{"duration_min"},
		},
		{
			name:       "negative duration",
			form:       SessionForm{Date: "2026-08-20", Topic: "Scales", DurationMin: -5},
			wantFields: []string{"duration_min"},
		},
		{
			name:       "blank topic",
			form:       SessionForm{Date: "2026-08-20", Topic: "   ", DurationMin: 30},
			wantFields: []string{"topic"},
		},
		{
			name:       "bad date",
			form:       SessionForm{Date: "20/08/2026", Topic: "Scales", DurationMin: 30},
			wantFields: []string{"date"},
		},
		{
			name:       "missing date",
			form:       SessionForm{Topic: "Scales", DurationMin: 30},
			wantFields: []string{"date"},
		},
		{
			name:       "everything wrong at once",
			form:       SessionForm{Date: "nope", Topic: "", DurationMin: 0},
			wantFields: []string{"date", "duration_min", "topic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSessionForm(tt.form)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var fields FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("expected FieldErrors, got %T (%v)", err, err)
			}
			for _, field := range tt.wantFields {
				if _, ok := fields[field]; !ok {
					t.Errorf("missing error for field %q in %v", field, fields)
				}
			}
			if len(fields) != len(tt.wantFields) {
				t.Errorf("got %d field errors, want %d: %v", len(fields), len(tt.wantFields), fields)
			}
		})
	}
}

func TestValidateSessionFormNormalizes(t *testing.T) {
	form := SessionForm{
		Date:        "2026-08-20T18:30",
		Topic:       "  Arpeggios  ",
		DurationMin: 45,
		Notes:       "  solid run  ",
		Tags:        []string{" jazz ", "JAZZ", "", "theory", "Jazz"},
	}

	normalized, err := ValidateSessionForm(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if normalized.Date != "2026-08-20" {
		t.Errorf("date = %q, want datetime truncated to day", normalized.Date)
	}
	if normalized.Topic != "Arpeggios" {
		t.Errorf("topic = %q, want trimmed", normalized.Topic)
	}
	if normalized.Notes != "solid run" {
		t.Errorf("notes = %q, want trimmed", normalized.Notes)
	}
	if want := []string{"jazz", "theory"}; !reflect.DeepEqual(normalized.Tags, want) {
		t.Errorf("tags = %v, want %v", normalized.Tags, want)
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "empty", in: nil, want: []string{}},
		{name: "case-insensitive dedup keeps first casing", in: []string{"Jazz", "jazz", "JAZZ"}, want: []string{"Jazz"}},
		{name: "trims and drops blanks", in: []string{" a ", "", "  ", "b"}, want: []string{"a", "b"}},
		{name: "order preserved", in: []string{"c", "a", "b", "a"}, want: []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
