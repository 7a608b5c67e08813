package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/use-agent/splitboard/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"hh:mm:ss", "03:41:27", 3*time.Hour + 41*time.Minute + 27*time.Second},
		{"h:mm:ss", "3:41:27", 3*time.Hour + 41*time.Minute + 27*time.Second},
		{"mm:ss", "37:54", 37*time.Minute + 54*time.Second},
		{"m:ss", "5:09", 5*time.Minute + 9*time.Second},
		{"zero", "0:00:00", 0},
		{"surrounding whitespace", "  01:02:03\t", time.Hour + 2*time.Minute + 3*time.Second},
		{"dot separators", "1.23.45", time.Hour + 23*time.Minute + 45*time.Second},
		{"two digit runs with noise", "12분 34초", 12*time.Minute + 34*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "-", "abc", "12", "1:2:3:4:5"} {
		t.Run("invalid/"+raw, func(t *testing.T) {
			_, err := Parse(raw)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", raw)
			}
			var e *models.Error
			if !errors.As(err, &e) || e.Code != models.ErrCodeParse {
				t.Errorf("Parse(%q) error = %v, want code %s", raw, err, models.ErrCodeParse)
			}
		})
	}
}

func TestParse_FourDigitRunsRejected(t *testing.T) {
	// A fourth numeric field is ambiguous; the lenient pass must not guess.
	if _, err := Parse("1:2:3:4"); err == nil {
		t.Error("four colon-separated fields should not parse")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	durations := []time.Duration{
		0,
		9 * time.Second,
		5*time.Minute + 9*time.Second,
		37*time.Minute + 54*time.Second,
		time.Hour,
		3*time.Hour + 41*time.Minute + 27*time.Second,
		26*time.Hour + 2*time.Minute + 1*time.Second, // past-midnight clock value
	}
	for _, d := range durations {
		got, err := Parse(Format(d))
		if err != nil {
			t.Fatalf("Parse(Format(%v)) returned error: %v", d, err)
		}
		if got != d {
			t.Errorf("Parse(Format(%v)) = %v, want %v", d, got, d)
		}
	}
}

func TestParseClock(t *testing.T) {
	start := 9 * time.Hour // race starts at 09:00:00

	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"same morning", "09:41:27", 41*time.Minute + 27*time.Second},
		{"afternoon", "14:05:00", 5*time.Hour + 5*time.Minute},
		{"past midnight", "00:30:00", 15*time.Hour + 30*time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.raw, start)
			if err != nil {
				t.Fatalf("ParseClock(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	if _, err := ParseClock("bogus", start); err == nil {
		t.Error("ParseClock should propagate parse failures")
	}
}
