package warranty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roomstock/inventory/pkg/warranty"
)

func TestComputeEnd(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		months   string
		existing string
		want     string
	}{
		{"simple", "2024-01-15", "12", "", "2025-01-15"},
		{"month end rolls over", "2024-01-31", "1", "", "2024-03-02"},
		{"leap day plus a year", "2024-02-29", "12", "", "2025-03-01"},
		{"year boundary", "2023-11-30", "3", "", "2024-03-01"},
		{"months with unit suffix", "2024-06-01", "24mo", "", "2026-06-01"},
		{"fractional months truncate", "2024-06-01", "1.9", "", "2024-07-01"},
		{"padded input", " 2024-06-01 ", " 6 ", "", "2024-12-01"},
		{"existing end wins", "2024-01-01", "12", "2030-12-31", "2030-12-31"},
		{"existing end kept verbatim", "2024-01-01", "12", " someday ", " someday "},
		{"blank existing is ignored", "2024-01-01", "12", "   ", "2025-01-01"},
		{"blank start", "", "12", "", ""},
		{"zero months", "2024-01-01", "0", "", ""},
		{"negative months", "2024-01-01", "-3", "", ""},
		{"non numeric months", "2024-01-01", "abc", "", ""},
		{"empty months", "2024-01-01", "", "", ""},
		{"not a date", "not-a-date", "6", "", ""},
		{"impossible date", "2024-02-30", "6", "", ""},
		{"wrong layout", "01/15/2024", "6", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, warranty.ComputeEnd(tt.start, tt.months, tt.existing))
		})
	}
}

func TestComputeEndNeverClobbers(t *testing.T) {
	starts := []string{"", "2024-01-31", "garbage"}
	months := []string{"", "0", "1", "120", "x"}
	for _, s := range starts {
		for _, m := range months {
			assert.Equal(t, "2029-01-01", warranty.ComputeEnd(s, m, "2029-01-01"), "start=%q months=%q", s, m)
		}
	}
}

func TestParseMonths(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{" 12 ", 12, true},
		{"+7", 7, true},
		{"-2", -2, true},
		{"36 months", 36, true},
		{"1.5", 1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := warranty.ParseMonths(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, ok := warranty.ParseDate("2024-03-05")
	assert.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 5, d.Day())

	_, ok = warranty.ParseDate("2024-13-01")
	assert.False(t, ok)
}
