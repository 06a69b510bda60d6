package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterviewerBandFor(t *testing.T) {
	tests := []struct {
		name   string
		years  int
		months int
		want   string
	}{
		{"junior", 2, 6, "0-4"},
		{"boundary with zero months stays lower", 4, 0, "0-4"},
		{"boundary with months moves up", 4, 1, "4-7"},
		{"mid band", 5, 0, "4-7"},
		{"upper boundary", 7, 0, "4-7"},
		{"senior", 8, 3, "7-10"},
		{"ten flat stays lower", 10, 0, "7-10"},
		{"beyond top bound", 10, 2, "10+"},
		{"principal", 15, 0, "10+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterviewerBandFor(tt.years, tt.months))
		})
	}
}

func TestClientBandFor(t *testing.T) {
	tests := []struct {
		name   string
		years  int
		months int
		want   string
	}{
		{"entry", 0, 0, "0-4"},
		{"four flat", 4, 0, "0-4"},
		{"four and change", 4, 11, "4-6"},
		{"six flat", 6, 0, "4-6"},
		{"seven", 7, 0, "6-8"},
		{"nine", 9, 6, "8-10"},
		{"ten flat", 10, 0, "8-10"},
		{"ten plus", 11, 0, "10+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientBandFor(tt.years, tt.months))
		})
	}
}

func TestDueDateFor(t *testing.T) {
	month := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	due := DueDateFor(month, 10)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), due)

	month = time.Date(2025, time.July, 15, 9, 30, 0, 0, time.UTC)
	due = DueDateFor(month, 10)
	assert.Equal(t, time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC), due)
}

func TestMonthStart(t *testing.T) {
	at := time.Date(2025, time.March, 28, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), MonthStart(at))
}
