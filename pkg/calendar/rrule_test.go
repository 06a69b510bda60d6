package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRRuleWeekly(t *testing.T) {
	r := &Recurrence{Frequency: "WEEKLY", Interval: 1, Count: 10, Days: []string{"MO", "WE"}}
	assert.Equal(t, "RRULE:FREQ=WEEKLY;INTERVAL=1;COUNT=10;BYDAY=MO,WE", r.RRule())
}

func TestRRuleUntilWinsOverCount(t *testing.T) {
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	r := &Recurrence{Frequency: "DAILY", Count: 5, Until: &until}
	assert.Equal(t, "RRULE:FREQ=DAILY;INTERVAL=1;UNTIL=20251231T000000Z", r.RRule())
}

func TestRRuleMonthly(t *testing.T) {
	r := &Recurrence{Frequency: "MONTHLY", Interval: 2, Days: []string{"1", "15"}}
	assert.Equal(t, "RRULE:FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=1,15", r.RRule())
}

func TestRRuleNil(t *testing.T) {
	var r *Recurrence
	assert.Empty(t, r.RRule())
}
