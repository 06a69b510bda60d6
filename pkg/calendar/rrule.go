package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence describes how an availability event repeats.
type Recurrence struct {
	Frequency string // DAILY, WEEKLY, MONTHLY, YEARLY
	Interval  int
	Count     int
	Until     *time.Time
	// Days holds BYDAY codes (MO..SU) for weekly rules and month days for
	// monthly/yearly rules.
	Days []string
}

// RRule renders the recurrence as an RFC 5545 RRULE string.
func (r *Recurrence) RRule() string {
	if r == nil || r.Frequency == "" {
		return ""
	}
	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RRULE:FREQ=%s;INTERVAL=%d", strings.ToUpper(r.Frequency), interval)

	if r.Until != nil {
		fmt.Fprintf(&b, ";UNTIL=%s", r.Until.UTC().Format("20060102T150405Z"))
	} else if r.Count > 0 {
		fmt.Fprintf(&b, ";COUNT=%d", r.Count)
	}

	if len(r.Days) > 0 {
		switch strings.ToUpper(r.Frequency) {
		case "WEEKLY":
			b.WriteString(";BYDAY=" + strings.Join(r.Days, ","))
		case "MONTHLY", "YEARLY":
			b.WriteString(";BYMONTHDAY=" + strings.Join(r.Days, ","))
		}
	}

	return b.String()
}
