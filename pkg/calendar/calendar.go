package calendar

import (
	"context"
	"time"
)

// MeetingDetails carries the metadata rendered into the calendar invite.
type MeetingDetails struct {
	CandidateName string
	PositionName  string
}

// EventDetails describes an availability event published to an interviewer's
// own calendar, optionally recurring.
type EventDetails struct {
	Summary    string
	Start      time.Time
	End        time.Time
	Timezone   string
	Recurrence *Recurrence
}

// Meetings is the capability the scheduling core needs from a calendar
// provider: a conference meeting between two attendees and plain event
// publishing on an interviewer's calendar.
type Meetings interface {
	// CreateMeeting books a video meeting and returns the join link and the
	// provider's event id.
	CreateMeeting(ctx context.Context, organizerEmail, attendeeEmail string, start, end time.Time, details MeetingDetails) (meetingLink, eventID string, err error)

	// CreateEvent publishes an event on the calendar owned by the given OAuth
	// tokens and returns the provider's event id.
	CreateEvent(ctx context.Context, accessToken, refreshToken string, details EventDetails) (eventID string, err error)
}
