package models

import "time"

// AvailabilitySlot is a window an interviewer has opened for interviews.
// Slots are archived, never hard-deleted, so history survives splits.
type AvailabilitySlot struct {
	ID              string     `db:"id" json:"id"`
	InterviewerID   string     `db:"interviewer_id" json:"interviewer_id"`
	StartAt         time.Time  `db:"start_at" json:"start_at"`
	EndAt           time.Time  `db:"end_at" json:"end_at"`
	BookedBy        *string    `db:"booked_by" json:"booked_by,omitempty"`
	IsScheduled     bool       `db:"is_scheduled" json:"is_scheduled"`
	CalendarEventID string     `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	ArchivedAt      *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Booked reports whether the slot is already claimed by a candidate.
func (s *AvailabilitySlot) Booked() bool {
	return s.BookedBy != nil || s.IsScheduled
}

// Contains reports whether [start, end) lies fully inside the slot window.
func (s *AvailabilitySlot) Contains(start, end time.Time) bool {
	return !start.Before(s.StartAt) && !end.After(s.EndAt)
}

// SlotFilter describes query params for listing availability.
type SlotFilter struct {
	InterviewerID string
	From          *time.Time
	To            *time.Time
	OnlyUnbooked  bool
	Page          int
	PageSize      int
}

// MatchedSlot is one eligible slot with its interviewer context.
type MatchedSlot struct {
	AvailabilitySlot
	InterviewerName  string `db:"interviewer_name" json:"interviewer_name"`
	InterviewerLevel int    `db:"interviewer_level" json:"interviewer_level"`
	Strength         string `db:"strength" json:"strength"`
}
