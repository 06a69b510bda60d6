package models

import "time"

// Interview statuses. A confirmed interview moves to an evaluation status
// when feedback is finalized, or RESCHEDULED when a later round supersedes it.
const (
	InterviewConfirmedScheduled     = "CONFIRMED_SCHEDULED"
	InterviewRescheduled            = "RESCHEDULED"
	InterviewNotJoined              = "NOT_JOINED"
	InterviewCompleted              = "COMPLETED"
	InterviewHighlyRecommended      = "HIGHLY_RECOMMENDED"
	InterviewRecommended            = "RECOMMENDED"
	InterviewNotRecommended         = "NOT_RECOMMENDED"
	InterviewStronglyNotRecommended = "STRONGLY_NOT_RECOMMENDED"
)

// Interview is a confirmed meeting between a candidate and an interviewer.
type Interview struct {
	ID                  string     `db:"id" json:"id"`
	CandidateID         string     `db:"candidate_id" json:"candidate_id"`
	InterviewerID       string     `db:"interviewer_id" json:"interviewer_id"`
	AvailabilitySlotID  *string    `db:"availability_slot_id" json:"availability_slot_id,omitempty"`
	Status              string     `db:"status" json:"status"`
	ScheduledTime       *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`
	PreviousInterviewID *string    `db:"previous_interview_id" json:"previous_interview_id,omitempty"`
	MeetingLink         string     `db:"meeting_link" json:"meeting_link,omitempty"`
	CalendarEventID     string     `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Score               int        `db:"score" json:"score"`
	TotalScore          int        `db:"total_score" json:"total_score"`
	TimesProcessed      int        `db:"times_processed" json:"times_processed"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// InterviewDetail joins the interview with the people and position involved.
type InterviewDetail struct {
	Interview
	CandidateName    string `db:"candidate_name" json:"candidate_name"`
	CandidateEmail   string `db:"candidate_email" json:"candidate_email"`
	InterviewerName  string `db:"interviewer_name" json:"interviewer_name"`
	InterviewerEmail string `db:"interviewer_email" json:"interviewer_email"`
	PositionName     string `db:"position_name" json:"position_name"`
	OrganizationID   string `db:"org_id" json:"organization_id"`
}
