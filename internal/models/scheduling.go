package models

import "time"

// SchedulingAttempt is one scheduling round for a candidate. Its ID doubles
// as a fencing token: confirmation links from an older attempt lose to any
// newer attempt. PreviousInterviewID carries the interview retired when the
// round reschedules a confirmed candidate, so the replacement interview can
// link back to it.
type SchedulingAttempt struct {
	ID                  string    `db:"id" json:"id"`
	CandidateID         string    `db:"candidate_id" json:"candidate_id"`
	PreviousInterviewID *string   `db:"previous_interview_id" json:"previous_interview_id,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
