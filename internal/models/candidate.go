package models

import "time"

// Candidate scheduling lifecycle. Evaluation statuses mirror the feedback
// remark once an interview is finalized.
const (
	CandidateNotScheduled           = "NOT_SCHEDULED"
	CandidateSchedulingInitiated    = "SCHEDULING_INITIATED"
	CandidateConfirmedScheduled     = "CONFIRMED_SCHEDULED"
	CandidateRescheduled            = "RESCHEDULED"
	CandidateNotJoined              = "NOT_JOINED"
	CandidatePendingEvaluation      = "PENDING_EVALUATION"
	CandidateCompleted              = "COMPLETED"
	CandidateHighlyRecommended      = "HIGHLY_RECOMMENDED"
	CandidateRecommended            = "RECOMMENDED"
	CandidateNotRecommended         = "NOT_RECOMMENDED"
	CandidateStronglyNotRecommended = "STRONGLY_NOT_RECOMMENDED"
)

// Candidate is the person being interviewed for a job.
type Candidate struct {
	ID                        string     `db:"id" json:"id"`
	OrganizationID            string     `db:"organization_id" json:"organization_id"`
	JobID                     *string    `db:"job_id" json:"job_id,omitempty"`
	Name                      string     `db:"name" json:"name"`
	Email                     string     `db:"email" json:"email"`
	Company                   string     `db:"company" json:"company"`
	Specialization            string     `db:"specialization" json:"specialization"`
	ExperienceYears           int        `db:"experience_years" json:"experience_years"`
	ExperienceMonths          int        `db:"experience_months" json:"experience_months"`
	Status                    string     `db:"status" json:"status"`
	LastScheduledInitiateTime *time.Time `db:"last_scheduled_initiate_time" json:"last_scheduled_initiate_time,omitempty"`
	Score                     int        `db:"score" json:"score"`
	TotalScore                int        `db:"total_score" json:"total_score"`
	CreatedAt                 time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at" json:"updated_at"`
}

// CanInitiateScheduling reports whether a new scheduling round may start for
// the candidate's current status.
func (c *Candidate) CanInitiateScheduling() bool {
	switch c.Status {
	case CandidateNotScheduled, CandidateSchedulingInitiated, CandidateConfirmedScheduled:
		return true
	}
	return false
}
