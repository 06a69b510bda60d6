package models

import "time"

// Job is an open position owned by a client organization. Its domain,
// specialization, level and skills drive interviewer eligibility.
type Job struct {
	ID                 string     `db:"id" json:"id"`
	OrganizationID     string     `db:"organization_id" json:"organization_id"`
	Name               string     `db:"name" json:"name"`
	Domain             string     `db:"domain" json:"domain"`
	Specialization     string     `db:"specialization" json:"specialization"`
	MandatorySkills    StringList `db:"mandatory_skills" json:"mandatory_skills"`
	MinExperienceYears int        `db:"min_experience_years" json:"min_experience_years"`
	JobLevel           int        `db:"job_level" json:"job_level"`
	RecruiterEmail     string     `db:"recruiter_email" json:"recruiter_email"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// JobContext bundles the job with its owning organization for matching and
// notification fan-out.
type JobContext struct {
	Job
	ClientLevel       int    `db:"client_level" json:"client_level"`
	OrganizationName  string `db:"organization_name" json:"organization_name"`
	AccountOwnerEmail string `db:"account_owner_email" json:"account_owner_email"`
}
