package models

import "time"

// Interviewer is a vetted panel member who opens availability slots.
// Strength is the single specialization matched against job requirements.
type Interviewer struct {
	ID                   string     `db:"id" json:"id"`
	Name                 string     `db:"name" json:"name"`
	Email                string     `db:"email" json:"email"`
	Strength             string     `db:"strength" json:"strength"`
	Skills               StringList `db:"skills" json:"skills"`
	TotalExperienceYears int        `db:"total_experience_years" json:"total_experience_years"`
	InterviewerLevel     int        `db:"interviewer_level" json:"interviewer_level"`
	CurrentCompany       string     `db:"current_company" json:"current_company"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}
