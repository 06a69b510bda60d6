package models

import "time"

// Overall remark vocabulary for finalized feedback.
const (
	RemarkHighlyRecommended      = "HIGHLY_RECOMMENDED"
	RemarkRecommended            = "RECOMMENDED"
	RemarkNotRecommended         = "NOT_RECOMMENDED"
	RemarkStronglyNotRecommended = "STRONGLY_NOT_RECOMMENDED"
	RemarkNotJoined              = "NOT_JOINED"
)

// ValidRemark reports whether the remark belongs to the accepted vocabulary.
func ValidRemark(remark string) bool {
	switch remark {
	case RemarkHighlyRecommended, RemarkRecommended, RemarkNotRecommended,
		RemarkStronglyNotRecommended, RemarkNotJoined:
		return true
	}
	return false
}

// InterviewFeedback is the interviewer's evaluation for one interview.
type InterviewFeedback struct {
	ID                string    `db:"id" json:"id"`
	InterviewID       string    `db:"interview_id" json:"interview_id"`
	SkillPerformance  ScoreMap  `db:"skill_performance" json:"skill_performance"`
	SkillEvaluation   ScoreMap  `db:"skill_evaluation" json:"skill_evaluation"`
	Strengths         string    `db:"strengths" json:"strengths"`
	ImprovementPoints string    `db:"improvement_points" json:"improvement_points"`
	OverallRemark     *string   `db:"overall_remark" json:"overall_remark,omitempty"`
	OverallScore      int       `db:"overall_score" json:"overall_score"`
	IsSubmitted       bool      `db:"is_submitted" json:"is_submitted"`
	ReportPath        string    `db:"report_path" json:"report_path,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
