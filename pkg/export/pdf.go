package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
)

// FeedbackReport is the flattened payload rendered into the feedback PDF.
type FeedbackReport struct {
	CandidateName   string
	InterviewerName string
	PositionName    string
	InterviewDate   string
	OverallRemark   string
	OverallScore    int
	Strengths       string
	Improvements    string
	SkillScores     map[string]int
}

// FeedbackPDF renders interview feedback into a one-page summary document.
type FeedbackPDF struct{}

// NewFeedbackPDF constructs the renderer.
func NewFeedbackPDF() *FeedbackPDF {
	return &FeedbackPDF{}
}

// Render produces the PDF bytes for a report.
func (e *FeedbackPDF) Render(report FeedbackReport) ([]byte, error) {
	if report.CandidateName == "" {
		return nil, fmt.Errorf("feedback report requires a candidate name")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "INTERVIEW FEEDBACK REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, value, "", "", false)
	}

	writeRow("Candidate", report.CandidateName)
	writeRow("Interviewer", report.InterviewerName)
	writeRow("Position", report.PositionName)
	writeRow("Interview date", report.InterviewDate)
	writeRow("Overall remark", report.OverallRemark)
	writeRow("Overall score", fmt.Sprintf("%d / 100", report.OverallScore))
	pdf.Ln(4)

	if len(report.SkillScores) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Skill Evaluation", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(95, 8, "Skill", "1", 0, "C", false, 0, "")
		pdf.CellFormat(95, 8, "Score", "1", 1, "C", false, 0, "")

		skills := make([]string, 0, len(report.SkillScores))
		for skill := range report.SkillScores {
			skills = append(skills, skill)
		}
		sort.Strings(skills)

		pdf.SetFont("Arial", "", 9)
		for _, skill := range skills {
			pdf.CellFormat(95, 7, skill, "1", 0, "", false, 0, "")
			pdf.CellFormat(95, 7, fmt.Sprintf("%d", report.SkillScores[skill]), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	if report.Strengths != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Strengths", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 6, report.Strengths, "", "", false)
		pdf.Ln(2)
	}
	if report.Improvements != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Improvement Points", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 6, report.Improvements, "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render feedback pdf: %w", err)
	}
	return buf.Bytes(), nil
}
