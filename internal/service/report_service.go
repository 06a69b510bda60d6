package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/pkg/export"
	"github.com/hiredeck/scheduling-api/pkg/jobs"
	"github.com/hiredeck/scheduling-api/pkg/storage"
)

type reportPathWriter interface {
	SetReportPath(ctx context.Context, interviewID, path string) error
}

type reportJob struct {
	interviewID string
	report      export.FeedbackReport
}

// ReportService renders feedback report PDFs in the background and stores
// them on disk. Rendering failures are retried by the queue and never affect
// the feedback transaction.
type ReportService struct {
	queue   *jobs.Queue
	pdf     *export.FeedbackPDF
	store   *storage.LocalStorage
	writer  reportPathWriter
	logger  *zap.Logger
	enabled bool
}

// ReportServiceConfig tunes the render queue.
type ReportServiceConfig struct {
	Enabled     bool
	Concurrency int
	MaxRetries  int
}

// NewReportService constructs the service.
func NewReportService(pdf *export.FeedbackPDF, store *storage.LocalStorage, writer reportPathWriter, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		pdf:     pdf,
		store:   store,
		writer:  writer,
		logger:  logger,
		enabled: cfg.Enabled,
	}
	s.queue = jobs.NewQueue("reports", s.handle, jobs.QueueConfig{
		Workers:    cfg.Concurrency,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the render workers.
func (s *ReportService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the render workers.
func (s *ReportService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// Enqueue schedules a report render for a finalized interview. Enqueue
// failures are logged only.
func (s *ReportService) Enqueue(detail *models.InterviewDetail, feedback *models.InterviewFeedback) {
	if s == nil || !s.enabled || detail == nil || feedback == nil {
		return
	}

	report := export.FeedbackReport{
		CandidateName:   detail.CandidateName,
		InterviewerName: detail.InterviewerName,
		PositionName:    detail.PositionName,
		OverallScore:    feedback.OverallScore,
		Strengths:       feedback.Strengths,
		Improvements:    feedback.ImprovementPoints,
		SkillScores:     map[string]int(feedback.SkillEvaluation),
	}
	if feedback.OverallRemark != nil {
		report.OverallRemark = *feedback.OverallRemark
	}
	if detail.ScheduledTime != nil {
		report.InterviewDate = detail.ScheduledTime.Format("2006-01-02 15:04 MST")
	}

	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "feedback_report",
		Payload: reportJob{interviewID: detail.ID, report: report},
	})
	if err != nil {
		s.logger.Error("failed to enqueue feedback report",
			zap.String("interview_id", detail.ID), zap.Error(err))
	}
}

func (s *ReportService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(reportJob)
	if !ok {
		s.logger.Error("report job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	data, err := s.pdf.Render(payload.report)
	if err != nil {
		return fmt.Errorf("render report for interview %s: %w", payload.interviewID, err)
	}

	filename := fmt.Sprintf("feedback/%s.pdf", payload.interviewID)
	path, err := s.store.Save(filename, data)
	if err != nil {
		return err
	}

	if err := s.writer.SetReportPath(ctx, payload.interviewID, path); err != nil {
		return err
	}
	s.logger.Info("feedback report stored",
		zap.String("interview_id", payload.interviewID), zap.String("path", path))
	return nil
}
