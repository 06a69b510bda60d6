package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

type feedbackRepoMock struct {
	stored *models.InterviewFeedback
}

func (m *feedbackRepoMock) GetByInterview(_ context.Context, interviewID string) (*models.InterviewFeedback, error) {
	if m.stored == nil || m.stored.InterviewID != interviewID {
		return nil, appErrors.ErrNotFound
	}
	return m.stored, nil
}

func (m *feedbackRepoMock) Upsert(_ context.Context, _ sqlx.ExtContext, feedback *models.InterviewFeedback) error {
	m.stored = feedback
	return nil
}

type feedbackInterviewMock struct {
	detail    *models.InterviewDetail
	finalized map[string]string
}

func (m *feedbackInterviewMock) GetDetail(_ context.Context, id string) (*models.InterviewDetail, error) {
	if m.detail == nil || m.detail.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return m.detail, nil
}

func (m *feedbackInterviewMock) Finalize(_ context.Context, _ sqlx.ExtContext, id, status string, score, totalScore int) error {
	if m.finalized == nil {
		m.finalized = map[string]string{}
	}
	m.finalized[id] = status
	return nil
}

type recordAdd struct {
	party  string
	amount float64
	month  time.Time
	due    time.Time
}

type billingLedgerMock struct {
	price float64
	rate  float64

	priceMissing bool
	existing     *models.BillingEntry

	clientAdds      []recordAdd
	interviewerAdds []recordAdd
	calculated      []string
}

func (m *billingLedgerMock) InterviewerPrice(context.Context, string) (float64, error) {
	if m.priceMissing {
		return 0, appErrors.ErrPricingNotConfigured
	}
	return m.price, nil
}

func (m *billingLedgerMock) ClientRate(context.Context, string, string) (float64, error) {
	return m.rate, nil
}

func (m *billingLedgerMock) GetOrCreateEntry(_ context.Context, _ sqlx.ExtContext, entry *models.BillingEntry) (*models.BillingEntry, bool, error) {
	if m.existing != nil {
		return m.existing, false, nil
	}
	entry.ID = "entry-1"
	return entry, true, nil
}

func (m *billingLedgerMock) MarkEntryCalculated(_ context.Context, _ sqlx.ExtContext, id string) error {
	m.calculated = append(m.calculated, id)
	return nil
}

func (m *billingLedgerMock) AddToClientRecord(_ context.Context, _ sqlx.ExtContext, organizationID string, month time.Time, amount float64, dueDate time.Time) error {
	m.clientAdds = append(m.clientAdds, recordAdd{party: organizationID, amount: amount, month: month, due: dueDate})
	return nil
}

func (m *billingLedgerMock) AddToInterviewerRecord(_ context.Context, _ sqlx.ExtContext, interviewerID string, month time.Time, amount float64, dueDate time.Time) error {
	m.interviewerAdds = append(m.interviewerAdds, recordAdd{party: interviewerID, amount: amount, month: month, due: dueDate})
	return nil
}

type reportSpy struct {
	enqueued int
}

func (r *reportSpy) Enqueue(*models.InterviewDetail, *models.InterviewFeedback) {
	r.enqueued++
}

type feedbackFixture struct {
	svc        *FeedbackService
	feedback   *feedbackRepoMock
	interviews *feedbackInterviewMock
	candidates *candidateRepoMock
	billing    *billingLedgerMock
	reports    *reportSpy
	at         time.Time
}

func newFeedbackFixture() *feedbackFixture {
	at := time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC)
	jobID := "job-1"
	f := &feedbackFixture{
		feedback: &feedbackRepoMock{},
		interviews: &feedbackInterviewMock{detail: &models.InterviewDetail{
			Interview: models.Interview{
				ID:            "iv-1",
				CandidateID:   "cand-1",
				InterviewerID: "int-1",
				Status:        models.InterviewConfirmedScheduled,
				ScheduledTime: &at,
			},
			CandidateName:   "Noor",
			InterviewerName: "Dana",
			PositionName:    "Senior Backend Engineer",
			OrganizationID:  "org-1",
		}},
		candidates: newCandidateRepoMock(&models.Candidate{
			ID:               "cand-1",
			JobID:            &jobID,
			Name:             "Noor",
			Status:           models.CandidateConfirmedScheduled,
			ExperienceYears:  5,
			ExperienceMonths: 2,
		}),
		billing: &billingLedgerMock{price: 2000, rate: 3000},
		reports: &reportSpy{},
		at:      at,
	}
	f.svc = NewFeedbackService(
		f.feedback, f.interviews, f.candidates, f.billing, f.reports,
		passthroughTx{}, nil, nil, nil, 10, 15)
	return f
}

func TestSubmitFeedbackRejectsUnknownRemark(t *testing.T) {
	f := newFeedbackFixture()

	_, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: "MAYBE",
		OverallScore:  50,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSubmitFeedbackRejectsRescheduledInterview(t *testing.T) {
	f := newFeedbackFixture()
	f.interviews.detail.Status = models.InterviewRescheduled

	_, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: models.RemarkRecommended,
		OverallScore:  70,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSubmitFeedbackPostsBillingOnce(t *testing.T) {
	f := newFeedbackFixture()

	feedback, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: models.RemarkRecommended,
		OverallScore:  72,
		Strengths:     "solid systems design",
	})
	require.NoError(t, err)
	assert.True(t, feedback.IsSubmitted)

	assert.Equal(t, models.RemarkRecommended, f.interviews.finalized["iv-1"])
	assert.Equal(t, models.RemarkRecommended, f.candidates.statusSet["cand-1"])

	month := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.Len(t, f.billing.clientAdds, 1)
	assert.Equal(t, "org-1", f.billing.clientAdds[0].party)
	assert.Equal(t, 3000.0, f.billing.clientAdds[0].amount)
	assert.Equal(t, month, f.billing.clientAdds[0].month)
	assert.Equal(t, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC), f.billing.clientAdds[0].due)

	require.Len(t, f.billing.interviewerAdds, 1)
	assert.Equal(t, "int-1", f.billing.interviewerAdds[0].party)
	assert.Equal(t, 2000.0, f.billing.interviewerAdds[0].amount)

	assert.Equal(t, []string{"entry-1"}, f.billing.calculated)
	assert.Equal(t, 1, f.reports.enqueued)
}

func TestSubmitFeedbackNoShowBillsProRata(t *testing.T) {
	f := newFeedbackFixture()

	_, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: models.RemarkNotJoined,
		OverallScore:  0,
	})
	require.NoError(t, err)

	// 15 of 60 minutes: 3000 -> 750 for the client, 2000 -> 500 payout.
	require.Len(t, f.billing.clientAdds, 1)
	assert.InDelta(t, 750.0, f.billing.clientAdds[0].amount, 0.001)
	require.Len(t, f.billing.interviewerAdds, 1)
	assert.InDelta(t, 500.0, f.billing.interviewerAdds[0].amount, 0.001)

	assert.Equal(t, models.InterviewNotJoined, f.interviews.finalized["iv-1"])
	assert.Equal(t, models.CandidateNotJoined, f.candidates.statusSet["cand-1"])
}

func TestSubmitFeedbackResubmissionNeverDoubleBills(t *testing.T) {
	f := newFeedbackFixture()
	f.billing.existing = &models.BillingEntry{
		ID:                  "entry-1",
		InterviewID:         "iv-1",
		Reason:              models.BillingReasonFeedbackSubmitted,
		IsBillingCalculated: true,
	}

	feedback, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: models.RemarkHighlyRecommended,
		OverallScore:  91,
	})
	require.NoError(t, err)
	assert.True(t, feedback.IsSubmitted)

	assert.Empty(t, f.billing.clientAdds)
	assert.Empty(t, f.billing.interviewerAdds)
	assert.Empty(t, f.billing.calculated)
}

func TestSubmitFeedbackSurfacesMissingPricing(t *testing.T) {
	f := newFeedbackFixture()
	f.billing.priceMissing = true

	_, err := f.svc.SubmitFeedback(context.Background(), "iv-1", SubmitFeedbackRequest{
		OverallRemark: models.RemarkRecommended,
		OverallScore:  60,
	})
	assert.ErrorIs(t, err, appErrors.ErrPricingNotConfigured)
	assert.Empty(t, f.billing.clientAdds)
}
