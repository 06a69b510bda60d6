package models

import "time"

// Billing ledger reasons and record types.
const (
	BillingReasonFeedbackSubmitted = "feedback_submitted"

	RecordTypeClientBilling      = "CLIENT_BILLING"
	RecordTypeInterviewerPayment = "INTERVIEWER_PAYMENT"

	BillingStatusPending = "PENDING"
)

// InterviewerPricing is the platform payout for an experience band.
type InterviewerPricing struct {
	ExperienceBand string  `db:"experience_band" json:"experience_band"`
	Price          float64 `db:"price" json:"price"`
}

// ClientAgreement is the negotiated per-interview rate for one organization
// and experience band.
type ClientAgreement struct {
	ID             string  `db:"id" json:"id"`
	OrganizationID string  `db:"organization_id" json:"organization_id"`
	ExperienceBand string  `db:"experience_band" json:"experience_band"`
	Rate           float64 `db:"rate" json:"rate"`
}

// BillingEntry is one ledger line tied to an interview and a reason.
// UNIQUE (interview_id, reason) makes the trigger idempotent.
type BillingEntry struct {
	ID                   string    `db:"id" json:"id"`
	InterviewID          string    `db:"interview_id" json:"interview_id"`
	Reason               string    `db:"reason" json:"reason"`
	OrganizationID       string    `db:"organization_id" json:"organization_id"`
	InterviewerID        string    `db:"interviewer_id" json:"interviewer_id"`
	AmountForClient      float64   `db:"amount_for_client" json:"amount_for_client"`
	AmountForInterviewer float64   `db:"amount_for_interviewer" json:"amount_for_interviewer"`
	BillingMonth         time.Time `db:"billing_month" json:"billing_month"`
	IsBillingCalculated  bool      `db:"is_billing_calculated" json:"is_billing_calculated"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// BillingRecord is the monthly aggregate owed by a client or owed to an
// interviewer.
type BillingRecord struct {
	ID             string    `db:"id" json:"id"`
	PublicID       string    `db:"public_id" json:"public_id"`
	BillingMonth   time.Time `db:"billing_month" json:"billing_month"`
	RecordType     string    `db:"record_type" json:"record_type"`
	Status         string    `db:"status" json:"status"`
	AmountDue      float64   `db:"amount_due" json:"amount_due"`
	DueDate        time.Time `db:"due_date" json:"due_date"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	InterviewerID  *string   `db:"interviewer_id" json:"interviewer_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// BillingRecordFilter describes query params for listing billing records.
type BillingRecordFilter struct {
	OrganizationID string
	InterviewerID  string
	RecordType     string
	Month          *time.Time
	Page           int
	PageSize       int
}

var (
	interviewerBandBounds = []int{4, 7, 10}
	interviewerBandLabels = []string{"0-4", "4-7", "7-10", "10+"}

	clientBandBounds = []int{4, 6, 8, 10}
	clientBandLabels = []string{"0-4", "4-6", "6-8", "8-10", "10+"}
)

// InterviewerBandFor buckets candidate experience into the payout band.
// An exact year boundary with zero months belongs to the lower band.
func InterviewerBandFor(years, months int) string {
	return bandFor(years, months, interviewerBandBounds, interviewerBandLabels)
}

// ClientBandFor buckets candidate experience into the client rate band.
func ClientBandFor(years, months int) string {
	return bandFor(years, months, clientBandBounds, clientBandLabels)
}

func bandFor(years, months int, bounds []int, labels []string) string {
	for i, upper := range bounds {
		if years < upper || (years == upper && months == 0) {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}

// MonthStart truncates an instant to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DueDateFor returns the payment due date for a billing month: the last day
// of the month plus a grace period.
func DueDateFor(month time.Time, graceDays int) time.Time {
	endOfMonth := MonthStart(month).AddDate(0, 1, -1)
	return endOfMonth.AddDate(0, 0, graceDays)
}
