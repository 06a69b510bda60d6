package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const billingEntryColumns = `id, interview_id, reason, organization_id, interviewer_id,
amount_for_client, amount_for_interviewer, billing_month, is_billing_calculated, created_at, updated_at`

const billingRecordColumns = `id, public_id, billing_month, record_type, status, amount_due,
due_date, organization_id, interviewer_id, created_at, updated_at`

// BillingRepository manages pricing lookups, the billing ledger and monthly
// aggregates.
type BillingRepository struct {
	db *sqlx.DB
}

// NewBillingRepository builds repository.
func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InterviewerPrice returns the payout for an experience band.
func (r *BillingRepository) InterviewerPrice(ctx context.Context, band string) (float64, error) {
	const query = `SELECT price FROM interviewer_pricing WHERE experience_band = $1`
	var price float64
	if err := r.db.GetContext(ctx, &price, query, band); err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.ErrPricingNotConfigured
		}
		return 0, fmt.Errorf("get interviewer price: %w", err)
	}
	return price, nil
}

// ClientRate returns the negotiated rate for an organization and band.
func (r *BillingRepository) ClientRate(ctx context.Context, organizationID, band string) (float64, error) {
	const query = `SELECT rate FROM client_agreements WHERE organization_id = $1 AND experience_band = $2`
	var rate float64
	if err := r.db.GetContext(ctx, &rate, query, organizationID, band); err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.ErrPricingNotConfigured
		}
		return 0, fmt.Errorf("get client rate: %w", err)
	}
	return rate, nil
}

// GetOrCreateEntry inserts a ledger line for (interview, reason) or returns
// the existing one. The second return reports whether a new line was created.
func (r *BillingRepository) GetOrCreateEntry(ctx context.Context, exec sqlx.ExtContext, entry *models.BillingEntry) (*models.BillingEntry, bool, error) {
	target := r.exec(exec)
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const insert = `
INSERT INTO billing_ledger (id, interview_id, reason, organization_id, interviewer_id,
amount_for_client, amount_for_interviewer, billing_month, is_billing_calculated, created_at, updated_at)
VALUES (:id, :interview_id, :reason, :organization_id, :interviewer_id,
:amount_for_client, :amount_for_interviewer, :billing_month, :is_billing_calculated, :created_at, :updated_at)
ON CONFLICT (interview_id, reason) DO NOTHING`
	res, err := sqlx.NamedExecContext(ctx, target, insert, entry)
	if err != nil {
		return nil, false, fmt.Errorf("insert billing entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return entry, true, nil
	}

	query := `SELECT ` + billingEntryColumns + ` FROM billing_ledger WHERE interview_id = $1 AND reason = $2`
	var existing models.BillingEntry
	if err := sqlx.GetContext(ctx, target, &existing, query, entry.InterviewID, entry.Reason); err != nil {
		return nil, false, fmt.Errorf("get billing entry: %w", err)
	}
	return &existing, false, nil
}

// MarkEntryCalculated flags a ledger line as aggregated.
func (r *BillingRepository) MarkEntryCalculated(ctx context.Context, exec sqlx.ExtContext, id string) error {
	target := r.exec(exec)
	const query = `UPDATE billing_ledger SET is_billing_calculated = TRUE, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark billing entry calculated: %w", err)
	}
	return nil
}

// AddToClientRecord upserts the client's monthly aggregate and adds amount.
func (r *BillingRepository) AddToClientRecord(ctx context.Context, exec sqlx.ExtContext, organizationID string, month time.Time, amount float64, dueDate time.Time) error {
	target := r.exec(exec)
	const query = `
INSERT INTO billing_records (id, public_id, billing_month, record_type, status, amount_due, due_date, organization_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (organization_id, billing_month) DO UPDATE
SET amount_due = billing_records.amount_due + EXCLUDED.amount_due,
    updated_at = now()`
	_, err := target.ExecContext(ctx, query,
		uuid.NewString(), uuid.NewString(), month, models.RecordTypeClientBilling,
		models.BillingStatusPending, amount, dueDate, organizationID)
	if err != nil {
		return fmt.Errorf("upsert client billing record: %w", err)
	}
	return nil
}

// AddToInterviewerRecord upserts the interviewer's monthly payout aggregate.
func (r *BillingRepository) AddToInterviewerRecord(ctx context.Context, exec sqlx.ExtContext, interviewerID string, month time.Time, amount float64, dueDate time.Time) error {
	target := r.exec(exec)
	const query = `
INSERT INTO billing_records (id, public_id, billing_month, record_type, status, amount_due, due_date, interviewer_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (interviewer_id, billing_month) DO UPDATE
SET amount_due = billing_records.amount_due + EXCLUDED.amount_due,
    updated_at = now()`
	_, err := target.ExecContext(ctx, query,
		uuid.NewString(), uuid.NewString(), month, models.RecordTypeInterviewerPayment,
		models.BillingStatusPending, amount, dueDate, interviewerID)
	if err != nil {
		return fmt.Errorf("upsert interviewer payment record: %w", err)
	}
	return nil
}

// ListRecords returns monthly billing records matching the filter.
func (r *BillingRepository) ListRecords(ctx context.Context, filter models.BillingRecordFilter) ([]models.BillingRecord, int, error) {
	conditions := "1=1"
	args := []interface{}{}
	idx := 1

	if filter.OrganizationID != "" {
		conditions += fmt.Sprintf(" AND organization_id = $%d", idx)
		args = append(args, filter.OrganizationID)
		idx++
	}
	if filter.InterviewerID != "" {
		conditions += fmt.Sprintf(" AND interviewer_id = $%d", idx)
		args = append(args, filter.InterviewerID)
		idx++
	}
	if filter.RecordType != "" {
		conditions += fmt.Sprintf(" AND record_type = $%d", idx)
		args = append(args, filter.RecordType)
		idx++
	}
	if filter.Month != nil {
		conditions += fmt.Sprintf(" AND billing_month = $%d", idx)
		args = append(args, models.MonthStart(*filter.Month))
		idx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM billing_records WHERE ` + conditions
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count billing records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := `SELECT ` + billingRecordColumns + ` FROM billing_records WHERE ` + conditions +
		fmt.Sprintf(" ORDER BY billing_month DESC, record_type ASC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var records []models.BillingRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list billing records: %w", err)
	}
	return records, total, nil
}
