package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const slotColumns = `id, interviewer_id, start_at, end_at, booked_by, is_scheduled,
calendar_event_id, notes, archived_at, created_at, updated_at`

// pgExclusionViolation is the Postgres error code raised by the no-overlap
// exclusion constraint on availability_slots.
const pgExclusionViolation = "23P01"

// AvailabilityRepository manages interviewer availability slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository builds repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Insert stores a new slot.
func (r *AvailabilityRepository) Insert(ctx context.Context, exec sqlx.ExtContext, slot *models.AvailabilitySlot) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `
INSERT INTO availability_slots (id, interviewer_id, start_at, end_at, booked_by, is_scheduled, calendar_event_id, notes, created_at, updated_at)
VALUES (:id, :interviewer_id, :start_at, :end_at, :booked_by, :is_scheduled, :calendar_event_id, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgExclusionViolation {
			return appErrors.ErrSlotOverlap
		}
		return fmt.Errorf("insert availability slot: %w", err)
	}
	return nil
}

// GetByID returns a non-archived slot by id.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1 AND archived_at IS NULL`
	var slot models.AvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get availability slot: %w", err)
	}
	return &slot, nil
}

// GetByIDForUpdate locks a non-archived slot row inside the ambient
// transaction.
func (r *AvailabilityRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.AvailabilitySlot, error) {
	target := r.exec(exec)
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1 AND archived_at IS NULL FOR UPDATE`
	var slot models.AvailabilitySlot
	if err := sqlx.GetContext(ctx, target, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("lock availability slot: %w", err)
	}
	return &slot, nil
}

// GetManyUnbooked returns the subset of the given ids that exist, are not
// archived and are not yet booked.
func (r *AvailabilityRepository) GetManyUnbooked(ctx context.Context, ids []string) ([]models.AvailabilitySlot, error) {
	query, args, err := sqlx.In(`SELECT `+slotColumns+` FROM availability_slots
WHERE id IN (?) AND archived_at IS NULL AND booked_by IS NULL AND is_scheduled = FALSE`, ids)
	if err != nil {
		return nil, fmt.Errorf("build unbooked slots query: %w", err)
	}
	query = r.db.Rebind(query)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("select unbooked slots: %w", err)
	}
	return slots, nil
}

// HasOverlap reports whether a non-archived slot of the interviewer
// intersects [start, end).
func (r *AvailabilityRepository) HasOverlap(ctx context.Context, interviewerID string, start, end time.Time) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM availability_slots
WHERE interviewer_id = $1 AND archived_at IS NULL AND start_at < $3 AND end_at > $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, interviewerID, start, end); err != nil {
		return false, fmt.Errorf("check slot overlap: %w", err)
	}
	return exists, nil
}

// List returns slots matching the filter with a total count.
func (r *AvailabilityRepository) List(ctx context.Context, filter models.SlotFilter) ([]models.AvailabilitySlot, int, error) {
	conditions := "archived_at IS NULL"
	args := []interface{}{}
	idx := 1

	if filter.InterviewerID != "" {
		conditions += fmt.Sprintf(" AND interviewer_id = $%d", idx)
		args = append(args, filter.InterviewerID)
		idx++
	}
	if filter.From != nil {
		conditions += fmt.Sprintf(" AND end_at > $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		conditions += fmt.Sprintf(" AND start_at < $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	if filter.OnlyUnbooked {
		conditions += " AND booked_by IS NULL AND is_scheduled = FALSE"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM availability_slots WHERE ` + conditions
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count availability slots: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE ` + conditions +
		fmt.Sprintf(" ORDER BY start_at ASC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list availability slots: %w", err)
	}
	return slots, total, nil
}

// MarkBooked narrows a slot to the claimed window and records the booking.
func (r *AvailabilityRepository) MarkBooked(ctx context.Context, exec sqlx.ExtContext, id, bookedBy string, start, end time.Time) error {
	target := r.exec(exec)
	const query = `UPDATE availability_slots
SET start_at = $2, end_at = $3, booked_by = $4, is_scheduled = TRUE, updated_at = now()
WHERE id = $1 AND archived_at IS NULL`
	res, err := target.ExecContext(ctx, query, id, start, end, bookedBy)
	if err != nil {
		return fmt.Errorf("mark slot booked: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// Release clears the booking flags so the slot can be claimed again.
func (r *AvailabilityRepository) Release(ctx context.Context, exec sqlx.ExtContext, id string) error {
	target := r.exec(exec)
	const query = `UPDATE availability_slots
SET booked_by = NULL, is_scheduled = FALSE, updated_at = now()
WHERE id = $1 AND archived_at IS NULL`
	if _, err := target.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}

// Archive soft-deletes a slot.
func (r *AvailabilityRepository) Archive(ctx context.Context, exec sqlx.ExtContext, id string) error {
	target := r.exec(exec)
	const query = `UPDATE availability_slots SET archived_at = now(), updated_at = now()
WHERE id = $1 AND archived_at IS NULL`
	if _, err := target.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("archive slot: %w", err)
	}
	return nil
}

// SetCalendarEvent records the synced calendar event id.
func (r *AvailabilityRepository) SetCalendarEvent(ctx context.Context, exec sqlx.ExtContext, id, eventID string) error {
	target := r.exec(exec)
	const query = `UPDATE availability_slots SET calendar_event_id = $2, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, eventID); err != nil {
		return fmt.Errorf("set slot calendar event: %w", err)
	}
	return nil
}
