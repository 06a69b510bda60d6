package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/notify"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) error {
	return fn(ctx, nil)
}

type fakeNotifier struct {
	sent []notify.Message
}

func (n *fakeNotifier) Dispatch(msg notify.Message) {
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) DispatchMany(msgs []notify.Message) {
	n.sent = append(n.sent, msgs...)
}

type slotRepoMock struct {
	slots     map[string]*models.AvailabilitySlot
	overlap   bool
	insertErr error

	inserted []*models.AvailabilitySlot
	booked   []string
	released []string
	archived []string
}

func newSlotRepoMock(slots ...*models.AvailabilitySlot) *slotRepoMock {
	m := &slotRepoMock{slots: map[string]*models.AvailabilitySlot{}}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *slotRepoMock) Insert(_ context.Context, _ sqlx.ExtContext, slot *models.AvailabilitySlot) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	m.inserted = append(m.inserted, slot)
	m.slots[slot.ID] = slot
	return nil
}

func (m *slotRepoMock) GetByID(_ context.Context, id string) (*models.AvailabilitySlot, error) {
	slot, ok := m.slots[id]
	if !ok || slot.ArchivedAt != nil {
		return nil, appErrors.ErrNotFound
	}
	return slot, nil
}

func (m *slotRepoMock) GetByIDForUpdate(ctx context.Context, _ sqlx.ExtContext, id string) (*models.AvailabilitySlot, error) {
	return m.GetByID(ctx, id)
}

func (m *slotRepoMock) GetManyUnbooked(_ context.Context, ids []string) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, id := range ids {
		slot, ok := m.slots[id]
		if ok && slot.ArchivedAt == nil && !slot.Booked() {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (m *slotRepoMock) HasOverlap(context.Context, string, time.Time, time.Time) (bool, error) {
	return m.overlap, nil
}

func (m *slotRepoMock) List(context.Context, models.SlotFilter) ([]models.AvailabilitySlot, int, error) {
	var out []models.AvailabilitySlot
	for _, slot := range m.slots {
		out = append(out, *slot)
	}
	return out, len(out), nil
}

func (m *slotRepoMock) MarkBooked(_ context.Context, _ sqlx.ExtContext, id, bookedBy string, start, end time.Time) error {
	slot, ok := m.slots[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	slot.StartAt, slot.EndAt = start, end
	slot.BookedBy = &bookedBy
	slot.IsScheduled = true
	m.booked = append(m.booked, id)
	return nil
}

func (m *slotRepoMock) Release(_ context.Context, _ sqlx.ExtContext, id string) error {
	if slot, ok := m.slots[id]; ok {
		slot.BookedBy = nil
		slot.IsScheduled = false
	}
	m.released = append(m.released, id)
	return nil
}

func (m *slotRepoMock) Archive(_ context.Context, _ sqlx.ExtContext, id string) error {
	m.archived = append(m.archived, id)
	return nil
}

func (m *slotRepoMock) SetCalendarEvent(_ context.Context, _ sqlx.ExtContext, id, eventID string) error {
	if slot, ok := m.slots[id]; ok {
		slot.CalendarEventID = eventID
	}
	return nil
}

type interviewerDirectoryMock struct {
	interviewers map[string]*models.Interviewer
}

func (m *interviewerDirectoryMock) GetByID(_ context.Context, id string) (*models.Interviewer, error) {
	interviewer, ok := m.interviewers[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return interviewer, nil
}

type jobContextMock struct {
	jobs map[string]*models.JobContext
}

func (m *jobContextMock) GetContext(_ context.Context, id string) (*models.JobContext, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return job, nil
}
