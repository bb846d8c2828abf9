package visit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

type fakeVisitRepo struct {
	visits []*model.Visit
}

func (r *fakeVisitRepo) Create(_ context.Context, v *model.Visit) error {
	v.ID = uuid.New()
	r.visits = append(r.visits, v)
	return nil
}

func (r *fakeVisitRepo) ListForClient(_ context.Context, clientID uuid.UUID) ([]*model.Visit, error) {
	var result []*model.Visit
	for _, v := range r.visits {
		if v.ClientID == clientID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (r *fakeVisitRepo) TotalPaidBetween(_ context.Context, from, to time.Time) (float64, error) {
	var total float64
	for _, v := range r.visits {
		if !v.VisitDate.Before(from) && !v.VisitDate.After(to) {
			total += v.AmountPaid
		}
	}
	return total, nil
}

type fakeApptRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (r *fakeApptRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment", nil)
	}
	return appt, nil
}

func (r *fakeApptRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func (r *fakeApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	r.appointments[id].Status = status
	return nil
}

func (r *fakeApptRepo) ListForEmployeeBetween(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) CreateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	return nil
}

func (r *fakeApptRepo) UpdateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	return nil
}

func (r *fakeApptRepo) ListEvents(_ context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error) {
	return nil, nil
}

func (r *fakeApptRepo) ListEventsForClient(_ context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeVisitRepo, *fakeApptRepo) {
	visits := &fakeVisitRepo{}
	appts := &fakeApptRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	return NewService(visits, appts, logger.NewLogger(nil)), visits, appts
}

func TestMarkCompleted(t *testing.T) {
	svc, visits, appts := newTestService()

	clientID := uuid.New()
	appt := &model.Appointment{
		ID:       uuid.New(),
		ClientID: clientID,
		Status:   model.AppointmentStatusScheduled,
	}
	appts.appointments[appt.ID] = appt

	v, err := svc.MarkCompleted(context.Background(), &model.RecordVisitRequest{
		ClientID:      clientID,
		AppointmentID: appt.ID,
		AmountPaid:    45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45.0, v.AmountPaid)
	assert.Equal(t, model.AppointmentStatusCompleted, appt.Status)
	assert.Len(t, visits.visits, 1)

	// Completing twice is rejected.
	_, err = svc.MarkCompleted(context.Background(), &model.RecordVisitRequest{
		ClientID:      clientID,
		AppointmentID: appt.ID,
		AmountPaid:    45,
	})
	require.Error(t, err)
}

func TestMarkCompleted_CancelledAppointment(t *testing.T) {
	svc, _, appts := newTestService()

	clientID := uuid.New()
	appt := &model.Appointment{
		ID:       uuid.New(),
		ClientID: clientID,
		Status:   model.AppointmentStatusCancelled,
	}
	appts.appointments[appt.ID] = appt

	_, err := svc.MarkCompleted(context.Background(), &model.RecordVisitRequest{
		ClientID:      clientID,
		AppointmentID: appt.ID,
		AmountPaid:    45,
	})
	require.Error(t, err)
}

func TestMarkCompleted_WrongClient(t *testing.T) {
	svc, _, appts := newTestService()

	appt := &model.Appointment{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Status:   model.AppointmentStatusScheduled,
	}
	appts.appointments[appt.ID] = appt

	_, err := svc.MarkCompleted(context.Background(), &model.RecordVisitRequest{
		ClientID:      uuid.New(),
		AppointmentID: appt.ID,
		AmountPaid:    45,
	})
	require.Error(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
}

func TestFinancialReport(t *testing.T) {
	svc, visits, _ := newTestService()

	day := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	visits.visits = []*model.Visit{
		{ClientID: uuid.New(), VisitDate: day, AmountPaid: 50},
		{ClientID: uuid.New(), VisitDate: day.AddDate(0, 0, 1), AmountPaid: 30},
		{ClientID: uuid.New(), VisitDate: day.AddDate(0, 0, 30), AmountPaid: 100},
	}

	report, err := svc.FinancialReport(context.Background(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 80.0, report.TotalIncome)

	_, err = svc.FinancialReport(context.Background(), day, day.AddDate(0, 0, -1))
	require.Error(t, err)
}
