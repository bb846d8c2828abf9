package scheduling

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	services     map[uuid.UUID]*model.Service

	createErr error
	updateErr error
}

func newFakeAppointmentRepo(services map[uuid.UUID]*model.Service) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		services:     services,
	}
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment", nil)
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	appt, ok := r.appointments[id]
	if !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	appt.Status = status
	return nil
}

func (r *fakeAppointmentRepo) ListForEmployeeBetween(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, appt := range r.appointments {
		if appt.EmployeeID != employeeID || appt.Status == model.AppointmentStatusCancelled {
			continue
		}
		if appt.StartTime.Before(from) || appt.StartTime.After(to) {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *fakeAppointmentRepo) hasOverlap(appt *model.Appointment, end time.Time, excludeID *uuid.UUID) bool {
	for _, existing := range r.appointments {
		if existing.EmployeeID != appt.EmployeeID || existing.Status == model.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		svc := r.services[existing.ServiceID]
		existingEnd := existing.End(svc.Duration)
		if appt.StartTime.Before(existingEnd) && end.After(existing.StartTime) {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) CreateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.hasOverlap(appt, end, nil) {
		return apperrors.ErrSlotTaken
	}
	appt.ID = uuid.New()
	copied := *appt
	r.appointments[appt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) UpdateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.appointments[appt.ID]; !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	if r.hasOverlap(appt, end, &appt.ID) {
		return apperrors.ErrSlotTaken
	}
	copied := *appt
	r.appointments[appt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) ListEvents(_ context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error) {
	var events []*model.CalendarEvent
	for _, appt := range r.appointments {
		if employeeID != uuid.Nil && appt.EmployeeID != employeeID {
			continue
		}
		svc := r.services[appt.ServiceID]
		events = append(events, &model.CalendarEvent{
			ID:         appt.ID,
			Start:      appt.StartTime,
			End:        appt.End(svc.Duration),
			EmployeeID: appt.EmployeeID,
		})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (r *fakeAppointmentRepo) ListEventsForClient(_ context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error) {
	var events []*model.CalendarEvent
	for _, appt := range r.appointments {
		if appt.ClientID != clientID {
			continue
		}
		svc := r.services[appt.ServiceID]
		events = append(events, &model.CalendarEvent{
			ID:         appt.ID,
			Start:      appt.StartTime,
			End:        appt.End(svc.Duration),
			EmployeeID: appt.EmployeeID,
		})
	}
	return events, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *model.Service) error {
	svc.ID = uuid.New()
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.ErrServiceNotFound
	}
	return svc, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, svc *model.Service) error {
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) List(_ context.Context, includeHidden bool) ([]*model.Service, error) {
	var result []*model.Service
	for _, svc := range r.services {
		if svc.Hidden && !includeHidden {
			continue
		}
		result = append(result, svc)
	}
	return result, nil
}

func (r *fakeServiceRepo) SetHidden(_ context.Context, id uuid.UUID, hidden bool) error {
	r.services[id].Hidden = hidden
	return nil
}

type fakeDiscountRepo struct {
	discounts map[uuid.UUID]*model.Discount
	assigned  map[uuid.UUID]uuid.UUID // clientID -> discountID
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{
		discounts: make(map[uuid.UUID]*model.Discount),
		assigned:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeDiscountRepo) Create(_ context.Context, d *model.Discount) error {
	d.ID = uuid.New()
	r.discounts[d.ID] = d
	return nil
}

func (r *fakeDiscountRepo) Get(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	d, ok := r.discounts[id]
	if !ok {
		return nil, apperrors.NewNotFound("discount", nil)
	}
	return d, nil
}

func (r *fakeDiscountRepo) Update(_ context.Context, d *model.Discount) error  { return nil }
func (r *fakeDiscountRepo) List(_ context.Context) ([]*model.Discount, error) { return nil, nil }
func (r *fakeDiscountRepo) ListActive(_ context.Context) ([]*model.Discount, error) {
	return nil, nil
}
func (r *fakeDiscountRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (r *fakeDiscountRepo) AssignToClient(_ context.Context, clientID, discountID uuid.UUID) error {
	r.assigned[clientID] = discountID
	return nil
}

func (r *fakeDiscountRepo) GetActiveForClient(_ context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error) {
	discountID, ok := r.assigned[clientID]
	if !ok {
		return nil, nil
	}
	d := r.discounts[discountID]
	if !d.Active || at.Before(d.StartDate) || at.After(d.EndDate) {
		return nil, nil
	}
	return d, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeClientRepo struct {
	profiles map[uuid.UUID]*model.ClientProfile
}

func (r *fakeClientRepo) CreateWithUser(_ context.Context, user *model.User, client *model.Client) error {
	return nil
}

func (r *fakeClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	return nil, apperrors.NewNotFound("client", nil)
}

func (r *fakeClientRepo) GetProfile(_ context.Context, id uuid.UUID) (*model.ClientProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.NewNotFound("client", nil)
	}
	return profile, nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *model.Client, user *model.User) error {
	return nil
}

func (r *fakeClientRepo) SetDeactivated(_ context.Context, id uuid.UUID, deactivated bool) error {
	return nil
}

func (r *fakeClientRepo) List(_ context.Context, p model.Pagination) ([]*model.ClientProfile, int, error) {
	return nil, 0, nil
}

func (r *fakeClientRepo) Search(_ context.Context, name string) ([]*model.ClientProfile, error) {
	return nil, nil
}

type fakeNotifier struct {
	confirmations []string
	cancellations []string
}

func (n *fakeNotifier) SendBookingConfirmation(_ context.Context, to, name string, start, end time.Time) error {
	n.confirmations = append(n.confirmations, to)
	return nil
}

func (n *fakeNotifier) SendCancellation(_ context.Context, to, name string, start time.Time) error {
	n.cancellations = append(n.cancellations, to)
	return nil
}

type fixture struct {
	svc          *Service
	appointments *fakeAppointmentRepo
	services     *fakeServiceRepo
	discounts    *fakeDiscountRepo
	outbox       *fakeOutboxRepo
	notifier     *fakeNotifier

	employeeID uuid.UUID
	clientID   uuid.UUID
	haircut    *model.Service // 60 minutes
	manicure   *model.Service // 30 minutes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	services := make(map[uuid.UUID]*model.Service)
	haircut := &model.Service{Name: "Haircut", Duration: 60, Price: 50}
	haircut.ID = uuid.New()
	manicure := &model.Service{Name: "Manicure", Duration: 30, Price: 35}
	manicure.ID = uuid.New()
	services[haircut.ID] = haircut
	services[manicure.ID] = manicure

	appointments := newFakeAppointmentRepo(services)
	serviceRepo := &fakeServiceRepo{services: services}
	discounts := newFakeDiscountRepo()
	outbox := &fakeOutboxRepo{}
	notifier := &fakeNotifier{}

	clientID := uuid.New()
	clients := &fakeClientRepo{profiles: map[uuid.UUID]*model.ClientProfile{
		clientID: {ClientID: clientID, FullName: "Anna Kovalenko", Email: "anna@example.com"},
	}}

	log := logger.NewLogger(nil)
	svc := NewService(appointments, serviceRepo, discounts, clients, outbox, notifier, log, nil)

	return &fixture{
		svc:          svc,
		appointments: appointments,
		services:     serviceRepo,
		discounts:    discounts,
		outbox:       outbox,
		notifier:     notifier,
		employeeID:   uuid.New(),
		clientID:     clientID,
		haircut:      haircut,
		manicure:     manicure,
	}
}

func (f *fixture) addAppointment(serviceID uuid.UUID, start time.Time) *model.Appointment {
	appt := &model.Appointment{
		ID:         uuid.New(),
		ClientID:   f.clientID,
		ServiceID:  serviceID,
		EmployeeID: f.employeeID,
		StartTime:  start,
		Status:     model.AppointmentStatusScheduled,
	}
	f.appointments.appointments[appt.ID] = appt
	return appt
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.September, 14, hour, minute, 0, 0, time.Local)
}

func TestCheckAvailability_EmptyDay(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Nil(t, result.NextAvailable)
}

func TestCheckAvailability_OverlapReportsNextFreeTime(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0)) // occupies 10:00-11:00

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 30), time.Hour, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.NotNil(t, result.NextAvailable)
	assert.True(t, result.NextAvailable.Equal(at(11, 0)))
	assert.Contains(t, result.Message, "next available time")
}

func TestCheckAvailability_AdjacentSlotsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0)) // occupies 10:00-11:00

	// Ends exactly when the existing one starts.
	before, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(9, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, before.Available)

	// Starts exactly when the existing one ends.
	after, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(11, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, after.Available)
}

func TestCheckAvailability_ProposedContainsExisting(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.manicure.ID, at(10, 0)) // occupies 10:00-10:30

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(9, 30), 2*time.Hour, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.NotNil(t, result.NextAvailable)
	assert.True(t, result.NextAvailable.Equal(at(10, 30)))
}

func TestCheckAvailability_ExistingContainsProposed(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0)) // occupies 10:00-11:00

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 15), 30*time.Minute, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.NotNil(t, result.NextAvailable)
	assert.True(t, result.NextAvailable.Equal(at(11, 0)))
}

func TestCheckAvailability_FirstConflictChronologically(t *testing.T) {
	f := newFixture(t)
	// Two bookings both overlapping a 10:15-12:15 proposal. The reported
	// next free instant must come from the earlier one.
	f.addAppointment(f.manicure.ID, at(11, 30)) // 11:30-12:00
	f.addAppointment(f.manicure.ID, at(10, 30)) // 10:30-11:00

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 15), 2*time.Hour, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.NotNil(t, result.NextAvailable)
	assert.True(t, result.NextAvailable.Equal(at(11, 0)))
}

func TestCheckAvailability_OtherDayIgnored(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0).AddDate(0, 0, -1))
	f.addAppointment(f.haircut.ID, at(10, 0).AddDate(0, 0, 1))

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailability_OtherEmployeeIgnored(t *testing.T) {
	f := newFixture(t)
	other := f.addAppointment(f.haircut.ID, at(10, 0))
	other.EmployeeID = uuid.New()

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailability_CancelledIgnored(t *testing.T) {
	f := newFixture(t)
	cancelled := f.addAppointment(f.haircut.ID, at(10, 0))
	cancelled.Status = model.AppointmentStatusCancelled

	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailability_ExcludeSelf(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.haircut.ID, at(10, 0))

	// Same slot conflicts with itself unless excluded.
	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)

	result, err = f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, &appt.ID)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailability_MissingServiceAborts(t *testing.T) {
	f := newFixture(t)
	ghost := f.addAppointment(f.haircut.ID, at(10, 0))
	ghost.ServiceID = uuid.New() // no such service row

	_, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 30), time.Hour, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0))

	first, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 30), time.Hour, nil)
	require.NoError(t, err)
	second, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 30), time.Hour, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Available, second.Available)
	assert.Equal(t, first.Message, second.Message)
	assert.True(t, first.NextAvailable.Equal(*second.NextAvailable))
}

func TestBookAppointment_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.NotNil(t, result.Appointment)
	assert.Equal(t, model.AppointmentStatusScheduled, result.Appointment.Status)
	assert.Equal(t, 50.0, result.Appointment.Price)
	require.NotNil(t, result.EndTime)
	assert.True(t, result.EndTime.Equal(at(11, 0)))

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, EventAppointmentCreated, f.outbox.events[0].EventType)
}

func TestBookAppointment_Conflict(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0))

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.manicure.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 45),
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Nil(t, result.Appointment)
	require.NotNil(t, result.Availability)
	assert.True(t, result.Availability.NextAvailable.Equal(at(11, 0)))
	assert.Empty(t, f.outbox.events)
}

func TestBookAppointment_UnknownService(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  uuid.New(),
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestBookAppointment_LostRaceReportsConflict(t *testing.T) {
	f := newFixture(t)
	// The insert finds the slot taken even though the check passed.
	f.appointments.createErr = apperrors.ErrSlotTaken

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	require.NotNil(t, result.Availability)
	assert.False(t, result.Availability.Available)
}

func TestBookAppointment_AppliesAssignedDiscount(t *testing.T) {
	f := newFixture(t)

	discount := &model.Discount{
		Type:      model.DiscountTypePercentage,
		Value:     20,
		StartDate: at(0, 0).AddDate(0, -1, 0),
		EndDate:   at(0, 0).AddDate(0, 1, 0),
		Active:    true,
	}
	require.NoError(t, f.discounts.Create(context.Background(), discount))
	require.NoError(t, f.discounts.AssignToClient(context.Background(), f.clientID, discount.ID))

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.NoError(t, err)
	require.True(t, result.Created)
	assert.Equal(t, 40.0, result.Appointment.Price)
	require.NotNil(t, result.Appointment.DiscountID)
	assert.Equal(t, discount.ID, *result.Appointment.DiscountID)
}

func TestBookAppointment_ExpiredDiscountIgnored(t *testing.T) {
	f := newFixture(t)

	discount := &model.Discount{
		Type:      model.DiscountTypeFixed,
		Value:     10,
		StartDate: at(0, 0).AddDate(0, -2, 0),
		EndDate:   at(0, 0).AddDate(0, -1, 0),
		Active:    true,
	}
	require.NoError(t, f.discounts.Create(context.Background(), discount))

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
		DiscountID: &discount.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Created)
	assert.Equal(t, 50.0, result.Appointment.Price)
	assert.Nil(t, result.Appointment.DiscountID)
}

func TestReschedule_ToAdjacentSlot(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.haircut.ID, at(10, 0))

	// Moving by 30 minutes overlaps the booking's own old slot, which must
	// not block the move.
	result, err := f.svc.RescheduleAppointment(context.Background(), appt.ID, &model.RescheduleAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 30),
	})
	require.NoError(t, err)
	assert.True(t, result.Created)

	stored, err := f.svc.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartTime.Equal(at(10, 30)))
}

func TestReschedule_ConflictWithOtherBooking(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.manicure.ID, at(9, 0))
	f.addAppointment(f.haircut.ID, at(10, 0))

	result, err := f.svc.RescheduleAppointment(context.Background(), appt.ID, &model.RescheduleAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.manicure.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 15),
	})
	require.NoError(t, err)
	assert.False(t, result.Created)

	// Unchanged on conflict.
	stored, err := f.svc.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartTime.Equal(at(9, 0)))
}

func TestReschedule_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RescheduleAppointment(context.Background(), uuid.New(), &model.RescheduleAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.haircut.ID, at(10, 0))

	require.NoError(t, f.svc.CancelAppointment(context.Background(), appt.ID))

	stored, err := f.svc.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)

	// Cancelling twice is a conflict.
	err = f.svc.CancelAppointment(context.Background(), appt.ID)
	require.Error(t, err)

	// The freed slot is bookable again.
	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestBookAppointment_SendsConfirmationEmail(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.NoError(t, err)
	require.True(t, result.Created)

	require.Len(t, f.notifier.confirmations, 1)
	assert.Equal(t, "anna@example.com", f.notifier.confirmations[0])
	assert.Empty(t, f.notifier.cancellations)
}

func TestCancelAppointment_SendsCancellationEmail(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.haircut.ID, at(10, 0))

	require.NoError(t, f.svc.CancelAppointment(context.Background(), appt.ID))

	require.Len(t, f.notifier.cancellations, 1)
	assert.Equal(t, "anna@example.com", f.notifier.cancellations[0])

	// A failed cancel must not notify again.
	require.Error(t, f.svc.CancelAppointment(context.Background(), appt.ID))
	assert.Len(t, f.notifier.cancellations, 1)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(f.haircut.ID, at(10, 0))

	require.NoError(t, f.svc.DeleteAppointment(context.Background(), appt.ID))

	_, err := f.svc.GetAppointment(context.Background(), appt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	err = f.svc.DeleteAppointment(context.Background(), appt.ID)
	require.Error(t, err)
}

func TestListAppointments_FilterByEmployee(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.haircut.ID, at(10, 0))
	other := f.addAppointment(f.manicure.ID, at(12, 0))
	other.EmployeeID = uuid.New()

	all, err := f.svc.ListAppointments(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.ListAppointments(context.Background(), f.employeeID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.employeeID, mine[0].EmployeeID)
}

func TestBookedSlotRoundTrip(t *testing.T) {
	f := newFixture(t)

	booked, err := f.svc.BookAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:   f.clientID,
		ServiceID:  f.haircut.ID,
		EmployeeID: f.employeeID,
		StartTime:  at(10, 0),
	})
	require.NoError(t, err)
	require.True(t, booked.Created)

	// The slot just booked must now be reported occupied, with the booking's
	// end as the next free instant.
	result, err := f.svc.CheckAvailability(context.Background(), f.employeeID, at(10, 0), time.Hour, nil)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.True(t, result.NextAvailable.Equal(at(11, 0)))
}

func TestOverlapPredicate(t *testing.T) {
	existingStart, existingEnd := at(10, 0), at(11, 0)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected bool
	}{
		{"identical", at(10, 0), at(11, 0), true},
		{"starts inside", at(10, 30), at(11, 30), true},
		{"ends inside", at(9, 30), at(10, 30), true},
		{"contains", at(9, 0), at(12, 0), true},
		{"contained", at(10, 15), at(10, 45), true},
		{"ends at start", at(9, 0), at(10, 0), false},
		{"starts at end", at(11, 0), at(12, 0), false},
		{"before", at(8, 0), at(9, 0), false},
		{"after", at(12, 0), at(13, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, overlaps(tc.start, tc.end, existingStart, existingEnd))
		})
	}
}

func TestDayBounds(t *testing.T) {
	start, end := dayBounds(at(15, 42))
	assert.True(t, start.Equal(at(0, 0)))
	assert.True(t, end.Before(at(0, 0).AddDate(0, 0, 1)))
	assert.True(t, end.After(at(23, 59)))
}
