package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Bigidan/beauty-salon-ms/internal/email"
	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/metrics"
)

const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentDeleted     = "appointment.deleted"
)

// Service is the scheduling core: it decides whether a slot is free and is
// the only write path into the appointments table, so the per-employee
// non-overlap invariant is enforced here.
type Service struct {
	appointments  repository.AppointmentRepository
	services      repository.ServiceRepository
	discounts     repository.DiscountRepository
	clients       repository.ClientRepository
	outbox        repository.OutboxRepository
	notifier      email.Sender
	durationCache *gocache.Cache
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	discounts repository.DiscountRepository,
	clients repository.ClientRepository,
	outbox repository.OutboxRepository,
	notifier email.Sender,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments:  appointments,
		services:      services,
		discounts:     discounts,
		clients:       clients,
		outbox:        outbox,
		notifier:      notifier,
		durationCache: gocache.New(5*time.Minute, 10*time.Minute),
		logger:        log,
		metrics:       m,
	}
}

// dayBounds returns local wall-clock midnight and end-of-day for the day
// containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// overlaps reports whether [proposedStart, proposedEnd) intersects
// [existingStart, existingEnd). The intervals are half-open: a booking
// ending exactly when another starts does not conflict.
func overlaps(proposedStart, proposedEnd, existingStart, existingEnd time.Time) bool {
	startInside := !proposedStart.Before(existingStart) && proposedStart.Before(existingEnd)
	endInside := proposedEnd.After(existingStart) && !proposedEnd.After(existingEnd)
	contains := !proposedStart.After(existingStart) && !proposedEnd.Before(existingEnd)
	return startInside || endInside || contains
}

// serviceDuration resolves a service's duration in minutes, caching hits.
// A missing service row aborts the check with ErrServiceNotFound rather
// than silently skipping the candidate.
func (s *Service) serviceDuration(ctx context.Context, serviceID uuid.UUID) (int, error) {
	if cached, ok := s.durationCache.Get(serviceID.String()); ok {
		return cached.(int), nil
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		return 0, err
	}

	s.durationCache.Set(serviceID.String(), svc.Duration, gocache.DefaultExpiration)
	return svc.Duration, nil
}

// CheckAvailability scans the employee's bookings for the calendar day
// containing proposedStart and reports whether [proposedStart,
// proposedStart+duration) is free. Candidates are scanned in start-time
// order, so on conflict NextAvailable is the end of the chronologically
// first overlapping booking. excludeID drops the appointment being edited
// from the candidate set.
func (s *Service) CheckAvailability(ctx context.Context, employeeID uuid.UUID, proposedStart time.Time, duration time.Duration, excludeID *uuid.UUID) (*model.AvailabilityResult, error) {
	if s.metrics != nil {
		timer := prometheus.NewTimer(s.metrics.AvailabilityChecks)
		defer timer.ObserveDuration()
	}

	proposedEnd := proposedStart.Add(duration)
	dayStart, dayEnd := dayBounds(proposedStart)

	candidates, err := s.appointments.ListForEmployeeBetween(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load day appointments: %w", err)
	}

	for _, candidate := range candidates {
		if excludeID != nil && candidate.ID == *excludeID {
			continue
		}

		existingDuration, err := s.serviceDuration(ctx, candidate.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve duration for appointment %s: %w", candidate.ID, err)
		}

		existingEnd := candidate.End(existingDuration)
		if overlaps(proposedStart, proposedEnd, candidate.StartTime, existingEnd) {
			next := existingEnd
			return &model.AvailabilityResult{
				Available:     false,
				NextAvailable: &next,
				Message:       fmt.Sprintf("time slot is occupied, next available time: %s", next.Format("15:04 02.01.2006")),
			}, nil
		}
	}

	return &model.AvailabilityResult{
		Available: true,
		Message:   "time slot is available",
	}, nil
}

// CheckSlot is the request-level wrapper: it resolves the service duration
// itself, mirroring how bookings are made.
func (s *Service) CheckSlot(ctx context.Context, req *model.CheckAvailabilityRequest) (*model.AvailabilityResult, error) {
	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(svc.Duration) * time.Minute
	return s.CheckAvailability(ctx, req.EmployeeID, req.StartTime, duration, req.ExcludeID)
}

// resolvePrice applies the client's discount, explicit or assigned, to the
// service price.
func (s *Service) resolvePrice(ctx context.Context, svc *model.Service, clientID uuid.UUID, discountID *uuid.UUID, at time.Time) (float64, *uuid.UUID, error) {
	var discount *model.Discount
	var err error

	if discountID != nil {
		discount, err = s.discounts.Get(ctx, *discountID)
		if err != nil {
			return 0, nil, err
		}
		if !discount.Active || at.Before(discount.StartDate) || at.After(discount.EndDate) {
			discount = nil
		}
	} else {
		discount, err = s.discounts.GetActiveForClient(ctx, clientID, at)
		if err != nil {
			return 0, nil, err
		}
	}

	if discount == nil {
		return svc.Price, nil, nil
	}
	return discount.Apply(svc.Price), &discount.ID, nil
}

// BookAppointment looks up the service, checks the slot and persists the
// booking. The insert re-checks overlaps under an employee row lock, so of
// two concurrent writers for the same slot exactly one succeeds; the loser
// receives the conflict result, not an error.
func (s *Service) BookAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.BookingResult, error) {
	if s.metrics != nil {
		s.metrics.BookingsAttempted.Inc()
	}

	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(svc.Duration) * time.Minute

	availability, err := s.CheckAvailability(ctx, req.EmployeeID, req.StartTime, duration, nil)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return s.conflictResult(availability), nil
	}

	price, discountID, err := s.resolvePrice(ctx, svc, req.ClientID, req.DiscountID, req.StartTime)
	if err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		ClientID:   req.ClientID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		StartTime:  req.StartTime,
		Status:     model.AppointmentStatusScheduled,
		Price:      price,
		DiscountID: discountID,
	}
	end := req.StartTime.Add(duration)

	if err := s.appointments.CreateIfFree(ctx, appt, end); err != nil {
		if errors.Is(err, apperrors.ErrSlotTaken) {
			// Lost the race: report it like any other occupied slot.
			availability, cerr := s.CheckAvailability(ctx, req.EmployeeID, req.StartTime, duration, nil)
			if cerr != nil || availability.Available {
				availability = &model.AvailabilityResult{
					Available: false,
					Message:   apperrors.ErrSlotTaken.Message,
				}
			}
			return s.conflictResult(availability), nil
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.publishEvent(ctx, EventAppointmentCreated, appt)
	s.notifyClient(ctx, appt, end)

	startTime := appt.StartTime
	return &model.BookingResult{
		Created:     true,
		Message:     "appointment created",
		Appointment: appt,
		StartTime:   &startTime,
		EndTime:     &end,
	}, nil
}

// RescheduleAppointment rewrites the booking's client, service, employee
// and start instant. The availability check runs first with the edited
// appointment excluded, so a booking never conflicts with itself.
func (s *Service) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.BookingResult, error) {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(svc.Duration) * time.Minute

	availability, err := s.CheckAvailability(ctx, req.EmployeeID, req.StartTime, duration, &id)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return s.conflictResult(availability), nil
	}

	price, discountID, err := s.resolvePrice(ctx, svc, req.ClientID, nil, req.StartTime)
	if err != nil {
		return nil, err
	}

	appt.ClientID = req.ClientID
	appt.ServiceID = req.ServiceID
	appt.EmployeeID = req.EmployeeID
	appt.StartTime = req.StartTime
	appt.Price = price
	appt.DiscountID = discountID
	end := req.StartTime.Add(duration)

	if err := s.appointments.UpdateIfFree(ctx, appt, end); err != nil {
		if errors.Is(err, apperrors.ErrSlotTaken) {
			availability = &model.AvailabilityResult{
				Available: false,
				Message:   apperrors.ErrSlotTaken.Message,
			}
			return s.conflictResult(availability), nil
		}
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.publishEvent(ctx, EventAppointmentRescheduled, appt)

	startTime := appt.StartTime
	return &model.BookingResult{
		Created:     true,
		Message:     "appointment rescheduled",
		Appointment: appt,
		StartTime:   &startTime,
		EndTime:     &end,
	}, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return err
	}

	if appt.Status == model.AppointmentStatusCancelled {
		return apperrors.NewConflict("appointment is already cancelled", nil)
	}
	if appt.Status == model.AppointmentStatusCompleted {
		return apperrors.NewConflict("cannot cancel a completed appointment", nil)
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCancelled); err != nil {
		return err
	}

	appt.Status = model.AppointmentStatusCancelled
	s.publishEvent(ctx, EventAppointmentCancelled, appt)
	s.notifyCancellation(ctx, appt)
	return nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, EventAppointmentDeleted, appt)
	return nil
}

// ListAppointments returns calendar events for one employee, or the whole
// salon when employeeID is uuid.Nil.
func (s *Service) ListAppointments(ctx context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error) {
	events, err := s.appointments.ListEvents(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return events, nil
}

func (s *Service) ListClientAppointments(ctx context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error) {
	events, err := s.appointments.ListEventsForClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client appointments: %w", err)
	}
	return events, nil
}

func (s *Service) conflictResult(availability *model.AvailabilityResult) *model.BookingResult {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
	return &model.BookingResult{
		Created:      false,
		Message:      availability.Message,
		Availability: availability,
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType string, appt *model.Appointment) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(appt)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event")
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue appointment event")
	}
}

// notifyClient sends the booking confirmation. A delivery failure never
// fails the booking.
func (s *Service) notifyClient(ctx context.Context, appt *model.Appointment, end time.Time) {
	if s.notifier == nil || s.clients == nil {
		return
	}

	profile, err := s.clients.GetProfile(ctx, appt.ClientID)
	if err != nil {
		s.logger.Error(err, "failed to load client for confirmation email")
		return
	}

	if err := s.notifier.SendBookingConfirmation(ctx, profile.Email, profile.FullName, appt.StartTime, end); err != nil {
		s.logger.Error(err, "failed to send confirmation email")
	}
}

func (s *Service) notifyCancellation(ctx context.Context, appt *model.Appointment) {
	if s.notifier == nil || s.clients == nil {
		return
	}

	profile, err := s.clients.GetProfile(ctx, appt.ClientID)
	if err != nil {
		s.logger.Error(err, "failed to load client for cancellation email")
		return
	}

	if err := s.notifier.SendCancellation(ctx, profile.Email, profile.FullName, appt.StartTime); err != nil {
		s.logger.Error(err, "failed to send cancellation email")
	}
}
