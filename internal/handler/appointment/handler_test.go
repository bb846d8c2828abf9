package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/service/scheduling"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

type stubAppointmentRepo struct {
	appointments []*model.Appointment
	services     map[uuid.UUID]*model.Service
}

func (r *stubAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range r.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NewNotFound("appointment", nil)
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	return nil
}

func (r *stubAppointmentRepo) ListForEmployeeBetween(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range r.appointments {
		if a.EmployeeID == employeeID && !a.StartTime.Before(from) && !a.StartTime.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *stubAppointmentRepo) CreateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	for _, existing := range r.appointments {
		if existing.EmployeeID != appt.EmployeeID {
			continue
		}
		svc := r.services[existing.ServiceID]
		if appt.StartTime.Before(existing.End(svc.Duration)) && end.After(existing.StartTime) {
			return apperrors.ErrSlotTaken
		}
	}
	appt.ID = uuid.New()
	r.appointments = append(r.appointments, appt)
	return nil
}

func (r *stubAppointmentRepo) UpdateIfFree(_ context.Context, appt *model.Appointment, end time.Time) error {
	return nil
}

func (r *stubAppointmentRepo) ListEvents(_ context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error) {
	return nil, nil
}

func (r *stubAppointmentRepo) ListEventsForClient(_ context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error) {
	return nil, nil
}

type stubServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *stubServiceRepo) Create(_ context.Context, svc *model.Service) error { return nil }

func (r *stubServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.ErrServiceNotFound
	}
	return svc, nil
}

func (r *stubServiceRepo) Update(_ context.Context, svc *model.Service) error { return nil }

func (r *stubServiceRepo) List(_ context.Context, includeHidden bool) ([]*model.Service, error) {
	return nil, nil
}

func (r *stubServiceRepo) SetHidden(_ context.Context, id uuid.UUID, hidden bool) error { return nil }

type stubDiscountRepo struct{}

func (stubDiscountRepo) Create(_ context.Context, d *model.Discount) error { return nil }
func (stubDiscountRepo) Get(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	return nil, apperrors.NewNotFound("discount", nil)
}
func (stubDiscountRepo) Update(_ context.Context, d *model.Discount) error        { return nil }
func (stubDiscountRepo) List(_ context.Context) ([]*model.Discount, error)        { return nil, nil }
func (stubDiscountRepo) ListActive(_ context.Context) ([]*model.Discount, error)  { return nil, nil }
func (stubDiscountRepo) SetActive(_ context.Context, id uuid.UUID, b bool) error  { return nil }
func (stubDiscountRepo) AssignToClient(_ context.Context, c, d uuid.UUID) error   { return nil }
func (stubDiscountRepo) GetActiveForClient(_ context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error) {
	return nil, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *stubAppointmentRepo, *model.Service, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	haircut := &model.Service{Duration: 60, Price: 50}
	haircut.ID = uuid.New()
	services := map[uuid.UUID]*model.Service{haircut.ID: haircut}

	repo := &stubAppointmentRepo{services: services}
	svc := scheduling.NewService(
		repo,
		&stubServiceRepo{services: services},
		stubDiscountRepo{},
		nil, nil, nil,
		logger.NewLogger(nil),
		nil,
	)
	h := NewHandler(svc)

	engine := gin.New()
	engine.GET("/appointments/availability", h.CheckAvailability)
	engine.POST("/appointments", h.CreateAppointment)

	return engine, repo, haircut, uuid.New()
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	engine, repo, haircut, employeeID := setupRouter(t)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	repo.appointments = append(repo.appointments, &model.Appointment{
		ID:         uuid.New(),
		ClientID:   uuid.New(),
		ServiceID:  haircut.ID,
		EmployeeID: employeeID,
		StartTime:  start,
		Status:     model.AppointmentStatusScheduled,
	})

	url := fmt.Sprintf(
		"/appointments/availability?employee_id=%s&service_id=%s&start_time=%s",
		employeeID, haircut.ID, start.Add(30*time.Minute).Format(time.RFC3339),
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string                   `json:"status"`
		Data   model.AvailabilityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.False(t, resp.Data.Available)
	require.NotNil(t, resp.Data.NextAvailable)
	assert.True(t, resp.Data.NextAvailable.Equal(start.Add(time.Hour)))
}

func TestCheckAvailabilityEndpoint_ExcludesAppointment(t *testing.T) {
	engine, repo, haircut, employeeID := setupRouter(t)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	existing := &model.Appointment{
		ID:         uuid.New(),
		ClientID:   uuid.New(),
		ServiceID:  haircut.ID,
		EmployeeID: employeeID,
		StartTime:  start,
		Status:     model.AppointmentStatusScheduled,
	}
	repo.appointments = append(repo.appointments, existing)

	// Re-checking a booking's own slot with the booking excluded is free.
	url := fmt.Sprintf(
		"/appointments/availability?employee_id=%s&service_id=%s&start_time=%s&exclude_appointment_id=%s",
		employeeID, haircut.ID, start.Format(time.RFC3339), existing.ID,
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string                   `json:"status"`
		Data   model.AvailabilityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Available)
}

func TestCheckAvailabilityEndpoint_MalformedID(t *testing.T) {
	engine, _, haircut, _ := setupRouter(t)

	url := fmt.Sprintf(
		"/appointments/availability?employee_id=not-a-uuid&service_id=%s&start_time=%s",
		haircut.ID, time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	engine, _, haircut, employeeID := setupRouter(t)

	body, err := json.Marshal(model.CreateAppointmentRequest{
		ClientID:   uuid.New(),
		ServiceID:  haircut.ID,
		EmployeeID: employeeID,
		StartTime:  time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string              `json:"status"`
		Data   model.BookingResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Created)
	require.NotNil(t, resp.Data.Appointment)
	assert.Equal(t, 50.0, resp.Data.Appointment.Price)

	// The same slot again must come back as a conflict.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Created)
	require.NotNil(t, resp.Data.Availability)
}

func TestCreateAppointmentEndpoint_UnknownService(t *testing.T) {
	engine, _, _, employeeID := setupRouter(t)

	body, err := json.Marshal(model.CreateAppointmentRequest{
		ClientID:   uuid.New(),
		ServiceID:  uuid.New(),
		EmployeeID: employeeID,
		StartTime:  time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
