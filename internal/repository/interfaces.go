package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles booking storage. The guarded variants
	// (CreateIfFree, UpdateIfFree) lock the employee row and re-check for
	// overlaps inside one transaction, so two concurrent writers for the
	// same slot cannot both insert.
	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		// ListForEmployeeBetween returns non-cancelled appointments whose
		// start instant falls within [from, to], ordered by start time.
		ListForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		// CreateIfFree inserts only if no non-cancelled appointment of the
		// same employee overlaps [appt.StartTime, end). Returns ErrSlotTaken
		// on overlap.
		CreateIfFree(ctx context.Context, appt *model.Appointment, end time.Time) error
		// UpdateIfFree rewrites client/service/employee/start/price, applying
		// the same overlap guard with the appointment itself excluded.
		UpdateIfFree(ctx context.Context, appt *model.Appointment, end time.Time) error
		// ListEvents returns denormalized calendar events, all employees when
		// employeeID is uuid.Nil.
		ListEvents(ctx context.Context, employeeID uuid.UUID) ([]*model.CalendarEvent, error)
		ListEventsForClient(ctx context.Context, clientID uuid.UUID) ([]*model.CalendarEvent, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		List(ctx context.Context, includeHidden bool) ([]*model.Service, error)
		SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	}

	ClientRepository interface {
		// CreateWithUser inserts the user row and the client row in one
		// transaction.
		CreateWithUser(ctx context.Context, user *model.User, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		GetProfile(ctx context.Context, id uuid.UUID) (*model.ClientProfile, error)
		Update(ctx context.Context, client *model.Client, user *model.User) error
		SetDeactivated(ctx context.Context, id uuid.UUID, deactivated bool) error
		List(ctx context.Context, p model.Pagination) ([]*model.ClientProfile, int, error)
		Search(ctx context.Context, name string) ([]*model.ClientProfile, error)
	}

	EmployeeRepository interface {
		// Create inserts the employee and its service links in one
		// transaction.
		Create(ctx context.Context, emp *model.Employee, serviceIDs []uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.Employee, error)
		Update(ctx context.Context, emp *model.Employee, serviceIDs []uuid.UUID) error
		SetWorking(ctx context.Context, id uuid.UUID, working bool) error
		List(ctx context.Context) ([]*model.Employee, error)
		// ListByService returns working employees able to perform a service.
		ListByService(ctx context.Context, serviceID uuid.UUID) ([]*model.Employee, error)
	}

	DiscountRepository interface {
		Create(ctx context.Context, d *model.Discount) error
		Get(ctx context.Context, id uuid.UUID) (*model.Discount, error)
		Update(ctx context.Context, d *model.Discount) error
		List(ctx context.Context) ([]*model.Discount, error)
		ListActive(ctx context.Context) ([]*model.Discount, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		AssignToClient(ctx context.Context, clientID, discountID uuid.UUID) error
		// GetActiveForClient returns the client's assigned discount if it is
		// active and within its validity window, nil otherwise.
		GetActiveForClient(ctx context.Context, clientID uuid.UUID, at time.Time) (*model.Discount, error)
	}

	ScheduleRepository interface {
		Create(ctx context.Context, s *model.Schedule) error
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		// List returns entries for one employee, or all when employeeID is
		// uuid.Nil.
		List(ctx context.Context, employeeID uuid.UUID) ([]*model.ScheduleEntry, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, v *model.Visit) error
		ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Visit, error)
		TotalPaidBetween(ctx context.Context, from, to time.Time) (float64, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, p model.Pagination) ([]*model.User, int, error)
		Search(ctx context.Context, name string) ([]*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
