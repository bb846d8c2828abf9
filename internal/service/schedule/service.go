package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// Service manages employee working windows.
type Service struct {
	schedules repository.ScheduleRepository
	employees repository.EmployeeRepository
	logger    *logger.Logger
}

func NewService(schedules repository.ScheduleRepository, employees repository.EmployeeRepository, log *logger.Logger) *Service {
	return &Service{schedules: schedules, employees: employees, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateScheduleRequest) (*model.Schedule, error) {
	emp, err := s.employees.Get(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Working {
		return nil, apperrors.NewBadRequest("cannot schedule a dismissed employee", nil)
	}

	sched := &model.Schedule{
		EmployeeID: req.EmployeeID,
		WorkDate:   req.WorkDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Active:     true,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.schedules.SetActive(ctx, id, false)
}

// List returns schedule entries for one employee, or all employees when
// employeeID is uuid.Nil.
func (s *Service) List(ctx context.Context, employeeID uuid.UUID) ([]*model.ScheduleEntry, error) {
	return s.schedules.List(ctx, employeeID)
}
