package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// Service manages salon staff and their service assignments.
type Service struct {
	employees repository.EmployeeRepository
	logger    *logger.Logger
}

func NewService(employees repository.EmployeeRepository, log *logger.Logger) *Service {
	return &Service{employees: employees, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	emp := &model.Employee{
		FullName: req.FullName,
		Phone:    req.Phone,
		Working:  true,
	}
	if err := s.employees.Create(ctx, emp, req.ServiceIDs); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger.Info("employee created", "employee_id", emp.ID)
	return s.employees.Get(ctx, emp.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	return s.employees.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateEmployeeRequest) (*model.Employee, error) {
	emp, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.FullName = req.FullName
	emp.Phone = req.Phone

	if err := s.employees.Update(ctx, emp, req.ServiceIDs); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.employees.Get(ctx, id)
}

// Dismiss marks the employee as no longer working. Their appointment
// history stays intact.
func (s *Service) Dismiss(ctx context.Context, id uuid.UUID) error {
	return s.employees.SetWorking(ctx, id, false)
}

func (s *Service) Rehire(ctx context.Context, id uuid.UUID) error {
	return s.employees.SetWorking(ctx, id, true)
}

func (s *Service) List(ctx context.Context) ([]*model.Employee, error) {
	return s.employees.List(ctx)
}

// ListByService returns working employees who can perform the given
// service, for the booking form's staff picker.
func (s *Service) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*model.Employee, error) {
	return s.employees.ListByService(ctx, serviceID)
}
