package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	apperrors "github.com/Bigidan/beauty-salon-ms/pkg/errors"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// Service records completed visits and produces income summaries.
type Service struct {
	visits       repository.VisitRepository
	appointments repository.AppointmentRepository
	logger       *logger.Logger
}

func NewService(visits repository.VisitRepository, appointments repository.AppointmentRepository, log *logger.Logger) *Service {
	return &Service{visits: visits, appointments: appointments, logger: log}
}

// MarkCompleted closes out an appointment: its status flips to COMPLETED
// and a visit row is written with the amount paid.
func (s *Service) MarkCompleted(ctx context.Context, req *model.RecordVisitRequest) (*model.Visit, error) {
	appt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if appt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewConflict("cannot complete a cancelled appointment", nil)
	}
	if appt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.NewConflict("appointment is already completed", nil)
	}
	if appt.ClientID != req.ClientID {
		return nil, apperrors.NewBadRequest("appointment belongs to a different client", nil)
	}

	if err := s.appointments.UpdateStatus(ctx, req.AppointmentID, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete appointment: %w", err)
	}

	visit := &model.Visit{
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		VisitDate:     time.Now(),
		AmountPaid:    req.AmountPaid,
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	s.logger.Info("visit recorded", "appointment_id", req.AppointmentID, "amount", req.AmountPaid)
	return visit, nil
}

func (s *Service) History(ctx context.Context, clientID uuid.UUID) ([]*model.Visit, error) {
	return s.visits.ListForClient(ctx, clientID)
}

// FinancialReport sums what clients paid over [from, to].
func (s *Service) FinancialReport(ctx context.Context, from, to time.Time) (*model.FinancialReport, error) {
	if to.Before(from) {
		return nil, apperrors.NewBadRequest("report end must not precede its start", nil)
	}

	total, err := s.visits.TotalPaidBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build financial report: %w", err)
	}

	return &model.FinancialReport{From: from, To: to, TotalIncome: total}, nil
}
