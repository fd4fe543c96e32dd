package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	"kelana.id/travelapp/internal/modules/expense/dto"
	"kelana.id/travelapp/internal/modules/expense/repository"
	tripRepo "kelana.id/travelapp/internal/modules/trip/repository"
	"kelana.id/travelapp/pkg/apperror"
)

type ExpenseService interface {
	AddExpense(ctx context.Context, tripID uuid.UUID, userID uuid.UUID, input dto.CreateExpenseRequest) (*entity.Expense, error)
	GetTripExpenses(ctx context.Context, tripID uuid.UUID, userID uuid.UUID) ([]entity.Expense, error)
	GetTripSummary(ctx context.Context, tripID uuid.UUID, userID uuid.UUID) (*dto.ExpenseSummary, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, userID uuid.UUID, input dto.UpdateExpenseRequest) (*entity.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type expenseService struct {
	repo  repository.ExpenseRepository
	trips tripRepo.TripRepository
}

func NewExpenseService(repo repository.ExpenseRepository, trips tripRepo.TripRepository) ExpenseService {
	return &expenseService{repo: repo, trips: trips}
}

func (s *expenseService) AddExpense(ctx context.Context, tripID uuid.UUID, userID uuid.UUID, input dto.CreateExpenseRequest) (*entity.Expense, error) {
	if _, err := s.ownedTrip(ctx, tripID, userID); err != nil {
		return nil, err
	}

	spentAt := time.Now()
	if input.SpentAt != nil {
		spentAt = *input.SpentAt
	}

	expense := &entity.Expense{
		TripID:   tripID,
		Amount:   input.Amount,
		Category: input.Category,
		Note:     input.Note,
		SpentAt:  spentAt,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) GetTripExpenses(ctx context.Context, tripID uuid.UUID, userID uuid.UUID) ([]entity.Expense, error) {
	if _, err := s.ownedTrip(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindByTrip(ctx, tripID)
}

func (s *expenseService) GetTripSummary(ctx context.Context, tripID uuid.UUID, userID uuid.UUID) (*dto.ExpenseSummary, error) {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	totalSpent, count, byCategory, err := s.repo.SummarizeByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return &dto.ExpenseSummary{
		EstimatedBudget: trip.EstimatedBudget,
		TotalSpent:      totalSpent,
		Remaining:       trip.EstimatedBudget - totalSpent,
		ExpenseCount:    count,
		ByCategory:      byCategory,
	}, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id uuid.UUID, userID uuid.UUID, input dto.UpdateExpenseRequest) (*entity.Expense, error) {
	expense, err := s.ownedExpense(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Note != nil {
		expense.Note = *input.Note
	}
	if input.SpentAt != nil {
		expense.SpentAt = *input.SpentAt
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	expense, err := s.ownedExpense(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, expense.ID)
}

func (s *expenseService) ownedTrip(ctx context.Context, tripID uuid.UUID, userID uuid.UUID) (*entity.Trip, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("you can only manage expenses on your own trips: %w", apperror.ErrForbidden)
	}
	return trip, nil
}

func (s *expenseService) ownedExpense(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("expense not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, expense.TripID, userID); err != nil {
		return nil, err
	}
	return expense, nil
}
