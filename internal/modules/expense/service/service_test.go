package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	"kelana.id/travelapp/internal/modules/expense/dto"
	"kelana.id/travelapp/pkg/apperror"
)

type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*entity.Expense

	summarySpent float64
	summaryCount int64
	summaryRows  []dto.CategoryTotal
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*entity.Expense)}
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	f.expenses[expense.ID] = expense
	return nil
}

func (f *fakeExpenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, ok := f.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *expense
	return &copied, nil
}

func (f *fakeExpenseRepo) FindByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.Expense, error) {
	var out []entity.Expense
	for _, e := range f.expenses {
		if e.TripID == tripID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	f.expenses[expense.ID] = expense
	return nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.expenses, id)
	return nil
}

func (f *fakeExpenseRepo) SummarizeByTrip(ctx context.Context, tripID uuid.UUID) (float64, int64, []dto.CategoryTotal, error) {
	return f.summarySpent, f.summaryCount, f.summaryRows, nil
}

type stubTripRepo struct {
	trips map[uuid.UUID]*entity.Trip
}

func (s *stubTripRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	trip, ok := s.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return trip, nil
}

func (s *stubTripRepo) Create(ctx context.Context, trip *entity.Trip) error { return nil }
func (s *stubTripRepo) FindByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]entity.Trip, int64, error) {
	return nil, 0, nil
}
func (s *stubTripRepo) FindPublic(ctx context.Context, offset, limit int) ([]entity.Trip, int64, error) {
	return nil, 0, nil
}
func (s *stubTripRepo) Update(ctx context.Context, trip *entity.Trip) error { return nil }
func (s *stubTripRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (s *stubTripRepo) FindOrCreateDestination(ctx context.Context, dest *entity.Destination) error {
	return nil
}
func (s *stubTripRepo) AddViews(ctx context.Context, id uuid.UUID, delta int64) error { return nil }

func TestAddExpenseRequiresTripOwnership(t *testing.T) {
	owner := uuid.New()
	trip := &entity.Trip{ID: uuid.New(), UserID: owner}
	trips := &stubTripRepo{trips: map[uuid.UUID]*entity.Trip{trip.ID: trip}}
	svc := NewExpenseService(newFakeExpenseRepo(), trips)

	input := dto.CreateExpenseRequest{Amount: 120, Category: "food"}

	_, err := svc.AddExpense(context.Background(), trip.ID, uuid.New(), input)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	created, err := svc.AddExpense(context.Background(), trip.ID, owner, input)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, created.TripID)
	assert.False(t, created.SpentAt.IsZero(), "spent_at defaults to now")
}

func TestAddExpenseToMissingTrip(t *testing.T) {
	trips := &stubTripRepo{trips: map[uuid.UUID]*entity.Trip{}}
	svc := NewExpenseService(newFakeExpenseRepo(), trips)

	_, err := svc.AddExpense(context.Background(), uuid.New(), uuid.New(), dto.CreateExpenseRequest{Amount: 50, Category: "other"})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetTripSummaryReportsOverspend(t *testing.T) {
	owner := uuid.New()
	trip := &entity.Trip{ID: uuid.New(), UserID: owner, EstimatedBudget: 500}
	trips := &stubTripRepo{trips: map[uuid.UUID]*entity.Trip{trip.ID: trip}}

	repo := newFakeExpenseRepo()
	repo.summarySpent = 620
	repo.summaryCount = 3
	repo.summaryRows = []dto.CategoryTotal{
		{Category: "accommodation", Total: 400},
		{Category: "food", Total: 220},
	}
	svc := NewExpenseService(repo, trips)

	summary, err := svc.GetTripSummary(context.Background(), trip.ID, owner)
	require.NoError(t, err)

	assert.Equal(t, 500.0, summary.EstimatedBudget)
	assert.Equal(t, 620.0, summary.TotalSpent)
	assert.Equal(t, -120.0, summary.Remaining, "overspend reported as negative remaining")
	assert.Equal(t, int64(3), summary.ExpenseCount)
	assert.Len(t, summary.ByCategory, 2)
}

func TestUpdateExpenseChecksOwnershipThroughTrip(t *testing.T) {
	owner := uuid.New()
	trip := &entity.Trip{ID: uuid.New(), UserID: owner}
	trips := &stubTripRepo{trips: map[uuid.UUID]*entity.Trip{trip.ID: trip}}

	repo := newFakeExpenseRepo()
	expense := &entity.Expense{TripID: trip.ID, Amount: 75, Category: "transport"}
	require.NoError(t, repo.Create(context.Background(), expense))

	svc := NewExpenseService(repo, trips)

	newAmount := 90.0
	_, err := svc.UpdateExpense(context.Background(), expense.ID, uuid.New(), dto.UpdateExpenseRequest{Amount: &newAmount})
	require.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.UpdateExpense(context.Background(), expense.ID, owner, dto.UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Amount)
}
