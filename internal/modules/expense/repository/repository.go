package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	"kelana.id/travelapp/internal/modules/expense/dto"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	FindByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	SummarizeByTrip(ctx context.Context, tripID uuid.UUID) (float64, int64, []dto.CategoryTotal, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.Expense, error) {
	var expenses []entity.Expense
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("spent_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) SummarizeByTrip(ctx context.Context, tripID uuid.UUID) (float64, int64, []dto.CategoryTotal, error) {
	var totals []dto.CategoryTotal
	err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("trip_id = ?", tripID).
		Group("category").
		Order("total DESC").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, nil, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Where("trip_id = ?", tripID).
		Count(&count).Error; err != nil {
		return 0, 0, nil, err
	}

	var totalSpent float64
	for _, t := range totals {
		totalSpent += t.Total
	}
	return totalSpent, count, totals, nil
}
