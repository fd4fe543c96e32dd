package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kelana.id/travelapp/internal/entity"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestAwardInsertsAndBumpsPoints(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBadgeRepository(db)

	userID := uuid.New()
	badge := &entity.Badge{ID: 3, Code: "FIRST_TRIP", Points: 10}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_badges"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "users" SET "total_points"=total_points \+ \$1 WHERE id = \$2`).
		WithArgs(10, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	awarded, err := repo.Award(context.Background(), userID, badge)
	require.NoError(t, err)
	assert.True(t, awarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardIsNoOpWhenRowAlreadyExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBadgeRepository(db)

	userID := uuid.New()
	badge := &entity.Badge{ID: 3, Code: "FIRST_TRIP", Points: 10}

	// ON CONFLICT DO NOTHING inserts no row, so the points update must not
	// run and the transaction still commits cleanly.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_badges"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	awarded, err := repo.Award(context.Background(), userID, badge)
	require.NoError(t, err)
	assert.False(t, awarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRollsBackWhenPointsUpdateFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBadgeRepository(db)

	userID := uuid.New()
	badge := &entity.Badge{ID: 3, Code: "FIRST_TRIP", Points: 10}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_badges"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnError(gorm.ErrInvalidTransaction)
	mock.ExpectRollback()

	awarded, err := repo.Award(context.Background(), userID, badge)
	require.Error(t, err)
	assert.False(t, awarded, "a failed transaction must not report an award")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEarnedBadgeIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBadgeRepository(db)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT "badge_id" FROM "user_badges" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"badge_id"}).AddRow(1).AddRow(4))

	ids, err := repo.EarnedBadgeIDs(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
