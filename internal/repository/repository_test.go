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
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRecordRepository_SearchAndsPredicates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "records" WHERE governorate = \$1 AND first_name ILIKE \$2 ORDER BY created_at asc, record_number asc`).
		WithArgs("Basra", "%Ali%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_number", "first_name", "governorate"}).
			AddRow(uuid.New(), 1, "Ali", "Basra"))

	records, err := repo.Search(context.Background(), RecordFilter{
		Governorate: strPtr("Basra"),
		FirstName:   strPtr("Ali"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ali", records[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_ListReturnsEmptySlice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "records" ORDER BY created_at asc, record_number asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecordRepository_DeleteReportsExistence(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "records" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "records" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "records" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRepository_CountGroupedRejectsUnknownKey(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewRecordRepository(db)

	_, err := repo.CountGrouped(context.Background(), "password", RecordFilter{}, 0)
	assert.Error(t, err)
}

func TestStationRepository_ListOrdersByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "police_stations" ORDER BY name asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "governorate"}).
			AddRow(uuid.New(), "Central", "Baghdad").
			AddRow(uuid.New(), "North", "Baghdad"))

	stations, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "Central", stations[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_ListFiltersByAction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE action = \$1`).
		WithArgs("DELETE_RECORD").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE action = \$1 ORDER BY created_at desc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action"}).AddRow(uuid.New(), "DELETE_RECORD"))

	logs, total, err := repo.List(context.Background(), AuditFilter{Action: "DELETE_RECORD"}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 1)
}

func TestUserRepository_LockRegistrationHoldsAdvisoryLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(registrationLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := repo.LockRegistration(txCtx); err != nil {
			return err
		}
		total, err := repo.Count(txCtx)
		assert.Equal(t, int64(0), total)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
