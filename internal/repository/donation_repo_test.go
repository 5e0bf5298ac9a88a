package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sdgconnect/internal/models"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDonationRepository_Create_AssignsSequentialID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `counters` WHERE name = .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"name", "seq"}).AddRow("donation_id", 41))
	mock.ExpectExec("UPDATE `counters` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `donations`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	d := &models.Donation{
		Phone:             "254712345678",
		Email:             "donor@example.com",
		Amount:            500,
		Status:            "pending",
		CheckoutRequestID: "ws_CO_1",
	}
	err := repo.Create(d)
	require.NoError(t, err)
	assert.Equal(t, int64(42), d.DonationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_CompletePending(t *testing.T) {
	t.Run("transitions a pending donation", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectExec("UPDATE `donations` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.CompletePending("ws_CO_1", "XYZ123", nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects when already settled", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectExec("UPDATE `donations` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.CompletePending("ws_CO_1", "XYZ123", nil)
		assert.ErrorIs(t, err, ErrNotPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_FailPending(t *testing.T) {
	t.Run("transitions a pending donation", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectExec("UPDATE `donations` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.FailPending("ws_CO_2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects when already settled", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectExec("UPDATE `donations` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.FailPending("ws_CO_2"), ErrNotPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_Stats(t *testing.T) {
	t.Run("aggregates completed donations", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"sum", "count", "max", "min"}).
				AddRow(1500.0, 3, 1000.0, 100.0))

		stats, err := repo.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1500.0, stats.TotalDonated)
		assert.Equal(t, int64(3), stats.DonorsCount)
		assert.Equal(t, 1000.0, stats.HighestDonation)
		assert.Equal(t, 100.0, stats.LowestDonation)
	})

	t.Run("returns zeros when nothing completed", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewDonationRepository(db)
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"sum", "count", "max", "min"}).
				AddRow(0.0, 0, 0.0, 0.0))

		stats, err := repo.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.TotalDonated)
		assert.Zero(t, stats.DonorsCount)
		assert.Zero(t, stats.HighestDonation)
		assert.Zero(t, stats.LowestDonation)
	})
}
