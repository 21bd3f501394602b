package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return &PostgresDB{Conn: gdb, logger: logger.NewNop()}, mock
}

func validDraft() *models.SubscriptionDraft {
	return &models.SubscriptionDraft{
		ChatID:  -100123,
		Creator: 42,
		Position: models.PositionKey{
			ChainID: 1,
			Silo:    "0x4F5E8CA2CADECAF7B4B82B3E3B0A2B59B04B5F37",
			Account: "0xAb5801a7D398351b8bE11C439e05C5b3259aeC9B",
		},
		NotificationThreshold: 1.5,
		CooldownSeconds:       3600,
		Language:              "en",
	}
}

func TestCreateRejectsInvalidDrafts(t *testing.T) {
	store, mock := newMockDB(t)

	tests := []struct {
		name   string
		mutate func(*models.SubscriptionDraft)
	}{
		{"cooldown below floor", func(d *models.SubscriptionDraft) { d.CooldownSeconds = 30 }},
		{"zero threshold", func(d *models.SubscriptionDraft) { d.NotificationThreshold = 0 }},
		{"threshold above bound", func(d *models.SubscriptionDraft) { d.NotificationThreshold = 2.5 }},
		{"malformed silo", func(d *models.SubscriptionDraft) { d.Position.Silo = "0xnothex" }},
		{"missing chat id", func(d *models.SubscriptionDraft) { d.ChatID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)
			_, err := store.Create(draft)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Nothing may reach the database on a validation failure.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestCreateNormalizesAddresses(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	sub, err := store.Create(validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID != 7 {
		t.Errorf("expected id 7, got %d", sub.ID)
	}
	if sub.Silo != "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37" {
		t.Errorf("silo not normalized: %q", sub.Silo)
	}
	if sub.Account != "0xab5801a7d398351b8be11c439e05c5b3259aec9b" {
		t.Errorf("account not normalized: %q", sub.Account)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Get(99)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordNotifiedMissingRowIsNoop(t *testing.T) {
	store, mock := newMockDB(t)

	// A concurrent delete already removed the row; the write-back must
	// succeed without doing anything.
	mock.ExpectExec(`UPDATE "subscriptions" SET "last_notified_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.RecordNotified(99, time.Now()); err != nil {
		t.Errorf("expected no error for missing row, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetPausedNotFound(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "subscriptions" SET "paused"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.SetPaused(99, true); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkDeleteScopesByCreator(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM "subscriptions" WHERE creator = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := store.BulkDelete(42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateRejectsInvalidMutation(t *testing.T) {
	store, mock := newMockDB(t)

	badThreshold := 3.0
	err := store.Update(1, models.SubscriptionUpdate{NotificationThreshold: &badThreshold})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	shortCooldown := 10
	err = store.Update(1, models.SubscriptionUpdate{CooldownSeconds: &shortCooldown})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}
