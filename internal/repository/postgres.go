package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(dsn string, logger *logger.Logger) (models.SubscriptionStore, error) {
	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Every store operation is a single statement; the wrapping
		// transaction would only add round trips.
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(&models.Subscription{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) Create(draft *models.SubscriptionDraft) (*models.Subscription, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	key := draft.Position.Normalize()
	sub := &models.Subscription{
		ChatID:                draft.ChatID,
		Creator:               draft.Creator,
		ChainID:               key.ChainID,
		Silo:                  key.Silo,
		Account:               key.Account,
		NotificationThreshold: draft.NotificationThreshold,
		CooldownSeconds:       draft.CooldownSeconds,
		Language:              draft.Language,
		ChatTitle:             draft.ChatTitle,
		CreatedAt:             time.Now().Unix(),
	}
	if sub.Language == "" {
		sub.Language = models.DefaultLanguage
	}

	if err := db.Conn.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %s", err)
	}
	return sub, nil
}

func (db *PostgresDB) Get(id int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := db.Conn.Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %s", err)
	}

	return &sub, nil
}

func (db *PostgresDB) ListByCreator(creator int64) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := db.Conn.Where("creator = ?", creator).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions by creator: %s", err)
	}

	return subs, nil
}

func (db *PostgresDB) ListByPosition(key models.PositionKey) ([]*models.Subscription, error) {
	key = key.Normalize()
	var subs []*models.Subscription
	if err := db.Conn.Where("chain_id = ? AND silo = ? AND account = ?",
		key.ChainID, key.Silo, key.Account).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions by position: %s", err)
	}

	return subs, nil
}

func (db *PostgresDB) ListAll() ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := db.Conn.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %s", err)
	}

	return subs, nil
}

func (db *PostgresDB) Update(id int64, fields models.SubscriptionUpdate) error {
	if err := fields.Validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if fields.NotificationThreshold != nil {
		updates["notification_threshold"] = *fields.NotificationThreshold
	}
	if fields.CooldownSeconds != nil {
		updates["cooldown_seconds"] = *fields.CooldownSeconds
	}
	if fields.Language != nil {
		updates["language"] = *fields.Language
	}

	res := db.Conn.Model(&models.Subscription{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update subscription: %s", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) SetPaused(id int64, paused bool) error {
	res := db.Conn.Model(&models.Subscription{}).Where("id = ?", id).Update("paused", paused)
	if res.Error != nil {
		return fmt.Errorf("failed to update subscription paused state: %s", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) Delete(id int64) error {
	res := db.Conn.Delete(&models.Subscription{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %s", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) BulkSetPaused(creator int64, paused bool) error {
	if err := db.Conn.Model(&models.Subscription{}).Where("creator = ?", creator).
		Update("paused", paused).Error; err != nil {
		return fmt.Errorf("failed to bulk update paused state: %s", err)
	}
	return nil
}

func (db *PostgresDB) BulkDelete(creator int64) error {
	if err := db.Conn.Where("creator = ?", creator).
		Delete(&models.Subscription{}).Error; err != nil {
		return fmt.Errorf("failed to bulk delete subscriptions: %s", err)
	}
	return nil
}

func (db *PostgresDB) RecordNotified(id int64, at time.Time) error {
	// Zero rows affected means the subscription was deleted after matching.
	// The delete wins; dropping the write-back is correct.
	res := db.Conn.Model(&models.Subscription{}).Where("id = ?", id).
		Update("last_notified_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to record notification time: %s", res.Error)
	}
	return nil
}
