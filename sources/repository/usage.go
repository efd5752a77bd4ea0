package repository

import (
	"context"
	"errors"
	"time"

	"coronabot/sources/persistence/entities"
	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"gorm.io/gorm"
)

// UsageRepository tracks per-chat interaction counters. Touch runs as
// a side effect of every handled event, independent of the handler's
// own outcome.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (x *UsageRepository) Touch(logger *tracing.Logger, chatID int64) error {
	defer tracing.ProfilePoint(logger, "Usage touch completed", "repository.usage.touch", tracing.ChatId, chatID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now()

	var usage entities.Usage
	err := x.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		usage = entities.Usage{ChatID: chatID, FirstSeenAt: now, LastSeenAt: now, Count: 1}
		if err := x.db.WithContext(ctx).Create(&usage).Error; err != nil {
			logger.E("Failed to create usage row", tracing.InnerError, err)
			return err
		}
		return nil
	}
	if err != nil {
		logger.E("Failed to load usage row", tracing.InnerError, err)
		return err
	}

	usage.LastSeenAt = now
	usage.Count++
	if err := x.db.WithContext(ctx).Save(&usage).Error; err != nil {
		logger.E("Failed to update usage row", tracing.InnerError, err)
		return err
	}

	return nil
}
