package repository

import (
	"context"
	"time"

	"coronabot/sources/persistence/entities"
	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscribersRepository is the durable opt-in set for the daily
// broadcast.
type SubscribersRepository struct {
	db *gorm.DB
}

func NewSubscribersRepository(db *gorm.DB) *SubscribersRepository {
	return &SubscribersRepository{db: db}
}

// Subscribe adds the chat; reports whether it was newly added.
func (x *SubscribersRepository) Subscribe(logger *tracing.Logger, chatID int64) (bool, error) {
	defer tracing.ProfilePoint(logger, "Subscribers subscribe completed", "repository.subscribers.subscribe", tracing.ChatId, chatID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&entities.Subscriber{ChatID: chatID})
	if result.Error != nil {
		logger.E("Failed to subscribe chat", tracing.InnerError, result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Unsubscribe removes the chat; reports whether it was subscribed.
func (x *SubscribersRepository) Unsubscribe(logger *tracing.Logger, chatID int64) (bool, error) {
	defer tracing.ProfilePoint(logger, "Subscribers unsubscribe completed", "repository.subscribers.unsubscribe", tracing.ChatId, chatID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&entities.Subscriber{})
	if result.Error != nil {
		logger.E("Failed to unsubscribe chat", tracing.InnerError, result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// List snapshots all subscribed chat ids in registry order.
func (x *SubscribersRepository) List(logger *tracing.Logger) ([]int64, error) {
	defer tracing.ProfilePoint(logger, "Subscribers list completed", "repository.subscribers.list")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var chatIDs []int64
	err := x.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Order("created_at").
		Pluck("chat_id", &chatIDs).Error
	if err != nil {
		logger.E("Failed to list subscribers", tracing.InnerError, err)
		return nil, err
	}

	return chatIDs, nil
}
