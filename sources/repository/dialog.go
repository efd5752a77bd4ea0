package repository

import (
	"context"
	"fmt"
	"time"

	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// dialogTTL bounds how long a chat may sit in an active dialog. Redis
// expiry is the sweep: a stale dialog simply disappears, releasing the
// chat's free-text input.
const dialogTTL = 10 * time.Minute

const dialogAwaiting = "awaiting_input"

// DialogRepository stores the per-chat dialog phase with a TTL.
type DialogRepository struct {
	redis *redis.Client
	log   *tracing.Logger
}

func NewDialogRepository(redis *redis.Client, log *tracing.Logger) *DialogRepository {
	return &DialogRepository{redis: redis, log: log}
}

func dialogKey(chatID int64) string {
	return fmt.Sprintf("dialog_state:%d", chatID)
}

func (r *DialogRepository) Active(logger *tracing.Logger, chatID int64) (bool, error) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	value, err := r.redis.Get(ctx, dialogKey(chatID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.E("Failed to get dialog state from Redis", tracing.InnerError, err)
		return false, err
	}

	return value == dialogAwaiting, nil
}

func (r *DialogRepository) Begin(logger *tracing.Logger, chatID int64) error {
	defer tracing.ProfilePoint(logger, "Dialog begin completed", "repository.dialog.begin", tracing.ChatId, chatID)()

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if err := r.redis.Set(ctx, dialogKey(chatID), dialogAwaiting, dialogTTL).Err(); err != nil {
		logger.E("Failed to set dialog state in Redis", tracing.InnerError, err)
		return err
	}

	return nil
}

func (r *DialogRepository) Clear(logger *tracing.Logger, chatID int64) error {
	defer tracing.ProfilePoint(logger, "Dialog clear completed", "repository.dialog.clear", tracing.ChatId, chatID)()

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if err := r.redis.Del(ctx, dialogKey(chatID)).Err(); err != nil {
		logger.E("Failed to clear dialog state from Redis", tracing.InnerError, err)
		return err
	}

	return nil
}
