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

var ErrChatNotFound = errors.New("chat not found")

// ChatsRepository owns the per-chat preference rows. Every mutation of
// one chat's row runs under that chat's lock so concurrent handlers
// cannot lose updates.
type ChatsRepository struct {
	db    *gorm.DB
	locks *platform.ChatLocks
}

func NewChatsRepository(db *gorm.DB, locks *platform.ChatLocks) *ChatsRepository {
	return &ChatsRepository{db: db, locks: locks}
}

func (x *ChatsRepository) GetChat(logger *tracing.Logger, chatID int64) (*entities.Chat, error) {
	defer tracing.ProfilePoint(logger, "Chats get completed", "repository.chats.get", tracing.ChatId, chatID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var chat entities.Chat
	if err := x.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		logger.E("Failed to get chat", tracing.InnerError, err)
		return nil, err
	}

	return &chat, nil
}

func (x *ChatsRepository) SetHomeLocation(logger *tracing.Logger, chatID int64, code string) error {
	defer tracing.ProfilePoint(logger, "Chats set home location completed", "repository.chats.set.home", tracing.ChatId, chatID, tracing.LocationCode, code)()

	return x.update(logger, chatID, func(chat *entities.Chat) {
		chat.HomeLocation = platform.StringPtr(code)
	})
}

func (x *ChatsRepository) SetSortOrder(logger *tracing.Logger, chatID int64, sortKey string) error {
	defer tracing.ProfilePoint(logger, "Chats set sort order completed", "repository.chats.set.sort", tracing.ChatId, chatID, tracing.SortKey, sortKey)()

	return x.update(logger, chatID, func(chat *entities.Chat) {
		chat.SortOrder = platform.StringPtr(sortKey)
	})
}

func (x *ChatsRepository) SetLanguage(logger *tracing.Logger, chatID int64, lang string) error {
	return x.update(logger, chatID, func(chat *entities.Chat) {
		chat.Language = platform.StringPtr(lang)
	})
}

// update loads-or-creates the chat row and applies the mutation under
// the per-chat lock.
func (x *ChatsRepository) update(logger *tracing.Logger, chatID int64, mutate func(chat *entities.Chat)) error {
	unlock := x.locks.Lock(chatID)
	defer unlock()

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var chat entities.Chat
	err := x.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		chat = entities.Chat{ChatID: chatID}
		mutate(&chat)
		if err := x.db.WithContext(ctx).Create(&chat).Error; err != nil {
			logger.E("Failed to create chat", tracing.InnerError, err)
			return err
		}
		logger.I("Chat created", tracing.ChatId, chatID)
		return nil
	}
	if err != nil {
		logger.E("Failed to load chat for update", tracing.InnerError, err)
		return err
	}

	mutate(&chat)
	chat.UpdatedAt = time.Now()
	if err := x.db.WithContext(ctx).Save(&chat).Error; err != nil {
		logger.E("Failed to update chat", tracing.InnerError, err)
		return err
	}

	return nil
}
