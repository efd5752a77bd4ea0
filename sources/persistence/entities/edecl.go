package entities

import (
	"time"

	"github.com/google/uuid"
)

type (
	// Chat holds the per-chat preferences. Rows are created lazily on
	// the first write and never purged.
	Chat struct {
		ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		ChatID       int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
		HomeLocation *string   `gorm:"size:8" json:"home_location"`
		SortOrder    *string   `gorm:"size:32" json:"sort_order"`
		Language     *string   `gorm:"size:8" json:"language"`
		CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
		UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	}

	// Subscriber is an opt-in target of the daily broadcast.
	Subscriber struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		ChatID    int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
		CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	}

	// Usage accumulates interaction counters as a side effect of every
	// handled event.
	Usage struct {
		ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		ChatID      int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
		FirstSeenAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"first_seen_at"`
		LastSeenAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_seen_at"`
		Count       int64     `gorm:"not null;default:0" json:"count"`
	}
)
