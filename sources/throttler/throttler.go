package throttler

import (
	"context"
	"fmt"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// Throttler rate-limits fetch-heavy commands per chat. Redis SetNX
// keeps the window across restarts and replicas.
type Throttler struct {
	client *redis.Client
	config *configuration.Config
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(client *redis.Client, config *configuration.Config, log *tracing.Logger) *Throttler {
	ctx := context.Background()
	return &Throttler{client: client, config: config, log: log, ctx: ctx}
}

func (x *Throttler) IsAllowed(chatID int64) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	key := fmt.Sprintf("throttle:%d", chatID)

	success, err := x.client.SetNX(ctx, key, time.Now().Unix(), x.config.Throttler.Limit).Result()
	if err != nil {
		x.log.E("Error setting throttle key", tracing.InnerError, err)
		return true
	}

	return success
}
