package broadcast

import (
	"context"
	"fmt"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/repository"
	"coronabot/sources/telegram"
	"coronabot/sources/tracing"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var Module = fx.Module("broadcast",
	fx.Provide(
		NewReporter,
		NewDispatcher,
		func(diplomat *telegram.Diplomat) Courier { return diplomat },
		func(subscribers *repository.SubscribersRepository) Registry { return subscribers },
		func(reporter *Reporter) ReportBuilder { return reporter },
	),

	fx.Invoke(func(lc fx.Lifecycle, dispatcher *Dispatcher, config *configuration.Config, log *tracing.Logger) error {
		location, err := time.LoadLocation(config.Broadcast.TimeZone)
		if err != nil {
			log.E("Invalid broadcast time zone", tracing.InnerError, err)
			return err
		}

		spec, err := cronSpec(config.Broadcast.Time)
		if err != nil {
			log.E("Invalid broadcast time", tracing.InnerError, err)
			return err
		}

		scheduler := cron.New(cron.WithLocation(location))
		if _, err := scheduler.AddFunc(spec, func() {
			dispatcher.Run(log)
		}); err != nil {
			log.E("Failed to schedule broadcast", tracing.InnerError, err)
			return err
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				scheduler.Start()
				log.I("Broadcast scheduled", "time", config.Broadcast.Time, "time_zone", config.Broadcast.TimeZone)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				stopped := scheduler.Stop()
				select {
				case <-stopped.Done():
				case <-ctx.Done():
				}
				log.I("Broadcast scheduler stopped")
				return nil
			},
		})
		return nil
	}),
)

// cronSpec converts a wall-clock "HH:MM" into a daily cron entry.
func cronSpec(wallClock string) (string, error) {
	parsed, err := time.Parse("15:04", wallClock)
	if err != nil {
		return "", fmt.Errorf("broadcast time %q: %w", wallClock, err)
	}
	return fmt.Sprintf("%d %d * * *", parsed.Minute(), parsed.Hour()), nil
}
