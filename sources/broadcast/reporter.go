package broadcast

import (
	"errors"
	"strings"
	"sync"
	"time"

	"coronabot/sources/directory"
	"coronabot/sources/localization"
	"coronabot/sources/repository"
	"coronabot/sources/statistics"
	"coronabot/sources/telegram"
	"coronabot/sources/tracing"
)

// Reporter builds the daily report for one subscriber: the global
// summary plus, when a home location is set, that location's card.
// The report speaks the language last seen from the chat.
type Reporter struct {
	statistics *statistics.Client
	chats      *repository.ChatsRepository
	directory  *directory.Directory
	renderer   *telegram.Renderer
	localizer  *localization.LocalizationManager
	log        *tracing.Logger

	mu        sync.Mutex
	world     *statistics.Snapshot
	fetchedAt time.Time
}

func NewReporter(client *statistics.Client, chats *repository.ChatsRepository, dir *directory.Directory, renderer *telegram.Renderer, localizer *localization.LocalizationManager, log *tracing.Logger) *Reporter {
	return &Reporter{
		statistics: client,
		chats:      chats,
		directory:  dir,
		renderer:   renderer,
		localizer:  localizer,
		log:        log,
	}
}

func (x *Reporter) Build(logger *tracing.Logger, chatID int64) (string, error) {
	lang := x.languageFor(logger, chatID)

	world, err := x.worldSnapshot(logger)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(x.localizer.Localize(lang, "MsgBroadcastHeader"))
	b.WriteString("\n")
	b.WriteString(x.renderer.TodayReport(lang, world))
	b.WriteString("\n\n")

	if snapshot, ok := x.homeSnapshot(logger, chatID); ok {
		b.WriteString(x.renderer.StatsCard(lang, snapshot, false))
	} else {
		b.WriteString(x.localizer.Localize(lang, "MsgBroadcastNoHome"))
	}

	return b.String(), nil
}

// worldSnapshot is fetched once per run, not once per subscriber.
func (x *Reporter) worldSnapshot(logger *tracing.Logger) (*statistics.Snapshot, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.world != nil && time.Since(x.fetchedAt) < 10*time.Minute {
		return x.world, nil
	}

	world, err := x.statistics.World(logger, false)
	if err != nil {
		return nil, err
	}

	x.world = world
	x.fetchedAt = time.Now()
	return world, nil
}

func (x *Reporter) homeSnapshot(logger *tracing.Logger, chatID int64) (*statistics.Snapshot, bool) {
	chat, err := x.chats.GetChat(logger, chatID)
	if err != nil || chat.HomeLocation == nil {
		return nil, false
	}

	record, ok := x.directory.Get(*chat.HomeLocation)
	if !ok {
		return nil, false
	}

	var snapshot *statistics.Snapshot
	switch record.Kind {
	case directory.KindUSState:
		snapshot, err = x.statistics.USState(logger, record.Name)
	case directory.KindDEState:
		snapshot, err = x.statistics.DEState(logger, record.Name)
	default:
		snapshot, err = x.statistics.Country(logger, record.Code, false)
	}
	if err != nil {
		logger.W("Home location data unavailable for broadcast", tracing.ChatId, chatID, tracing.LocationCode, record.Code, tracing.InnerError, err)
		return nil, false
	}

	return snapshot, true
}

func (x *Reporter) languageFor(logger *tracing.Logger, chatID int64) string {
	chat, err := x.chats.GetChat(logger, chatID)
	if err != nil {
		if !errors.Is(err, repository.ErrChatNotFound) {
			logger.W("Failed to load chat for broadcast language", tracing.ChatId, chatID, tracing.InnerError, err)
		}
		return x.localizer.Lang("")
	}
	if chat.Language == nil {
		return x.localizer.Lang("")
	}
	return x.localizer.Lang(*chat.Language)
}
