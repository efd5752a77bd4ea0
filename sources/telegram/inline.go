package telegram

import (
	"fmt"
	"strings"

	"coronabot/sources/directory"
	"coronabot/sources/features"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleInline answers an inline query with up to a handful of
// prefix-matched locations, each carrying its rendered stats card.
// The world entry ranks first when it matches.
func (x *Handler) HandleInline(logger *tracing.Logger, query *tgbotapi.InlineQuery) {
	if !x.features.IsEnabledDefault(features.FeatureInlineQueries, true) {
		return
	}

	lang := x.language(query.From)
	text := strings.TrimSpace(query.Query)

	// An empty query gets no answer at all; Telegram keeps showing the
	// user's own prompt instead of a default card.
	if text == "" {
		return
	}

	logger.D("Inline query received", tracing.InlineQuery, text, tracing.UserId, query.From.ID)

	codes := inlineCandidates(x.directory, text, x.config.Telegram.InlineResultLimit)

	var results []interface{}
	for i, code := range codes {
		snapshot, err := x.fetchSnapshot(logger, code, false)
		if err != nil {
			continue
		}

		title := snapshot.Name
		if record, ok := x.directory.Get(code); ok && record.Flag != "" {
			title = record.Flag + " " + record.Name
		}

		article := tgbotapi.NewInlineQueryResultArticleMarkdown(
			fmt.Sprintf("%s_%d", code, i),
			title,
			x.renderer.StatsCard(lang, snapshot, false)+"\n\n"+x.localizer.Localize(lang, "MsgMore"),
		)
		results = append(results, article)
	}

	x.diplomat.AnswerInline(logger, tgbotapi.InlineConfig{
		InlineQueryID: query.ID,
		Results:       results,
		CacheTime:     60,
	})
}

// inlineCandidates picks up to limit location codes matching the typed
// prefix, ranking the world pseudo-location first.
func inlineCandidates(dir *directory.Directory, text string, limit int) []string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return nil
	}

	var codes []string
	if strings.HasPrefix(directory.WorldIdent, text) {
		codes = append(codes, directory.WorldIdent)
	}
	for _, name := range dir.Search(text, limit) {
		if len(codes) >= limit {
			break
		}
		if record, ok := dir.Resolve(name); ok {
			codes = append(codes, record.Code)
		}
	}
	return codes
}
