package telegram

import (
	"strings"
	"time"

	"coronabot/sources/directory"
	"coronabot/sources/localization"
	"coronabot/sources/statistics"
	"coronabot/sources/texting/format"
)

const worldIcon = "\U0001F310"

// Renderer turns snapshots and list windows into Markdown message
// bodies.
type Renderer struct {
	localizer *localization.LocalizationManager
	directory *directory.Directory
}

func NewRenderer(localizer *localization.LocalizationManager, dir *directory.Directory) *Renderer {
	return &Renderer{localizer: localizer, directory: dir}
}

// StatsCard renders one location's card at the requested detail
// level.
func (x *Renderer) StatsCard(lang string, snapshot *statistics.Snapshot, detailed bool) string {
	data := map[string]interface{}{
		"Icon":          x.icon(snapshot.Code),
		"Name":          snapshot.Name,
		"Cases":         format.Numberify(snapshot.Cases),
		"TodayCases":    format.Numberify(snapshot.TodayCases),
		"Active":        format.Numberify(snapshot.Active),
		"ActiveRate":    rate(snapshot.Active, snapshot.Cases),
		"Recovered":     format.Numberify(snapshot.Recovered),
		"RecoveredRate": rate(snapshot.Recovered, snapshot.Cases),
		"Deaths":        format.Numberify(snapshot.Deaths),
		"DeathRate":     rate(snapshot.Deaths, snapshot.Cases),
		"Updated":       format.DateTimeify(snapshot.Updated),
	}

	messageID := "MsgStatsCard"
	if detailed {
		messageID = "MsgStatsCardDetailed"
		data["CasesPerMillion"] = format.Decimalify(snapshot.CasesPerMillion)
		data["DeathsPerMillion"] = format.Decimalify(snapshot.DeathsPerMillion)
		if snapshot.Vaccinations != nil {
			data["Vaccinations"] = format.Numberify(*snapshot.Vaccinations)
		} else {
			data["Vaccinations"] = "-"
		}
	}

	return x.localizer.LocalizeTd(lang, messageID, data)
}

// TodayReport is the compact daily summary of one snapshot.
func (x *Renderer) TodayReport(lang string, snapshot *statistics.Snapshot) string {
	return x.localizer.LocalizeTd(lang, "MsgToday", map[string]interface{}{
		"Date":        format.Dateify(time.Now().UTC()),
		"TodayCases":  format.Numberify(snapshot.TodayCases),
		"TodayDeaths": format.Numberify(snapshot.TodayDeaths),
		"Cases":       format.Numberify(snapshot.Cases),
		"Deaths":      format.Numberify(snapshot.Deaths),
	})
}

// ListPage renders one window of the country list. Every row carries
// the dynamic per-country command so readers can jump straight to a
// card.
func (x *Renderer) ListPage(lang string, entries []statistics.ListEntry) string {
	var b strings.Builder
	b.WriteString(x.localizer.Localize(lang, "MsgListHeader"))

	for _, entry := range entries {
		flag := directory.Flag(entry.Code)
		if record, ok := x.directory.Get(entry.Code); ok {
			flag = record.Flag
		}

		b.WriteString(x.localizer.LocalizeTd(lang, "MsgListItem", map[string]interface{}{
			"Flag":    flag,
			"Name":    entry.Name,
			"Command": directory.Normalize(entry.Name),
			"Cases":   format.Numberify(entry.Cases),
			"Deaths":  format.Numberify(entry.Deaths),
		}))
	}

	b.WriteString(x.localizer.Localize(lang, "MsgMore"))
	return b.String()
}

func (x *Renderer) icon(code string) string {
	if code == directory.WorldIdent {
		return worldIcon
	}
	if record, ok := x.directory.Get(code); ok && record.Flag != "" {
		return record.Flag
	}
	return worldIcon
}

func rate(part, whole int64) string {
	if whole == 0 {
		return format.Percentify(0)
	}
	return format.Percentify(float64(part) / float64(whole))
}
