package directory

import (
	"regexp"
	"strings"

	"coronabot/sources/statistics"
	"coronabot/sources/tracing"
)

// WorldIdent is the pseudo-location for global totals.
const WorldIdent = "world"

type Kind string

const (
	KindCountry Kind = "country"
	KindUSState Kind = "us_state"
	KindDEState Kind = "de_state"
)

// LocationRecord is the canonical description of one known location.
// Code is the stable identifier carried through callbacks and stored
// in preferences: the ISO2 code for countries, a normalized
// "us_*"/"de_*" tag for sub-national regions.
type LocationRecord struct {
	Code string
	Name string
	ISO3 string
	Kind Kind
	Flag string
}

// Directory maps every known alias to its location. Built once at
// startup from the statistics provider; read-only afterwards.
type Directory struct {
	records map[string]*LocationRecord
	aliases map[string]string
	names   []string
}

var nonLetter = regexp.MustCompile(`[^a-z]`)

// Normalize lower-cases a display name and replaces every non-letter
// run with underscores, the shape used for name-based commands.
func Normalize(name string) string {
	return nonLetter.ReplaceAllString(strings.ToLower(name), "_")
}

func NewDirectory(client *statistics.Client, log *tracing.Logger) (*Directory, error) {
	defer tracing.ProfilePoint(log, "Location directory built", "directory.build")()

	countries, err := client.Countries(log)
	if err != nil {
		log.E("Failed to fetch countries for directory", tracing.InnerError, err)
		return nil, err
	}

	x := &Directory{
		records: make(map[string]*LocationRecord),
		aliases: make(map[string]string),
	}

	for iso2, info := range countries {
		record := &LocationRecord{
			Code: iso2,
			Name: info.Name,
			ISO3: info.ISO3,
			Kind: KindCountry,
			Flag: Flag(iso2),
		}
		x.add(record, strings.ToLower(iso2), strings.ToLower(info.ISO3), strings.ToLower(info.Name), Normalize(info.Name), record.Flag)
	}

	// Sub-national regions are best-effort: the bot still works
	// country-only when either feed is down at startup.
	if states, err := client.USStates(log); err != nil {
		log.W("US states unavailable, building directory without them", tracing.InnerError, err)
	} else {
		for _, state := range states {
			record := &LocationRecord{Code: "us_" + Normalize(state), Name: state, Kind: KindUSState, Flag: Flag("US")}
			x.add(record, strings.ToLower(state), Normalize(state))
		}
	}

	if states, err := client.DEStates(log); err != nil {
		log.W("DE states unavailable, building directory without them", tracing.InnerError, err)
	} else {
		for _, state := range states {
			record := &LocationRecord{Code: "de_" + Normalize(state), Name: state, Kind: KindDEState, Flag: Flag("DE")}
			x.add(record, strings.ToLower(state), Normalize(state))
		}
	}

	log.I("Location directory built", "locations", len(x.records), "aliases", len(x.aliases))
	return x, nil
}

func (x *Directory) add(record *LocationRecord, aliases ...string) {
	if _, ok := x.records[record.Code]; !ok {
		x.names = append(x.names, strings.ToLower(record.Name))
	}
	x.records[record.Code] = record
	x.aliases[strings.ToLower(record.Code)] = record.Code
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		if _, taken := x.aliases[alias]; taken {
			continue
		}
		x.aliases[alias] = record.Code
	}
}

// Resolve maps any user-facing alias (name, ISO code, flag emoji) to
// its location record.
func (x *Directory) Resolve(alias string) (*LocationRecord, bool) {
	alias = strings.TrimSpace(strings.ToLower(alias))

	if code, ok := CodeFromFlag(strings.TrimSpace(alias)); ok {
		alias = strings.ToLower(code)
	}

	code, ok := x.aliases[alias]
	if !ok {
		return nil, false
	}
	return x.records[code], true
}

// ResolveCode is Resolve narrowed to the canonical code.
func (x *Directory) ResolveCode(alias string) (string, bool) {
	record, ok := x.Resolve(alias)
	if !ok {
		return "", false
	}
	return record.Code, true
}

// Get looks a record up by its canonical code.
func (x *Directory) Get(code string) (*LocationRecord, bool) {
	record, ok := x.records[code]
	return record, ok
}

// Search returns up to limit location names starting with the given
// prefix, in stable insertion order.
func (x *Directory) Search(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var matches []string
	for _, name := range x.names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
		if len(matches) >= limit {
			break
		}
	}
	return matches
}

func (x *Directory) Len() int {
	return len(x.records)
}
