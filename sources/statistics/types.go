package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDataUnavailable covers every upstream failure mode: transport
// errors, non-2xx responses and empty result sets. Handlers surface it
// to the user as a localized "no data" message.
var ErrDataUnavailable = errors.New("statistics data unavailable")

type SortKey string

const (
	SortCases       SortKey = "cases"
	SortTodayCases  SortKey = "todayCases"
	SortDeaths      SortKey = "deaths"
	SortTodayDeaths SortKey = "todayDeaths"
	SortActive      SortKey = "active"
	SortRecovered   SortKey = "recovered"
)

// SortKeys is the order-selection menu order.
func SortKeys() []SortKey {
	return []SortKey{SortCases, SortTodayCases, SortDeaths, SortTodayDeaths, SortActive, SortRecovered}
}

func ParseSortKey(s string) (SortKey, bool) {
	for _, key := range SortKeys() {
		if string(key) == s {
			return key, true
		}
	}
	return SortCases, false
}

// Snapshot is one location's current numbers, built fresh per request.
type Snapshot struct {
	Code             string
	Name             string
	Updated          time.Time
	Cases            int64
	TodayCases       int64
	Deaths           int64
	TodayDeaths      int64
	Recovered        int64
	Active           int64
	CasesPerMillion  decimal.Decimal
	DeathsPerMillion decimal.Decimal
	Vaccinations     *int64
}

// ListEntry is one row of the paginated country list.
type ListEntry struct {
	Code   string
	Name   string
	Cases  int64
	Deaths int64
}

// Series holds per-day new cases and deaths, oldest first.
type Series struct {
	Name     string
	LastDate time.Time
	Cases    []int64
	Deaths   []int64
}

// CountryInfo is the directory-building view of a country.
type CountryInfo struct {
	ISO2 string
	ISO3 string
	Name string
}
