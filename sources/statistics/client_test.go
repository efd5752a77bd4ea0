package statistics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &configuration.Config{}
	config.Statistics.BaseURL = server.URL

	return NewClient(server.Client(), config, tracing.NewConsoleLogger())
}

// The provider returns cumulative totals; the series must come back as
// per-day differences.
func TestTimeseriesDiffs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical/all", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("lastdays"))
		w.Write([]byte(`{
			"cases":  {"1/1/21": 100, "1/2/21": 110, "1/3/21": 125, "1/4/21": 125},
			"deaths": {"1/1/21": 10,  "1/2/21": 12,  "1/3/21": 12,  "1/4/21": 15}
		}`))
	})

	series, err := client.Timeseries(tracing.NewConsoleLogger(), "", 3)
	require.NoError(t, err)

	assert.Equal(t, "the World", series.Name)
	assert.Equal(t, []int64{10, 15, 0}, series.Cases)
	assert.Equal(t, []int64{2, 0, 3}, series.Deaths)
	assert.Equal(t, 2021, series.LastDate.Year())
	assert.Equal(t, 4, series.LastDate.Day())
}

func TestTimeseriesCountryUsesTimeline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical/DE", r.URL.Path)
		w.Write([]byte(`{
			"country": "Germany",
			"timeline": {
				"cases":  {"1/1/21": 50, "1/2/21": 75},
				"deaths": {"1/1/21": 5,  "1/2/21": 6}
			}
		}`))
	})

	series, err := client.Timeseries(tracing.NewConsoleLogger(), "DE", 1)
	require.NoError(t, err)

	assert.Equal(t, "Germany", series.Name)
	assert.Equal(t, []int64{25}, series.Cases)
	assert.Equal(t, []int64{1}, series.Deaths)
}

func TestTimeseriesTooShort(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cases": {"1/1/21": 100}, "deaths": {"1/1/21": 10}}`))
	})

	_, err := client.Timeseries(tracing.NewConsoleLogger(), "", 3)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// Aggregates without an ISO2 code (cruise ships and the like) are
// dropped from both the directory feed and the list.
func TestCountriesDropsEntriesWithoutISO2(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"country": "Germany", "countryInfo": {"iso2": "DE", "iso3": "DEU"}},
			{"country": "MS Zaandam", "countryInfo": {"iso2": "", "iso3": ""}}
		]`))
	})

	countries, err := client.Countries(tracing.NewConsoleLogger())
	require.NoError(t, err)

	assert.Len(t, countries, 1)
	assert.Equal(t, "Germany", countries["DE"].Name)
}

func TestDEStatesCleansAndDropsTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"province": "Baden-W­rttemberg"},
			{"province": "Bayern"},
			{"province": "Total"}
		]`))
	})

	states, err := client.DEStates(tracing.NewConsoleLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Baden-Wrttemberg", "Bayern"}, states)
}

func TestUpstreamErrorsCollapseToDataUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "Not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "Garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.CountryList(tracing.NewConsoleLogger(), SortCases)
			assert.ErrorIs(t, err, ErrDataUnavailable)
		})
	}
}

func TestCountryListPassesSortParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "todayDeaths", r.URL.Query().Get("sort"))
		w.Write([]byte(`[
			{"country": "Germany", "countryInfo": {"iso2": "DE", "iso3": "DEU"}, "cases": 100, "deaths": 5}
		]`))
	})

	entries, err := client.CountryList(tracing.NewConsoleLogger(), SortTodayDeaths)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, ListEntry{Code: "DE", Name: "Germany", Cases: 100, Deaths: 5}, entries[0])
}

// Per-million figures arrive with fractions and must survive parsing
// without float drift.
func TestCountryParsesPerMillionAsDecimal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries/DE", r.URL.Path)
		w.Write([]byte(`{
			"country": "Germany",
			"countryInfo": {"iso2": "DE", "iso3": "DEU"},
			"cases": 1000,
			"casesPerOneMillion": 33591.54,
			"deathsPerOneMillion": 401.07
		}`))
	})

	snapshot, err := client.Country(tracing.NewConsoleLogger(), "DE", false)
	require.NoError(t, err)

	assert.True(t, snapshot.CasesPerMillion.Equal(decimal.RequireFromString("33591.54")))
	assert.True(t, snapshot.DeathsPerMillion.Equal(decimal.RequireFromString("401.07")))
}

func TestParseSortKey(t *testing.T) {
	for _, key := range SortKeys() {
		parsed, ok := ParseSortKey(string(key))
		assert.True(t, ok)
		assert.Equal(t, key, parsed)
	}

	_, ok := ParseSortKey("bananas")
	assert.False(t, ok)
}
