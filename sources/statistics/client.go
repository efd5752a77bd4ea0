package statistics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/shopspring/decimal"
)

const seriesDateLayout = "1/2/06"

// Client wraps the disease.sh API (https://github.com/disease-sh/API).
type Client struct {
	http   *http.Client
	config *configuration.Config
	log    *tracing.Logger
}

func NewClient(http *http.Client, config *configuration.Config, log *tracing.Logger) *Client {
	return &Client{http: http, config: config, log: log}
}

type countryPayload struct {
	Updated     int64  `json:"updated"`
	Country     string `json:"country"`
	CountryInfo struct {
		ISO2 string `json:"iso2"`
		ISO3 string `json:"iso3"`
	} `json:"countryInfo"`
	Cases               int64           `json:"cases"`
	TodayCases          int64           `json:"todayCases"`
	Deaths              int64           `json:"deaths"`
	TodayDeaths         int64           `json:"todayDeaths"`
	Recovered           int64           `json:"recovered"`
	Active              int64           `json:"active"`
	CasesPerOneMillion  decimal.Decimal `json:"casesPerOneMillion"`
	DeathsPerOneMillion decimal.Decimal `json:"deathsPerOneMillion"`
}

type statePayload struct {
	State               string          `json:"state"`
	Updated             int64           `json:"updated"`
	Cases               int64           `json:"cases"`
	TodayCases          int64           `json:"todayCases"`
	Deaths              int64           `json:"deaths"`
	TodayDeaths         int64           `json:"todayDeaths"`
	Active              int64           `json:"active"`
	CasesPerOneMillion  decimal.Decimal `json:"casesPerOneMillion"`
	DeathsPerOneMillion decimal.Decimal `json:"deathsPerOneMillion"`
}

type provincePayload struct {
	Province  string `json:"province"`
	Cases     int64  `json:"cases"`
	Deaths    int64  `json:"deaths"`
	Recovered int64  `json:"recovered"`
}

func (x *Client) get(logger *tracing.Logger, path string, params url.Values, out any) error {
	endpoint := strings.TrimSuffix(x.config.Statistics.BaseURL, "/") + "/" + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := x.http.Get(endpoint)
	if err != nil {
		logger.E("Statistics request failed", tracing.UpstreamUrl, endpoint, tracing.InnerError, err)
		return ErrDataUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.W("Statistics request returned non-success", tracing.UpstreamUrl, endpoint, tracing.UpstreamStatus, resp.StatusCode)
		return ErrDataUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.E("Statistics response decode failed", tracing.UpstreamUrl, endpoint, tracing.InnerError, err)
		return ErrDataUnavailable
	}

	return nil
}

// Countries returns every country the provider knows, keyed by ISO2.
// Entries without an ISO2 code are dropped, like the original feed
// drops cruise ships and aggregates.
func (x *Client) Countries(logger *tracing.Logger) (map[string]CountryInfo, error) {
	defer tracing.ProfilePoint(logger, "Statistics countries completed", "statistics.countries")()

	var payload []countryPayload
	if err := x.get(logger, "countries", nil, &payload); err != nil {
		return nil, err
	}

	countries := make(map[string]CountryInfo, len(payload))
	for _, item := range payload {
		if item.CountryInfo.ISO2 == "" {
			continue
		}
		countries[item.CountryInfo.ISO2] = CountryInfo{
			ISO2: item.CountryInfo.ISO2,
			ISO3: item.CountryInfo.ISO3,
			Name: item.Country,
		}
	}

	return countries, nil
}

func (x *Client) USStates(logger *tracing.Logger) ([]string, error) {
	defer tracing.ProfilePoint(logger, "Statistics US states completed", "statistics.us.states")()

	var payload []statePayload
	if err := x.get(logger, "states", nil, &payload); err != nil {
		return nil, err
	}

	states := make([]string, 0, len(payload))
	for _, item := range payload {
		states = append(states, item.State)
	}

	return states, nil
}

func (x *Client) DEStates(logger *tracing.Logger) ([]string, error) {
	defer tracing.ProfilePoint(logger, "Statistics DE states completed", "statistics.de.states")()

	var payload []provincePayload
	if err := x.get(logger, "gov/de", nil, &payload); err != nil {
		return nil, err
	}

	states := make([]string, 0, len(payload))
	for _, item := range payload {
		province := cleanProvince(item.Province)
		if strings.EqualFold(province, "Total") {
			continue
		}
		states = append(states, province)
	}

	return states, nil
}

// World returns the global snapshot, with the vaccination total merged
// in best-effort.
func (x *Client) World(logger *tracing.Logger, includeVaccinations bool) (*Snapshot, error) {
	defer tracing.ProfilePoint(logger, "Statistics world completed", "statistics.world")()

	var payload countryPayload
	if err := x.get(logger, "all", nil, &payload); err != nil {
		return nil, err
	}

	snapshot := snapshotFromCountry(&payload)
	snapshot.Name = "the World"

	if includeVaccinations {
		if total, err := x.WorldVaccinations(logger); err == nil {
			snapshot.Vaccinations = &total
		}
	}

	return snapshot, nil
}

func (x *Client) Country(logger *tracing.Logger, iso2 string, includeVaccinations bool) (*Snapshot, error) {
	defer tracing.ProfilePoint(logger, "Statistics country completed", "statistics.country", tracing.LocationCode, iso2)()

	var payload countryPayload
	if err := x.get(logger, "countries/"+url.PathEscape(iso2), nil, &payload); err != nil {
		return nil, err
	}

	snapshot := snapshotFromCountry(&payload)

	if includeVaccinations {
		if total, err := x.CountryVaccinations(logger, iso2); err == nil {
			snapshot.Vaccinations = &total
		}
	}

	return snapshot, nil
}

// USState unifies the state payload with the country format; the feed
// carries no recovered number for states, so it is derived.
func (x *Client) USState(logger *tracing.Logger, state string) (*Snapshot, error) {
	defer tracing.ProfilePoint(logger, "Statistics US state completed", "statistics.us.state", tracing.LocationCode, state)()

	var payload statePayload
	if err := x.get(logger, "states/"+url.PathEscape(state), nil, &payload); err != nil {
		return nil, err
	}

	return &Snapshot{
		Name:             payload.State,
		Updated:          time.UnixMilli(payload.Updated),
		Cases:            payload.Cases,
		TodayCases:       payload.TodayCases,
		Deaths:           payload.Deaths,
		TodayDeaths:      payload.TodayDeaths,
		Recovered:        payload.Cases - payload.Active - payload.Deaths,
		Active:           payload.Active,
		CasesPerMillion:  payload.CasesPerOneMillion,
		DeathsPerMillion: payload.DeathsPerOneMillion,
	}, nil
}

func (x *Client) DEState(logger *tracing.Logger, state string) (*Snapshot, error) {
	defer tracing.ProfilePoint(logger, "Statistics DE state completed", "statistics.de.state", tracing.LocationCode, state)()

	var payload []provincePayload
	if err := x.get(logger, "gov/de", nil, &payload); err != nil {
		return nil, err
	}

	for _, item := range payload {
		if !strings.EqualFold(cleanProvince(item.Province), state) {
			continue
		}
		return &Snapshot{
			Name:      cleanProvince(item.Province),
			Updated:   time.Now(),
			Cases:     item.Cases,
			Deaths:    item.Deaths,
			Recovered: item.Recovered,
			Active:    item.Cases - item.Deaths - item.Recovered,
		}, nil
	}

	return nil, ErrDataUnavailable
}

// CountryList returns all countries ordered by the requested sort key.
func (x *Client) CountryList(logger *tracing.Logger, sortBy SortKey) ([]ListEntry, error) {
	defer tracing.ProfilePoint(logger, "Statistics country list completed", "statistics.country.list", tracing.SortKey, string(sortBy))()

	params := url.Values{"sort": []string{string(sortBy)}}

	var payload []countryPayload
	if err := x.get(logger, "countries", params, &payload); err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(payload))
	for _, item := range payload {
		if item.CountryInfo.ISO2 == "" {
			continue
		}
		entries = append(entries, ListEntry{
			Code:   item.CountryInfo.ISO2,
			Name:   item.Country,
			Cases:  item.Cases,
			Deaths: item.Deaths,
		})
	}

	return entries, nil
}

// Timeseries fetches days+1 data points and returns day-over-day
// diffs. An empty iso2 selects the global series.
func (x *Client) Timeseries(logger *tracing.Logger, iso2 string, days int) (*Series, error) {
	defer tracing.ProfilePoint(logger, "Statistics timeseries completed", "statistics.timeseries", tracing.LocationCode, iso2, "days", days)()

	params := url.Values{"lastdays": []string{fmt.Sprint(days + 1)}}

	path := "historical/all"
	if iso2 != "" {
		path = "historical/" + url.PathEscape(iso2)
	}

	var payload struct {
		Country  string `json:"country"`
		Timeline *struct {
			Cases  map[string]int64 `json:"cases"`
			Deaths map[string]int64 `json:"deaths"`
		} `json:"timeline"`
		Cases  map[string]int64 `json:"cases"`
		Deaths map[string]int64 `json:"deaths"`
	}
	if err := x.get(logger, path, params, &payload); err != nil {
		return nil, err
	}

	name := "the World"
	cases, deaths := payload.Cases, payload.Deaths
	if payload.Timeline != nil {
		name = payload.Country
		cases, deaths = payload.Timeline.Cases, payload.Timeline.Deaths
	}

	dates := sortedDates(cases)
	if len(dates) < 2 {
		return nil, ErrDataUnavailable
	}

	series := &Series{Name: name}
	series.LastDate, _ = time.Parse(seriesDateLayout, dates[len(dates)-1])
	for i := 1; i < len(dates); i++ {
		series.Cases = append(series.Cases, cases[dates[i]]-cases[dates[i-1]])
		series.Deaths = append(series.Deaths, deaths[dates[i]]-deaths[dates[i-1]])
	}

	return series, nil
}

func (x *Client) WorldVaccinations(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Statistics world vaccinations completed", "statistics.world.vaccinations")()

	params := url.Values{"lastdays": []string{"1"}}

	var payload map[string]int64
	if err := x.get(logger, "vaccine/coverage", params, &payload); err != nil {
		return 0, err
	}

	for _, total := range payload {
		return total, nil
	}

	return 0, ErrDataUnavailable
}

func (x *Client) CountryVaccinations(logger *tracing.Logger, iso2 string) (int64, error) {
	defer tracing.ProfilePoint(logger, "Statistics country vaccinations completed", "statistics.country.vaccinations", tracing.LocationCode, iso2)()

	params := url.Values{"lastdays": []string{"1"}}

	var payload struct {
		Country  string           `json:"country"`
		Timeline map[string]int64 `json:"timeline"`
	}
	if err := x.get(logger, "vaccine/coverage/countries/"+url.PathEscape(iso2), params, &payload); err != nil {
		return 0, err
	}

	for _, total := range payload.Timeline {
		return total, nil
	}

	return 0, ErrDataUnavailable
}

func snapshotFromCountry(payload *countryPayload) *Snapshot {
	return &Snapshot{
		Code:             payload.CountryInfo.ISO2,
		Name:             payload.Country,
		Updated:          time.UnixMilli(payload.Updated),
		Cases:            payload.Cases,
		TodayCases:       payload.TodayCases,
		Deaths:           payload.Deaths,
		TodayDeaths:      payload.TodayDeaths,
		Recovered:        payload.Recovered,
		Active:           payload.Active,
		CasesPerMillion:  payload.CasesPerOneMillion,
		DeathsPerMillion: payload.DeathsPerOneMillion,
	}
}

// cleanProvince strips soft hyphens and line breaks the DE feed leaks
// into province names.
func cleanProvince(s string) string {
	s = strings.ReplaceAll(s, "­", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

func sortedDates(points map[string]int64) []string {
	dates := make([]string, 0, len(points))
	for date := range points {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		a, _ := time.Parse(seriesDateLayout, dates[i])
		b, _ := time.Parse(seriesDateLayout, dates[j])
		return a.Before(b)
	})
	return dates
}
