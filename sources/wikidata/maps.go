package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/platform"
	"coronabot/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// ErrNoMap means Wikidata knows no outbreak map for the location.
// Callers fall back to a plain text card.
var ErrNoMap = fmt.Errorf("no outbreak map available")

const sparqlQuery = `
PREFIX pq: <http://www.wikidata.org/prop/qualifier/>
PREFIX p: <http://www.wikidata.org/prop/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX wd: <http://www.wikidata.org/entity/>
SELECT ?img
WHERE
{
    ?page p:P31 ?prop.
    ?prop pq:P642 wd:Q84263196.
    ?page wdt:P276 ?country.
    ?country wdt:P297 ?iso2.
    ?country wdt:P298 ?iso3.
    ?page wdt:P1846 ?img.
    FILTER(?iso2 = "%[1]s" || ?iso3 = "%[1]s")
}`

// MapProvider resolves per-country outbreak map images through the
// Wikidata SPARQL endpoint, caching resolved URLs as it goes.
type MapProvider struct {
	http   *http.Client
	redis  *redis.Client
	config *configuration.Config
	log    *tracing.Logger
}

func NewMapProvider(http *http.Client, redis *redis.Client, config *configuration.Config, log *tracing.Logger) *MapProvider {
	return &MapProvider{http: http, redis: redis, config: config, log: log}
}

// WorldMap returns the static per-capita world map URL.
func (x *MapProvider) WorldMap() string {
	return addTimestamp(x.config.Wikidata.WorldMapURL)
}

// CountryMap returns a cacheable image URL for a country, or ErrNoMap.
func (x *MapProvider) CountryMap(logger *tracing.Logger, iso2 string) (string, error) {
	defer tracing.ProfilePoint(logger, "Wikidata country map completed", "wikidata.country.map", tracing.LocationCode, iso2)()

	iso2 = strings.ToUpper(iso2)

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	key := "map_image:" + iso2
	if cached, err := x.redis.Get(ctx, key).Result(); err == nil {
		return addTimestamp(cached), nil
	}

	params := url.Values{
		"query":  []string{fmt.Sprintf(sparqlQuery, iso2)},
		"format": []string{"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, x.config.Wikidata.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", x.config.Wikidata.UserAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := x.http.Do(req)
	if err != nil {
		logger.W("Wikidata query failed", tracing.InnerError, err)
		return "", ErrNoMap
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.W("Wikidata query returned non-success", tracing.UpstreamStatus, resp.StatusCode)
		return "", ErrNoMap
	}

	var payload struct {
		Results struct {
			Bindings []struct {
				Img struct {
					Value string `json:"value"`
				} `json:"img"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.W("Wikidata response decode failed", tracing.InnerError, err)
		return "", ErrNoMap
	}

	if len(payload.Results.Bindings) == 0 {
		return "", ErrNoMap
	}

	path, err := x.checkPath(logger, payload.Results.Bindings[0].Img.Value)
	if err != nil {
		return "", ErrNoMap
	}

	if err := x.redis.Set(ctx, key, path, x.config.Wikidata.CacheTTL).Err(); err != nil {
		logger.W("Failed to cache map image url", tracing.InnerError, err)
	}

	return addTimestamp(path), nil
}

// checkPath follows redirects and rewrites svg hits to a 500px png
// thumb, since the transport cannot deliver svg photos.
func (x *MapProvider) checkPath(logger *tracing.Logger, rawURL string) (string, error) {
	resp, err := x.http.Get(rawURL)
	if err != nil {
		logger.W("Failed to resolve map image url", tracing.UpstreamUrl, rawURL, tracing.InnerError, err)
		return "", err
	}
	defer resp.Body.Close()

	path := resp.Request.URL.String()
	if strings.HasSuffix(path, ".svg") {
		path = strings.Replace(path, "/commons/", "/commons/thumb/", 1)
		parts := strings.Split(path, "/")
		fileName := parts[len(parts)-1]
		return path + "/500px-" + fileName + ".png", nil
	}

	return path, nil
}

// addTimestamp appends an hourly cache-busting parameter so the
// transport does not serve stale map renders.
func addTimestamp(rawURL string) string {
	return fmt.Sprintf("%s?t=%s", rawURL, time.Now().UTC().Format("2006010215"))
}
