package telegram

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coronabot/sources/configuration"
	"coronabot/sources/directory"
	"coronabot/sources/statistics"
	"coronabot/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) *directory.Directory {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/countries":
			w.Write([]byte(`[
				{"country": "Germany", "countryInfo": {"iso2": "DE", "iso3": "DEU"}},
				{"country": "Georgia", "countryInfo": {"iso2": "GE", "iso3": "GEO"}},
				{"country": "Western Sahara", "countryInfo": {"iso2": "EH", "iso3": "ESH"}}
			]`))
		case "/states":
			w.Write([]byte(`[{"state": "Washington"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(server.Close)

	config := &configuration.Config{}
	config.Statistics.BaseURL = server.URL

	client := statistics.NewClient(server.Client(), config, tracing.NewConsoleLogger())
	dir, err := directory.NewDirectory(client, tracing.NewConsoleLogger())
	require.NoError(t, err)

	return dir
}

// A blank query yields nothing, so the handler never answers it with a
// default world card.
func TestInlineCandidatesEmptyQuery(t *testing.T) {
	dir := newTestDirectory(t)

	assert.Nil(t, inlineCandidates(dir, "", 3))
	assert.Nil(t, inlineCandidates(dir, "   ", 3))
}

// Country names enter the directory before state names, so "w" ranks
// Western Sahara ahead of Washington; the world pseudo-location always
// comes first when it matches.
func TestInlineCandidatesWorldRanksFirst(t *testing.T) {
	dir := newTestDirectory(t)

	assert.Equal(t, []string{directory.WorldIdent, "EH", "us_washington"}, inlineCandidates(dir, "w", 3))
	assert.Equal(t, []string{directory.WorldIdent}, inlineCandidates(dir, "wor", 3))
}

func TestInlineCandidatesPrefixMatch(t *testing.T) {
	dir := newTestDirectory(t)

	assert.Equal(t, []string{"DE"}, inlineCandidates(dir, "ger", 3))
	assert.ElementsMatch(t, []string{"DE", "GE"}, inlineCandidates(dir, "ge", 3))
	assert.Empty(t, inlineCandidates(dir, "atlantis", 3))
}

func TestInlineCandidatesHonorsLimit(t *testing.T) {
	dir := newTestDirectory(t)

	assert.Equal(t, []string{directory.WorldIdent, "EH"}, inlineCandidates(dir, "w", 2))
}
