package broadcast

import (
	"errors"
	"testing"

	"coronabot/sources/configuration"
	"coronabot/sources/metrics"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type fakeCourier struct {
	sent     map[int64]int
	failWith map[int64]error
}

func (f *fakeCourier) SendReport(_ *tracing.Logger, chatID int64, _ string) error {
	f.sent[chatID]++
	return f.failWith[chatID]
}

type fakeRegistry struct {
	chatIDs []int64
}

func (f *fakeRegistry) List(_ *tracing.Logger) ([]int64, error) {
	snapshot := make([]int64, len(f.chatIDs))
	copy(snapshot, f.chatIDs)
	return snapshot, nil
}

func (f *fakeRegistry) Unsubscribe(_ *tracing.Logger, chatID int64) (bool, error) {
	for i, id := range f.chatIDs {
		if id == chatID {
			f.chatIDs = append(f.chatIDs[:i], f.chatIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeReports struct{}

func (fakeReports) Build(_ *tracing.Logger, chatID int64) (string, error) {
	return "report", nil
}

func newTestDispatcher(courier *fakeCourier, registry *fakeRegistry) *Dispatcher {
	log := tracing.NewConsoleLogger()
	return NewDispatcher(courier, registry, fakeReports{}, metrics.NewMetricsService(log), &configuration.Config{}, log)
}

// A chat that rejected the bot for good disappears from the registry;
// everyone else still gets exactly one message.
func TestRunPrunesPermanentlyUnreachable(t *testing.T) {
	courier := &fakeCourier{
		sent: make(map[int64]int),
		failWith: map[int64]error{
			2: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"},
		},
	}
	registry := &fakeRegistry{chatIDs: []int64{1, 2, 3}}
	dispatcher := newTestDispatcher(courier, registry)

	dispatcher.Run(tracing.NewConsoleLogger())

	assert.Equal(t, []int64{1, 3}, registry.chatIDs)
	assert.Equal(t, 1, courier.sent[1])
	assert.Equal(t, 1, courier.sent[2])
	assert.Equal(t, 1, courier.sent[3])
}

func TestRunKeepsTransientFailures(t *testing.T) {
	courier := &fakeCourier{
		sent: make(map[int64]int),
		failWith: map[int64]error{
			2: &tgbotapi.Error{Code: 429, Message: "Too Many Requests"},
			3: errors.New("connection reset"),
		},
	}
	registry := &fakeRegistry{chatIDs: []int64{1, 2, 3}}
	dispatcher := newTestDispatcher(courier, registry)

	dispatcher.Run(tracing.NewConsoleLogger())

	assert.Equal(t, []int64{1, 2, 3}, registry.chatIDs)
}

func TestRunPrunesDeletedChats(t *testing.T) {
	courier := &fakeCourier{
		sent: make(map[int64]int),
		failWith: map[int64]error{
			1: &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
		},
	}
	registry := &fakeRegistry{chatIDs: []int64{1, 2}}
	dispatcher := newTestDispatcher(courier, registry)

	dispatcher.Run(tracing.NewConsoleLogger())

	assert.Equal(t, []int64{2}, registry.chatIDs)
}

func TestPermanentFailureClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{name: "Blocked", err: &tgbotapi.Error{Code: 403, Message: "Forbidden"}, permanent: true},
		{name: "Chat gone", err: &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, permanent: true},
		{name: "Other bad request", err: &tgbotapi.Error{Code: 400, Message: "Bad Request: message is too long"}, permanent: false},
		{name: "Rate limited", err: &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, permanent: false},
		{name: "Plain transport error", err: errors.New("dial tcp: timeout"), permanent: false},
		{name: "Server error", err: &tgbotapi.Error{Code: 502, Message: "Bad Gateway"}, permanent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.permanent, permanentFailure(tt.err))
		})
	}
}
