package dialog

import (
	"testing"

	"coronabot/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	active map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{active: make(map[int64]bool)}
}

func (f *fakeStore) Active(_ *tracing.Logger, chatID int64) (bool, error) {
	return f.active[chatID], nil
}

func (f *fakeStore) Begin(_ *tracing.Logger, chatID int64) error {
	f.active[chatID] = true
	return nil
}

func (f *fakeStore) Clear(_ *tracing.Logger, chatID int64) error {
	delete(f.active, chatID)
	return nil
}

type fakeResolver struct {
	known map[string]string
}

func (f *fakeResolver) ResolveCode(alias string) (string, bool) {
	code, ok := f.known[alias]
	return code, ok
}

type fakeHomes struct {
	saved map[int64]string
}

func (f *fakeHomes) SetHomeLocation(_ *tracing.Logger, chatID int64, code string) error {
	f.saved[chatID] = code
	return nil
}

func newTestMachine() (*Machine, *fakeStore, *fakeHomes) {
	store := newFakeStore()
	homes := &fakeHomes{saved: make(map[int64]string)}
	resolver := &fakeResolver{known: map[string]string{
		"germany": "DE",
		"de":      "DE",
	}}
	log := tracing.NewConsoleLogger()
	return NewMachine(store, resolver, homes, log), store, homes
}

func TestHandleTextWhileIdle(t *testing.T) {
	machine, _, homes := newTestMachine()
	log := tracing.NewConsoleLogger()

	outcome, code, err := machine.HandleText(log, 1, "germany")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInactive, outcome)
	assert.Empty(t, code)
	assert.Empty(t, homes.saved)
}

func TestHandleTextSavesAndCloses(t *testing.T) {
	machine, store, homes := newTestMachine()
	log := tracing.NewConsoleLogger()

	require.NoError(t, machine.Begin(log, 1))
	require.True(t, machine.Active(log, 1))

	outcome, code, err := machine.HandleText(log, 1, "germany")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, outcome)
	assert.Equal(t, "DE", code)
	assert.Equal(t, "DE", homes.saved[1])
	assert.False(t, store.active[1])
}

// Unresolvable input keeps the dialog open so the user can try again.
func TestHandleTextUnknownKeepsDialogOpen(t *testing.T) {
	machine, store, homes := newTestMachine()
	log := tracing.NewConsoleLogger()

	require.NoError(t, machine.Begin(log, 1))

	outcome, code, err := machine.HandleText(log, 1, "atlantis")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnknown, outcome)
	assert.Empty(t, code)
	assert.Empty(t, homes.saved)
	assert.True(t, store.active[1])
}

func TestCancelClosesWithoutWriting(t *testing.T) {
	machine, store, homes := newTestMachine()
	log := tracing.NewConsoleLogger()

	require.NoError(t, machine.Begin(log, 1))

	wasActive, err := machine.Cancel(log, 1)
	require.NoError(t, err)
	assert.True(t, wasActive)
	assert.False(t, store.active[1])
	assert.Empty(t, homes.saved)
}

func TestCancelWhileIdle(t *testing.T) {
	machine, _, _ := newTestMachine()
	log := tracing.NewConsoleLogger()

	wasActive, err := machine.Cancel(log, 1)
	require.NoError(t, err)
	assert.False(t, wasActive)
}

// Dialogs are independent per chat.
func TestDialogsAreChatScoped(t *testing.T) {
	machine, _, homes := newTestMachine()
	log := tracing.NewConsoleLogger()

	require.NoError(t, machine.Begin(log, 1))

	outcome, _, err := machine.HandleText(log, 2, "germany")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInactive, outcome)
	assert.Empty(t, homes.saved)

	outcome, _, err = machine.HandleText(log, 1, "germany")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, outcome)
}
