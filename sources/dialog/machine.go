package dialog

import (
	"coronabot/sources/tracing"
)

// Store keeps the per-chat dialog phase. The backing store owns
// expiry: an entry that times out reads back as inactive.
type Store interface {
	Active(logger *tracing.Logger, chatID int64) (bool, error)
	Begin(logger *tracing.Logger, chatID int64) error
	Clear(logger *tracing.Logger, chatID int64) error
}

// Resolver maps a free-text alias to a canonical location code.
type Resolver interface {
	ResolveCode(alias string) (string, bool)
}

// HomeWriter persists the captured home location.
type HomeWriter interface {
	SetHomeLocation(logger *tracing.Logger, chatID int64, code string) error
}

type Outcome int

const (
	// OutcomeInactive: the chat holds no dialog; the caller falls
	// through to the default free-text handling.
	OutcomeInactive Outcome = iota
	// OutcomeSaved: input resolved, preference written, dialog closed.
	OutcomeSaved
	// OutcomeUnknown: input did not resolve; the dialog stays open.
	OutcomeUnknown
)

// Machine is the set-location conversation: Idle -> AwaitingInput ->
// Idle. While a dialog is open it holds the exclusive claim on the
// chat's free-text input.
type Machine struct {
	store    Store
	resolver Resolver
	homes    HomeWriter
	log      *tracing.Logger
}

func NewMachine(store Store, resolver Resolver, homes HomeWriter, log *tracing.Logger) *Machine {
	return &Machine{store: store, resolver: resolver, homes: homes, log: log}
}

func (x *Machine) Begin(logger *tracing.Logger, chatID int64) error {
	return x.store.Begin(logger, chatID)
}

func (x *Machine) Active(logger *tracing.Logger, chatID int64) bool {
	active, err := x.store.Active(logger, chatID)
	if err != nil {
		return false
	}
	return active
}

// Cancel closes the dialog without writing anything; reports whether
// one was open.
func (x *Machine) Cancel(logger *tracing.Logger, chatID int64) (bool, error) {
	active, err := x.store.Active(logger, chatID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}

	return true, x.store.Clear(logger, chatID)
}

// HandleText feeds one free-text message into the dialog. The code is
// set for OutcomeSaved.
func (x *Machine) HandleText(logger *tracing.Logger, chatID int64, text string) (Outcome, string, error) {
	active, err := x.store.Active(logger, chatID)
	if err != nil {
		return OutcomeInactive, "", err
	}
	if !active {
		return OutcomeInactive, "", nil
	}

	code, ok := x.resolver.ResolveCode(text)
	if !ok {
		logger.I("Dialog input did not resolve", tracing.ChatId, chatID)
		return OutcomeUnknown, "", nil
	}

	if err := x.homes.SetHomeLocation(logger, chatID, code); err != nil {
		return OutcomeUnknown, "", err
	}

	if err := x.store.Clear(logger, chatID); err != nil {
		logger.W("Failed to close dialog after save", tracing.InnerError, err)
	}

	logger.I("Dialog captured home location", tracing.ChatId, chatID, tracing.LocationCode, code)
	return OutcomeSaved, code, nil
}
