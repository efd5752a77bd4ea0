package dialog

import (
	"coronabot/sources/directory"
	"coronabot/sources/repository"
	"coronabot/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("dialog",
	fx.Provide(
		func(store *repository.DialogRepository, dir *directory.Directory, chats *repository.ChatsRepository, log *tracing.Logger) *Machine {
			return NewMachine(store, dir, chats, log)
		},
	),
)
