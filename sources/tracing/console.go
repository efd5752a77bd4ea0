package tracing

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const (
	InnerError     = "inner_error"
	UserId         = "user_id"
	UserName       = "user_name"
	UserLang       = "user_lang"
	ChatType       = "chat_type"
	ChatId         = "chat_id"
	MessageId      = "message_id"
	MessageDate    = "message_date"
	CommandIssued  = "command_issued"
	CallbackData   = "callback_data"
	InlineQuery    = "inline_query"
	LocationCode   = "location_code"
	SortKey        = "sort_key"
	PageIndex      = "page_index"
	PageSize       = "page_size"
	UpstreamUrl    = "upstream_url"
	UpstreamStatus = "upstream_status"
	ProxyUrl       = "proxy_url"
	ProxyRes       = "proxy_res"
	OutsiderKind   = "outsider_kind"
	SqlQuery       = "sql_query"
	Scope          = "scope"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger.InfoContext(ctx, "Initializing logger")
	return &Logger{log: logger, ctx: ctx}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
