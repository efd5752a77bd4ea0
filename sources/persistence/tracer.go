package persistence

import "coronabot/sources/tracing"

type gormtracer struct {
	logger *tracing.Logger
}

func (w *gormtracer) Printf(format string, args ...interface{}) {
	w.logger.D(format, args...)
}
