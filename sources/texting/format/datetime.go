package format

import "time"

const (
	dateLayout     = "02 Jan 2006"
	dateTimeLayout = "02 Jan 2006 15:04 MST"
)

func Dateify(t time.Time) string {
	return t.Format(dateLayout)
}

func DateTimeify(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}
