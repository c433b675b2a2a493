// Package logbook persists presence observations to per-day append-only CSV
// files, rotating at UTC midnight.
package logbook

import (
	"fmt"
	"strings"
	"time"
)

// Header is the first line of every day file.
const Header = "timestamp_utc,timestamp_local,presence_raw,presence_debounced,raw"

// Millisecond-precision timestamps; UTC gets a Z suffix, local a numeric
// offset, matching the established on-disk format.
const (
	utcLayout   = "2006-01-02T15:04:05.000Z"
	localLayout = "2006-01-02T15:04:05.000-0700"
	dayLayout   = "2006-01-02"
)

// Record is one observation: one raw line read from the device, with the
// tokens derived from it. Immutable once written.
type Record struct {
	UTC       time.Time // arrival instant, for the UTC column and rotation
	Local     time.Time // arrival instant in the local zone
	Raw       string    // token parsed from this frame; "" when unparseable
	Debounced string    // debounced token at the time of this frame
	Line      string    // the original frame text, verbatim
}

// Day returns the UTC calendar date the record belongs to.
func (r Record) Day() string {
	return r.UTC.UTC().Format(dayLayout)
}

// TimestampUTC returns the UTC timestamp column value.
func (r Record) TimestampUTC() string {
	return r.UTC.UTC().Format(utcLayout)
}

// TimestampLocal returns the local timestamp column value.
func (r Record) TimestampLocal() string {
	return r.Local.Format(localLayout)
}

// CSV renders the record as one row. The raw line is always quoted with
// internal double quotes doubled so any device output round-trips; the other
// fields contain no delimiter characters by construction.
func (r Record) CSV() string {
	escaped := strings.ReplaceAll(r.Line, `"`, `""`)
	return fmt.Sprintf(`%s,%s,%s,%s,"%s"`,
		r.TimestampUTC(),
		r.TimestampLocal(),
		r.Raw,
		r.Debounced,
		escaped,
	)
}
