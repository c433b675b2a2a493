// Package presence turns raw radar frames into a stable presence signal: a
// parser that extracts the per-frame token and a debounce machine that only
// accepts a new state after it has held continuously for a configured time.
package presence

import "strings"

// framePrefix tags the presence report frames emitted by the SEN0395 radar.
// A full frame looks like `$JYBSS,1, , , *`.
const framePrefix = "$JYBSS,"

// Presence token values as they appear on the wire. The empty string means
// "no usable signal this frame" and is never a state candidate.
const (
	Present = "1"
	Absent  = "0"
)

// ParseFrame extracts the raw presence token from one frame. Frames that do
// not carry the presence tag, or have fewer than two comma-separated fields,
// yield "". Malformed frames are not errors; they are simply no signal.
func ParseFrame(line string) string {
	if !strings.HasPrefix(line, framePrefix) {
		return ""
	}
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
