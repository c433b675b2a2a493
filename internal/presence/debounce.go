package presence

import "time"

// Direction labels a confirmed presence transition.
type Direction string

const (
	Arrived Direction = "ARRIVED"
	Left    Direction = "LEFT"
)

// Transition is emitted when the debounced state changes.
type Transition struct {
	Direction Direction
}

// Machine suppresses flicker in the raw presence signal. A candidate state is
// promoted to the debounced state only after it has been observed continuously
// for the hold duration without an intervening different token. The machine
// carries its state for the life of the process, including across device
// reconnects.
type Machine struct {
	hold           time.Duration
	debounced      string
	candidate      string
	candidateSince time.Time
}

// NewMachine creates a debounce machine in the unknown state.
func NewMachine(hold time.Duration) *Machine {
	return &Machine{hold: hold}
}

// Observe consumes one raw token. now must come from a monotonic clock; the
// hold-time comparison must not move with wall-clock adjustments. Returns a
// Transition when the debounced state changes, nil otherwise.
//
// The first non-empty token establishes the state immediately without the
// hold timer and emits no transition: that is initialization, not an arrival.
func (m *Machine) Observe(token string, now time.Time) *Transition {
	if token == "" {
		return nil
	}

	if m.debounced == "" {
		m.debounced = token
		m.candidate = token
		m.candidateSince = now
		return nil
	}

	if token == m.debounced {
		// Agreement with the stable state wins immediately: it re-arms the
		// hold timer and cancels any competing candidate.
		m.candidate = token
		m.candidateSince = now
		return nil
	}

	if token == m.candidate {
		if now.Sub(m.candidateSince) >= m.hold {
			m.debounced = token
			if token == Present {
				return &Transition{Direction: Arrived}
			}
			return &Transition{Direction: Left}
		}
		return nil
	}

	// A new competing candidate; its hold timer restarts from zero.
	m.candidate = token
	m.candidateSince = now
	return nil
}

// Debounced returns the current stable token, or "" while still unknown.
func (m *Machine) Debounced() string {
	return m.debounced
}
