package sensor

import (
	"errors"
	"sync"
	"time"

	"github.com/banshee-data/presence.report/internal/timeutil"
)

// ErrPortClosed is returned by ScriptedPort reads after Close.
var ErrPortClosed = errors.New("serial port closed")

type readStep struct {
	data []byte
	err  error
}

// ScriptedPort implements SerialPorter with a queue of scripted read results,
// so tests can interleave data, timeouts, and transport failures in a fixed
// order without real hardware.
type ScriptedPort struct {
	mu     sync.Mutex
	steps  []readStep
	closed bool

	// ReadCalls records the number of Read calls.
	ReadCalls int
}

// NewScriptedPort creates an empty ScriptedPort. With no queued steps every
// Read reports a timeout (0 bytes, nil error).
func NewScriptedPort() *ScriptedPort {
	return &ScriptedPort{}
}

// QueueData schedules bytes to be returned by a future Read.
func (p *ScriptedPort) QueueData(data string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, readStep{data: []byte(data)})
}

// QueueTimeout schedules one empty read (the bounded-timeout result).
func (p *ScriptedPort) QueueTimeout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, readStep{})
}

// QueueError schedules a transport failure.
func (p *ScriptedPort) QueueError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, readStep{err: err})
}

// Read pops the next scripted step. An exhausted script reads as a timeout.
func (p *ScriptedPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ReadCalls++
	if p.closed {
		return 0, ErrPortClosed
	}
	if len(p.steps) == 0 {
		return 0, nil
	}

	step := p.steps[0]
	p.steps = p.steps[1:]
	if step.err != nil {
		return 0, step.err
	}
	n := copy(buf, step.data)
	// Steps are sized below the reader's chunk buffer; a partial copy here
	// would silently drop scripted bytes.
	if n < len(step.data) {
		p.steps = append([]readStep{{data: step.data[n:]}}, p.steps...)
	}
	return n, nil
}

// Write discards the data. The presence radar is read-only in this design.
func (p *ScriptedPort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrPortClosed
	}
	return len(data), nil
}

// Close marks the port as closed.
func (p *ScriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *ScriptedPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// MockPortFactory implements PortFactory for testing and dev mode. Each Open
// returns the next source from Sources, or Err if set.
type MockPortFactory struct {
	mu      sync.Mutex
	Sources []LineSource
	Err     error

	// OpenCalls records the paths passed to Open.
	OpenCalls []string
}

// Open returns the next configured source.
func (f *MockPortFactory) Open(path string, opts PortOptions, readTimeout time.Duration) (LineSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.OpenCalls = append(f.OpenCalls, path)
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Sources) == 0 {
		return nil, errors.New("mock factory: no sources left")
	}
	src := f.Sources[0]
	f.Sources = f.Sources[1:]
	return src, nil
}

// ReplaySource is a LineSource that cycles through canned frames at a fixed
// cadence, for bringing the logger up without radar hardware.
type ReplaySource struct {
	frames   []string
	interval time.Duration
	clock    timeutil.Clock
	next     int
}

// NewReplaySource creates a replay source emitting frames in order, looping
// forever, one frame per interval.
func NewReplaySource(frames []string, interval time.Duration, clock timeutil.Clock) *ReplaySource {
	return &ReplaySource{
		frames:   frames,
		interval: interval,
		clock:    clock,
	}
}

// ReadLine sleeps one interval and returns the next frame.
func (r *ReplaySource) ReadLine() (string, error) {
	if len(r.frames) == 0 {
		return "", nil
	}
	r.clock.Sleep(r.interval)
	line := r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)
	return line, nil
}

// Close is a no-op.
func (r *ReplaySource) Close() error {
	return nil
}

// ReplayFactory wraps a ReplaySource constructor as a PortFactory so dev mode
// goes through the same reconnect path as real hardware.
type ReplayFactory struct {
	Frames   []string
	Interval time.Duration
	Clock    timeutil.Clock
}

// Open ignores the device path and returns a fresh replay source.
func (f ReplayFactory) Open(path string, opts PortOptions, readTimeout time.Duration) (LineSource, error) {
	return NewReplaySource(f.Frames, f.Interval, f.Clock), nil
}
