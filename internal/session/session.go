// Package session runs the acquisition loop: read one frame from the radar,
// parse it, feed the debounce machine, persist the observation, print a
// status line. The controller supervises the serial connection, reconnecting
// with a fixed delay after transport failures, and shuts down cleanly when
// its context is cancelled.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/logbook"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/presence"
	"github.com/banshee-data/presence.report/internal/sensor"
	"github.com/banshee-data/presence.report/internal/timeutil"
)

// Config carries the tunable parameters of a logging session.
type Config struct {
	DevicePath     string
	PortOptions    sensor.PortOptions
	LogDir         string
	HoldTime       time.Duration // continuous time a candidate state must hold
	ReadTimeout    time.Duration // bounds each blocking read
	ReconnectDelay time.Duration // fixed backoff after a transport failure
}

// withDefaults fills unset durations with the field-deployment values.
func (cfg Config) withDefaults() Config {
	if cfg.HoldTime <= 0 {
		cfg.HoldTime = 10 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 2 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	return cfg
}

// ObservationStore receives a copy of every record, in addition to the CSV
// log. Store errors are diagnostics, not failures; the CSV file is the
// durability contract.
type ObservationStore interface {
	RecordObservation(logbook.Record) error
}

// Deps carries the controller's injected collaborators. Zero-value fields get
// production defaults; tests swap in mocks.
type Deps struct {
	Factory sensor.PortFactory
	FS      fsutil.FileSystem
	Clock   timeutil.Clock
	Out     io.Writer        // human-readable status lines
	Store   ObservationStore // optional sqlite mirror
}

// Controller owns the device handle, the log writer, and the debounce state
// for the life of the process.
type Controller struct {
	cfg     Config
	factory sensor.PortFactory
	clock   timeutil.Clock
	out     io.Writer
	store   ObservationStore
	machine *presence.Machine
	writer  *logbook.Writer
}

// New validates the config, creates the log directory, and returns a
// controller ready to Run. A failure to set up the log directory is fatal:
// without it the durability guarantee is gone before the first frame.
func New(cfg Config, deps Deps) (*Controller, error) {
	cfg = cfg.withDefaults()
	if cfg.DevicePath == "" {
		return nil, errors.New("device path is required")
	}
	if cfg.LogDir == "" {
		return nil, errors.New("log directory is required")
	}

	opts, err := cfg.PortOptions.Normalize()
	if err != nil {
		return nil, err
	}
	cfg.PortOptions = opts

	if deps.Factory == nil {
		deps.Factory = sensor.SerialPortFactory{}
	}
	if deps.FS == nil {
		deps.FS = fsutil.OSFileSystem{}
	}
	if deps.Clock == nil {
		deps.Clock = timeutil.RealClock{}
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	writer, err := logbook.NewWriter(deps.FS, cfg.LogDir)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:     cfg,
		factory: deps.Factory,
		clock:   deps.Clock,
		out:     deps.Out,
		store:   deps.Store,
		machine: presence.NewMachine(cfg.HoldTime),
		writer:  writer,
	}, nil
}

// Run drives the loop until ctx is cancelled (clean shutdown, returns nil) or
// the log file fails (fatal, returns the error). Transport failures never end
// the run; the controller retries forever with a fixed delay.
func (c *Controller) Run(ctx context.Context) error {
	monitoring.Logf("presence logger started — %s @ %d baud", c.cfg.DevicePath, c.cfg.PortOptions.BaudRate)
	monitoring.Logf("logging to %s (hold %s, read timeout %s, reconnect %s)",
		c.cfg.LogDir, c.cfg.HoldTime, c.cfg.ReadTimeout, c.cfg.ReconnectDelay)

	err := c.loop(ctx)

	path := c.writer.Path()
	if cerr := c.writer.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close log file: %w", cerr)
	}
	if err != nil {
		return err
	}

	if path != "" {
		monitoring.Logf("stopping logger; log: %s", path)
	} else {
		monitoring.Logf("stopping logger; no observations recorded")
	}
	return nil
}

func (c *Controller) loop(ctx context.Context) error {
	var src sensor.LineSource
	defer func() {
		if src != nil {
			src.Close()
		}
	}()

	for {
		// The bounded read timeout guarantees this check runs regularly
		// even while the device is silent.
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if src == nil {
			var err error
			src, err = c.factory.Open(c.cfg.DevicePath, c.cfg.PortOptions, c.cfg.ReadTimeout)
			if err != nil {
				monitoring.Logf("failed to open %s: %v — retrying in %s", c.cfg.DevicePath, err, c.cfg.ReconnectDelay)
				if !c.waitReconnect(ctx) {
					return nil
				}
				continue
			}
			monitoring.Logf("connected to %s", c.cfg.DevicePath)
		}

		line, err := src.ReadLine()
		if err != nil {
			monitoring.Logf("serial error: %v — reconnecting in %s", err, c.cfg.ReconnectDelay)
			src.Close()
			src = nil
			// Debounce state is deliberately preserved: presence history
			// should not reset just because the link blipped.
			if !c.waitReconnect(ctx) {
				return nil
			}
			continue
		}
		if line == "" {
			continue
		}

		if err := c.process(line); err != nil {
			return err
		}
	}
}

// waitReconnect blocks for the reconnect delay. Returns false if the context
// was cancelled while waiting.
func (c *Controller) waitReconnect(ctx context.Context) bool {
	select {
	case <-c.clock.After(c.cfg.ReconnectDelay):
		return true
	case <-ctx.Done():
		return false
	}
}

// process handles one non-empty line: parse, debounce, persist, print. Every
// line produces exactly one record, parseable or not.
func (c *Controller) process(line string) error {
	now := c.clock.Now()

	raw := presence.ParseFrame(line)
	var tr *presence.Transition
	if raw != "" {
		tr = c.machine.Observe(raw, now)
	}

	rec := logbook.Record{
		UTC:       now,
		Local:     now.Local(),
		Raw:       raw,
		Debounced: c.machine.Debounced(),
		Line:      line,
	}

	if tr != nil {
		fmt.Fprintf(c.out, "*** %s | %s ***\n", rec.TimestampLocal(), tr.Direction)
	}

	if err := c.writer.Append(rec); err != nil {
		return err
	}

	if c.store != nil {
		if err := c.store.RecordObservation(rec); err != nil {
			monitoring.Logf("observation store error: %v", err)
		}
	}

	c.printStatus(rec)
	return nil
}

func (c *Controller) printStatus(rec logbook.Record) {
	var status string
	switch rec.Raw {
	case presence.Present:
		status = "PRESENT"
	case presence.Absent:
		status = "ABSENT "
	default:
		status = "???    "
	}

	flicker := ""
	if rec.Raw != rec.Debounced {
		flicker = " (flickering)"
	}

	fmt.Fprintf(c.out, "%s | %s | deb=%s%s\n", rec.TimestampLocal(), status, rec.Debounced, flicker)
}

// LogPath returns the path of the current day file, for the shutdown banner.
func (c *Controller) LogPath() string {
	return c.writer.Path()
}
