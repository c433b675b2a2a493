package sensor

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialPortFactory opens real serial ports via go.bug.st/serial.
type SerialPortFactory struct{}

// Open opens the serial device at path with the given options, applies the
// per-read timeout, and wraps it in a LineReader.
func (SerialPortFactory) Open(path string, opts PortOptions, readTimeout time.Duration) (LineSource, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return NewLineReader(port), nil
}
