// Package sensor abstracts the serial link to the presence radar as a source
// of newline-terminated ASCII frames. A single consumer reads one line at a
// time with a bounded per-read timeout; transport failures surface as errors
// so the session controller can reconnect.
package sensor

import (
	"io"
	"time"
)

// SerialPorter defines the minimal interface needed for a serial port.
// This abstraction enables unit testing without real serial hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutSerialPorter extends SerialPorter with a read timeout. Ports that
// implement it get a bounded blocking read; this is what keeps the session
// loop responsive to shutdown while the device is silent.
type TimeoutSerialPorter interface {
	SerialPorter
	SetReadTimeout(timeout time.Duration) error
}

// LineSource yields one frame per call. ReadLine blocks up to the configured
// read timeout; a timeout with no data returns ("", nil). Any other error is
// a transport failure and the source must be discarded and reopened.
type LineSource interface {
	ReadLine() (string, error)
	Close() error
}

// PortFactory opens line sources. The session controller goes through a
// factory so a failed source can be recreated after the reconnect delay, and
// so tests can inject scripted sources.
type PortFactory interface {
	Open(path string, opts PortOptions, readTimeout time.Duration) (LineSource, error)
}
