package sensor

import (
	"bytes"
	"strings"
)

// maxLineBytes bounds the carry buffer. An unterminated stream past this
// point is garbage (wrong baud rate, binary output mode) and is discarded
// rather than growing without limit.
const maxLineBytes = 64 * 1024

// LineReader adapts a serial port into a LineSource. It carries partial
// frames across reads and relies on the port's read timeout returning
// (0, nil) to bound each ReadLine call.
type LineReader struct {
	port  SerialPorter
	buf   []byte
	chunk []byte
}

// NewLineReader wraps an open port. The port's read timeout must already be
// configured; see SerialPortFactory.Open.
func NewLineReader(port SerialPorter) *LineReader {
	return &LineReader{
		port:  port,
		chunk: make([]byte, 1024),
	}
}

// ReadLine returns the next frame with surrounding whitespace trimmed. A read
// timeout with no complete frame buffered returns ("", nil). Transport errors
// are returned once any complete buffered frames have been drained.
func (r *LineReader) ReadLine() (string, error) {
	for {
		if i := bytes.IndexByte(r.buf, '\n'); i >= 0 {
			line := strings.TrimSpace(string(r.buf[:i]))
			r.buf = append(r.buf[:0], r.buf[i+1:]...)
			return line, nil
		}

		if len(r.buf) > maxLineBytes {
			r.buf = r.buf[:0]
		}

		n, err := r.port.Read(r.chunk)
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
			continue
		}
		if err != nil {
			return "", err
		}
		// 0 bytes, no error: the bounded read timed out with no data.
		return "", nil
	}
}

// Close closes the underlying port.
func (r *LineReader) Close() error {
	return r.port.Close()
}
