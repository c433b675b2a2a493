package sensor

import (
	"errors"
	"testing"
)

func TestLineReaderSplitsBufferedLines(t *testing.T) {
	port := NewScriptedPort()
	port.QueueData("$JYBSS,1, , , *\r\n$JYBSS,0, , , *\r\n")

	r := NewLineReader(port)

	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "$JYBSS,1, , , *" {
		t.Errorf("first line = %q", line)
	}

	// The second frame is already buffered; no further port read needed.
	calls := port.ReadCalls
	line, err = r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "$JYBSS,0, , , *" {
		t.Errorf("second line = %q", line)
	}
	if port.ReadCalls != calls {
		t.Errorf("ReadLine hit the port for a buffered frame (%d -> %d calls)", calls, port.ReadCalls)
	}
}

func TestLineReaderReassemblesPartialFrames(t *testing.T) {
	port := NewScriptedPort()
	port.QueueData("$JYBSS")
	port.QueueData(",1, , , *\n")

	r := NewLineReader(port)
	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "$JYBSS,1, , , *" {
		t.Errorf("line = %q", line)
	}
}

func TestLineReaderTimeoutYieldsEmptyLine(t *testing.T) {
	port := NewScriptedPort()
	port.QueueTimeout()

	r := NewLineReader(port)
	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "" {
		t.Errorf("timeout read returned %q, want empty", line)
	}
}

func TestLineReaderTimeoutMidFrameKeepsPartial(t *testing.T) {
	port := NewScriptedPort()
	port.QueueData("$JYB")
	port.QueueTimeout()
	port.QueueData("SS,1, , , *\n")

	r := NewLineReader(port)

	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "" {
		t.Errorf("mid-frame timeout returned %q, want empty", line)
	}

	line, err = r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "$JYBSS,1, , , *" {
		t.Errorf("line = %q", line)
	}
}

func TestLineReaderPropagatesTransportError(t *testing.T) {
	boom := errors.New("device unplugged")
	port := NewScriptedPort()
	port.QueueData("$JYBSS,1, , , *\n")
	port.QueueError(boom)

	r := NewLineReader(port)

	if _, err := r.ReadLine(); err != nil {
		t.Fatalf("buffered frame should be delivered before the error: %v", err)
	}
	if _, err := r.ReadLine(); !errors.Is(err, boom) {
		t.Errorf("ReadLine error = %v, want %v", err, boom)
	}
}

func TestLineReaderClosesPort(t *testing.T) {
	port := NewScriptedPort()
	r := NewLineReader(port)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !port.Closed() {
		t.Error("underlying port not closed")
	}
}
