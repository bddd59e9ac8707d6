package robotlink

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Porter is the minimal interface the link needs from a serial port. The
// abstraction allows tests to run without motion-controller hardware.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// OpenSerial opens the motion controller's serial port and wraps it in a
// Link.
func OpenSerial(path string, baud int) (*Link, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return NewLink(port), nil
}
