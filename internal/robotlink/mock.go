package robotlink

import (
	"io"
	"time"
)

// mockPort simulates a motion controller: commands written to it are
// discarded, and it emits a fixture line periodically as if the controller
// were reporting status.
type mockPort struct {
	reader *io.PipeReader
	writer *io.PipeWriter
	done   chan struct{}
}

func (m *mockPort) Read(p []byte) (int, error) { return m.reader.Read(p) }

func (m *mockPort) Write(p []byte) (int, error) { return len(p), nil }

func (m *mockPort) Close() error {
	close(m.done)
	m.writer.Close()
	return m.reader.Close()
}

// NewMockLink creates a Link backed by a simulated controller that emits
// fixture periodically. Used in dev mode and tests so the service runs
// without hardware attached.
func NewMockLink(fixture []byte) *Link {
	r, w := io.Pipe()
	port := &mockPort{reader: r, writer: w, done: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-port.done:
				return
			case <-ticker.C:
				if _, err := w.Write(fixture); err != nil {
					return
				}
			}
		}
	}()

	return NewLink(port)
}
