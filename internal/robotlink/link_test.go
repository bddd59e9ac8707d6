package robotlink

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zingzy/wallbot/internal/planner"
)

// fakePort is an in-memory Porter with a scripted read side and a captured
// write side.
type fakePort struct {
	mu         sync.Mutex
	readBuf    *bytes.Buffer
	writeBuf   *bytes.Buffer
	writeErr   error
	shortWrite bool
	closed     bool
}

func newFakePort(input string) *fakePort {
	return &fakePort{
		readBuf:  bytes.NewBufferString(input),
		writeBuf: bytes.NewBuffer(nil),
	}
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readBuf.Read(p)
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.shortWrite {
		n := len(p) / 2
		f.writeBuf.Write(p[:n])
		return n, nil
	}
	return f.writeBuf.Write(p)
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeBuf.String()
}

func TestSendAppendsNewline(t *testing.T) {
	port := newFakePort("")
	link := NewLink(port)

	if err := link.Send("HOME"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := port.written(); got != "HOME\n" {
		t.Errorf("written = %q, want %q", got, "HOME\n")
	}
}

func TestSendShortWrite(t *testing.T) {
	port := newFakePort("")
	port.shortWrite = true
	link := NewLink(port)

	if err := link.Send("HOME"); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Send error = %v, want ErrWriteFailed", err)
	}
}

func TestSendTrajectory(t *testing.T) {
	port := newFakePort("")
	link := NewLink(port)

	path := planner.Path{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}}
	if err := link.SendTrajectory(path, 0.1); err != nil {
		t.Fatalf("SendTrajectory failed: %v", err)
	}

	want := "MOVE 0.050 0.050\nMOVE 0.150 0.050\nMOVE 0.150 0.150\nEND 3\n"
	if got := port.written(); got != want {
		t.Errorf("written =\n%q\nwant\n%q", got, want)
	}
}

func TestSendTrajectoryRejectsBadCellSize(t *testing.T) {
	link := NewLink(newFakePort(""))
	if err := link.SendTrajectory(planner.Path{{Row: 0, Col: 0}}, 0); err == nil {
		t.Error("SendTrajectory accepted zero cell size, want error")
	}
}

func TestSendTrajectoryEmptyPath(t *testing.T) {
	port := newFakePort("")
	link := NewLink(port)

	if err := link.SendTrajectory(nil, 0.1); err != nil {
		t.Fatalf("SendTrajectory failed: %v", err)
	}
	if got := port.written(); got != "END 0\n" {
		t.Errorf("written = %q, want END 0 only", got)
	}
}

func TestMonitorFansOutLines(t *testing.T) {
	port := newFakePort("ACK 1\nACK 2\n")
	link := NewLink(port)

	id, ch := link.Subscribe()
	defer link.Unsubscribe(id)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Fan-out drops lines for subscribers that are not ready, so the
	// collector must be parked on the channel before Monitor starts.
	linesChan := make(chan []string, 1)
	ready := make(chan struct{})
	go func() {
		var lines []string
		close(ready)
		for len(lines) < 2 {
			select {
			case line := <-ch:
				lines = append(lines, line)
			case <-ctx.Done():
				linesChan <- lines
				return
			}
		}
		linesChan <- lines
	}()
	<-ready

	done := make(chan error, 1)
	go func() { done <- link.Monitor(ctx) }()

	lines := <-linesChan
	if len(lines) != 2 || lines[0] != "ACK 1" || lines[1] != "ACK 2" {
		t.Errorf("lines = %v, want [ACK 1, ACK 2]", lines)
	}

	// Input exhausted: Monitor returns nil on EOF.
	if err := <-done; err != nil {
		t.Errorf("Monitor returned %v, want nil", err)
	}
}

func TestMonitorStopsOnCancel(t *testing.T) {
	// A mock link produces lines forever; cancellation must still stop it.
	link := NewMockLink([]byte("STATUS idle\n"))
	defer link.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- link.Monitor(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Monitor returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not stop after cancellation")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	link := NewLink(newFakePort(""))

	id, ch := link.Subscribe()
	link.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}
}

func TestCloseClosesPortAndSubscribers(t *testing.T) {
	port := newFakePort("")
	link := NewLink(port)

	_, ch := link.Subscribe()

	if err := link.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !port.closed {
		t.Error("port not closed")
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel still open after Close")
	}
}

func TestMockLinkEmitsFixture(t *testing.T) {
	link := NewMockLink([]byte("READY\n"))
	defer link.Close()

	id, ch := link.Subscribe()
	defer link.Unsubscribe(id)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go link.Monitor(ctx)

	select {
	case line := <-ch:
		if !strings.HasPrefix(line, "READY") {
			t.Errorf("line = %q, want READY", line)
		}
	case <-ctx.Done():
		t.Fatal("no fixture line received from mock link")
	}
}
