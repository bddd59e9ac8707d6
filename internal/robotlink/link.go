// Package robotlink streams planned trajectories to the wall-finishing
// robot's motion controller over a serial line, and fans controller
// output lines out to any number of subscribers.
//
// The link is transmit-only with respect to planning: it never re-plans
// or adjusts a path based on controller feedback.
package robotlink

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/zingzy/wallbot/internal/monitoring"
	"github.com/zingzy/wallbot/internal/planner"
)

var ErrWriteFailed = errors.New("failed to write to robot link")

// Controller is the interface the API server and CLI use to talk to the
// robot.
type Controller interface {
	// Subscribe creates a channel receiving controller output lines. The
	// returned ID identifies the channel when unsubscribing.
	Subscribe() (string, chan string)
	// Unsubscribe removes and closes a subscriber channel.
	Unsubscribe(string)
	// Send writes a single command line to the controller.
	Send(string) error
	// SendTrajectory streams a planned path as MOVE commands followed by
	// an END terminator.
	SendTrajectory(path planner.Path, cellSize float64) error
	// Monitor reads controller output and distributes lines to
	// subscribers until the context is cancelled.
	Monitor(context.Context) error
	// Close closes all subscriber channels and the underlying port.
	Close() error
}

// Link multiplexes a single serial port between subscribers and command
// senders.
type Link struct {
	port        Porter
	subscribers map[string]chan string
	subMu       sync.Mutex
	sendMu      sync.Mutex
	closing     bool
	closingMu   sync.Mutex
}

// NewLink wraps an open port.
func NewLink(port Porter) *Link {
	return &Link{
		port:        port,
		subscribers: make(map[string]chan string),
	}
}

// randomID generates an 8-byte random hex subscriber ID.
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

func (l *Link) Subscribe() (string, chan string) {
	id := randomID()
	ch := make(chan string)
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.subscribers[id] = ch
	return id, ch
}

func (l *Link) Unsubscribe(id string) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if ch, ok := l.subscribers[id]; ok {
		close(ch)
		delete(l.subscribers, id)
	}
}

// Send writes a command line to the controller, appending a newline when
// missing.
func (l *Link) Send(command string) error {
	l.sendMu.Lock()
	defer l.sendMu.Unlock()
	if len(command) == 0 || command[len(command)-1] != '\n' {
		command += "\n"
	}
	n, err := l.port.Write([]byte(command))
	if err != nil {
		return err
	}
	if n != len(command) {
		return ErrWriteFailed
	}
	return nil
}

// SendTrajectory streams the path to the controller as absolute wall
// coordinates. Each grid cell maps to its centre point:
//
//	MOVE <x_m> <y_m>
//
// followed by "END <count>" so the controller can verify it received the
// complete trajectory.
func (l *Link) SendTrajectory(path planner.Path, cellSize float64) error {
	if cellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %g", cellSize)
	}
	for i, p := range path {
		x := (float64(p.Col) + 0.5) * cellSize
		y := (float64(p.Row) + 0.5) * cellSize
		if err := l.Send(fmt.Sprintf("MOVE %.3f %.3f", x, y)); err != nil {
			return fmt.Errorf("failed to send point %d of %d: %w", i+1, len(path), err)
		}
	}
	if err := l.Send(fmt.Sprintf("END %d", len(path))); err != nil {
		return fmt.Errorf("failed to terminate trajectory: %w", err)
	}
	return nil
}

// Monitor reads lines from the port and fans them out to subscribers. A
// subscriber that is not ready is skipped rather than blocking the reader.
func (l *Link) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(l.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// Reading happens on its own goroutine so the blocking Scan does not
	// interfere with context cancellation below.
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				return scan.Err()
			}

			l.closingMu.Lock()
			if l.closing {
				l.closingMu.Unlock()
				return nil
			}
			l.closingMu.Unlock()

			l.subMu.Lock()
			for id, ch := range l.subscribers {
				select {
				case ch <- line:
				default:
					// Slow subscriber; drop the line for it.
					monitoring.Logf("robotlink: subscriber %s not ready, dropped line", id)
				}
			}
			l.subMu.Unlock()
		}
	}
}

func (l *Link) Close() error {
	l.closingMu.Lock()
	l.closing = true
	l.closingMu.Unlock()

	l.subMu.Lock()
	defer l.subMu.Unlock()
	for id, ch := range l.subscribers {
		close(ch)
		delete(l.subscribers, id)
	}
	return l.port.Close()
}
