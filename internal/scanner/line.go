package scanner

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// MaxLineLength is the longest line a LineCamera accepts. A longer line
// ends the input with bufio.ErrTooLong.
const MaxLineLength = 1 << 20

// LineCamera treats each non-empty line of a reader as one decode.
// It serves keyboard-wedge hardware scanners, which type the decoded text
// followed by Enter, and piped input.
//
// At most one line is delivered per Start, and lines are only read while
// the camera is armed and has not delivered yet. A line that arrives
// during Stop is held for the next Start, so piped input is processed one
// line per scan cycle with nothing dropped.
type LineCamera struct {
	r      io.Reader
	logger *slog.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	started   bool
	armed     bool
	closed    bool
	delivered bool
	onDecode  DecodeFunc
	pending   string
	readErr   error

	done chan struct{}
}

// NewLineCamera creates a line camera over r.
func NewLineCamera(r io.Reader, logger *slog.Logger) *LineCamera {
	if logger == nil {
		logger = slog.Default()
	}
	c := &LineCamera{
		r:      r,
		logger: logger,
		done:   make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Start arms the camera. Facing and capture settings do not apply to a
// line reader and are ignored.
func (c *LineCamera) Start(_ context.Context, _ Constraints, _ Config, onDecode DecodeFunc) error {
	if c.r == nil {
		return ErrNoInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrNoInput
	}
	if c.armed {
		return ErrAlreadyRunning
	}
	c.armed = true
	c.delivered = false
	c.onDecode = onDecode

	if !c.started {
		c.started = true
		go c.read()
	}

	if c.pending != "" {
		line := c.pending
		c.pending = ""
		c.delivered = true
		c.onDecode(line)
	}

	c.cond.Broadcast()
	return nil
}

// Stop disarms the camera.
func (c *LineCamera) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.armed {
		return ErrNotRunning
	}
	c.armed = false
	c.onDecode = nil
	return nil
}

// Done is closed when the reader is exhausted or the camera is closed.
func (c *LineCamera) Done() <-chan struct{} {
	return c.done
}

// Err returns the read error that ended the input, if any.
func (c *LineCamera) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Close releases the reader goroutine if it is waiting to be armed.
// A goroutine blocked inside Read is released by closing the reader itself.
func (c *LineCamera) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	c.cond.Broadcast()
	c.mu.Unlock()

	if !started {
		close(c.done)
	}
	return nil
}

// read delivers lines while armed.
func (c *LineCamera) read() {
	defer close(c.done)

	sc := bufio.NewScanner(c.r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for {
		c.mu.Lock()
		for (!c.armed || c.delivered) && !c.closed {
			c.cond.Wait()
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		if !sc.Scan() {
			err := sc.Err()
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			if err != nil {
				c.logger.Warn("scanner input failed", "error", err)
			} else {
				c.logger.Debug("scanner input ended")
			}
			return
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		c.mu.Lock()
		if c.armed && !c.delivered && c.onDecode != nil {
			c.delivered = true
			c.onDecode(line)
		} else {
			c.pending = line
		}
		c.mu.Unlock()
	}
}
