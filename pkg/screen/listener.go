package screen

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/bft-labs/logtail/pkg/log"
)

// Hint is printed when the listener starts and a hint writer is configured.
const Hint = "Press 'c' to clear the screen or Ctrl+C to exit."

// clearKey is the command that triggers a clear.
const clearKey = "c"

// IsClearCommand reports whether an input line asks for a clear: after
// trimming surrounding whitespace it equals "c" in either case.
func IsClearCommand(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), clearKey)
}

// Listener reads operator commands line by line and clears the screen on "c".
type Listener struct {
	in      io.Reader
	clearer Clearer
	hint    io.Writer
	logger  log.Logger
	clears  atomic.Int64
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithHint prints Hint to w when the listener starts.
func WithHint(w io.Writer) ListenerOption {
	return func(l *Listener) {
		l.hint = w
	}
}

// WithListenerLogger sets the logger for clear failures and input errors.
func WithListenerLogger(logger log.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = log.OrNoop(logger)
	}
}

// NewListener creates a listener reading from in and clearing through c.
func NewListener(in io.Reader, c Clearer, opts ...ListenerOption) *Listener {
	l := &Listener{
		in:      in,
		clearer: c,
		logger:  log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start runs the listener in a background goroutine. Nothing waits for it:
// a blocked read on the input must not hold up process exit.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		if err := l.Run(ctx); err != nil {
			l.logger.Debug("listener stopped", log.Err(err))
		}
	}()
}

// Run reads lines until the input ends or ctx is cancelled. Lines of any
// length are accepted. Cancellation is only noticed between lines since the
// read itself cannot be interrupted. It returns nil on end of input or
// cancellation and the read error otherwise.
func (l *Listener) Run(ctx context.Context) error {
	if l.hint != nil {
		fmt.Fprintln(l.hint, Hint)
	}

	r := bufio.NewReader(l.in)
	for {
		line, err := r.ReadString('\n')
		if ctx.Err() != nil {
			return nil
		}
		if line != "" {
			l.handle(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (l *Listener) handle(line string) {
	if !IsClearCommand(line) {
		return
	}
	if err := l.clearer.Clear(); err != nil {
		l.logger.Warn("clear screen failed", log.Err(err))
		return
	}
	l.clears.Add(1)
}

// Clears returns the number of successful clears so far.
func (l *Listener) Clears() int64 {
	return l.clears.Load()
}
