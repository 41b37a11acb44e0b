package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/logtail/internal/cliconfig"
	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/pkg/log"
	"github.com/bft-labs/logtail/pkg/screen"
	"github.com/bft-labs/logtail/pkg/tail"
)

// separatorWidth is the width of the dashed line under the banner.
const separatorWidth = 50

// Streams are the terminal surfaces a session uses. Out is shared by the
// tailer and the clearer without synchronization.
type Streams struct {
	In      io.Reader
	Out     io.Writer
	Clearer screen.Clearer

	// Hint prints the key help line when the listener starts.
	Hint bool
}

// Session wires the tailer and the screen-clear listener for one run.
type Session struct {
	cfg     cliconfig.Config
	streams Streams
	logger  log.Logger
}

// NewSession creates a session. cfg must already be validated.
func NewSession(cfg cliconfig.Config, streams Streams, logger log.Logger) *Session {
	return &Session{
		cfg:     cfg,
		streams: streams,
		logger:  log.OrNoop(logger),
	}
}

// Run starts the listener in the background and follows the file on the
// calling goroutine until ctx is cancelled or an I/O error occurs. Every
// failure is reported to Out as a readable message. Cancellation returns nil;
// any other failure is returned after being reported.
func (s *Session) Run(ctx context.Context) error {
	out := s.streams.Out
	path := s.cfg.File

	listenerOpts := []screen.ListenerOption{screen.WithListenerLogger(log.Component(s.logger, "screen"))}
	if s.streams.Hint {
		listenerOpts = append(listenerOpts, screen.WithHint(out))
	}
	if s.streams.In != nil && s.streams.Clearer != nil {
		screen.NewListener(s.streams.In, s.streams.Clearer, listenerOpts...).Start(ctx)
	}

	t, err := tail.Open(path,
		tail.WithPollInterval(s.cfg.PollInterval()),
		tail.WithMissingFilePolicy(s.cfg.Policy()),
		tail.WithWatch(s.cfg.Watch),
		tail.WithLogger(log.Component(s.logger, "tail")),
		tail.WithCreatedHook(func(p string) {
			fmt.Fprintf(out, "Log File '%s' Created.\n", p)
		}),
	)
	if err != nil {
		fmt.Fprintln(out, Describe(path, err))
		return err
	}
	defer func() {
		if cerr := t.Close(); cerr != nil {
			s.logger.Warn("close log file", log.Err(cerr))
		}
	}()

	fmt.Fprintf(out, "Streaming Log File: %s\n", path)
	fmt.Fprintln(out, strings.Repeat("-", separatorWidth))

	err = t.Run(ctx, out)
	s.logger.Debug("stopped following",
		log.String("path", t.Path()),
		log.Int64("offset", t.Offset()),
		log.Err(err),
	)

	fmt.Fprintln(out, Describe(path, err))
	if errors.Is(err, tail.ErrInterrupted) {
		return nil
	}
	return err
}

// Describe renders a tailer failure as the message shown to the operator.
func Describe(path string, err error) string {
	var ce *tail.CreateError
	if errors.As(err, &ce) {
		return fmt.Sprintf("Error creating log file '%s': %v", ce.Path, rootCause(ce.Err))
	}

	switch domain.Classify(err) {
	case domain.KindInterrupted:
		return "\nStreaming interrupted by user."
	case domain.KindNotFound:
		return fmt.Sprintf("Error: Log file '%s' not found.", path)
	case domain.KindPermissionDenied:
		return fmt.Sprintf("Error: Insufficient permissions to read '%s'.", path)
	case domain.KindInvalidConfig:
		return fmt.Sprintf("Error: %v", err)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

// rootCause strips wrapping down to the innermost single-error cause.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			if multi, ok := err.(interface{ Unwrap() []error }); ok {
				errs := multi.Unwrap()
				if len(errs) == 0 {
					return err
				}
				next = errs[len(errs)-1]
			}
		}
		if next == nil {
			return err
		}
		err = next
	}
}
