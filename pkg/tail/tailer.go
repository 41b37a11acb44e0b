package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/pkg/log"
)

// Tailer follows one file from the end it had when opened.
// A Tailer is not safe for concurrent use.
type Tailer struct {
	path    string
	opts    options
	logger  log.Logger
	file    *os.File
	reader  *bufio.Reader
	cursor  domain.Cursor
	watcher *fsnotify.Watcher
}

// Open prepares path for following, applying the missing-file policy first,
// and positions the cursor at the current end of file.
func Open(path string, opts ...Option) (*Tailer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidConfig)
	}
	if o.pollInterval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	policy, err := ParsePolicy(string(o.policy))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	o.policy = policy

	if err := ensureExists(path, o); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.Wrap("open log file", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, domain.Wrap("stat log file", err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrUnexpectedIO, path)
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, domain.Wrap("seek log file", err)
	}

	t := &Tailer{
		path:   path,
		opts:   o,
		logger: o.logger,
		file:   f,
		reader: bufio.NewReader(f),
		cursor: domain.NewCursor(end),
	}
	if o.watch {
		t.startWatch()
	}

	t.logger.Debug("following file",
		log.String("path", path),
		log.Int64("offset", end),
		log.Duration("poll_interval", o.pollInterval),
		log.Bool("watch", t.watcher != nil),
	)
	return t, nil
}

func ensureExists(path string, o options) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return domain.Wrap("stat log file", err)
	}

	if o.policy == PolicyFail {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		// Lost a race with another creator; the file is there now.
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return &CreateError{Path: path, Err: domain.Wrap("create", err)}
	}
	if err := f.Close(); err != nil {
		return &CreateError{Path: path, Err: domain.Wrap("create", err)}
	}

	o.logger.Info("created missing log file", log.String("path", path))
	if o.onCreate != nil {
		o.onCreate(path)
	}
	return nil
}

// startWatch subscribes to write events on the file. Failure is not fatal:
// the poll interval alone still drives the tailer.
func (t *Tailer) startWatch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.logger.Warn("file watch unavailable, polling only", log.Err(err))
		return
	}
	if err := w.Add(t.path); err != nil {
		w.Close()
		t.logger.Warn("file watch unavailable, polling only", log.String("path", t.path), log.Err(err))
		return
	}
	t.watcher = w
}

// Path returns the followed path.
func (t *Tailer) Path() string {
	return t.path
}

// Offset returns the cursor: the file offset of the next byte Next will return.
func (t *Tailer) Offset() int64 {
	return t.cursor.Offset()
}

// Next returns the next chunk appended to the file, blocking until one is
// available. A chunk is a full line with its terminator, or the partial line
// currently at the end of the file. When ctx ends Next returns an error
// wrapping ErrInterrupted.
func (t *Tailer) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, domain.Wrap("follow "+t.path, err)
		}

		chunk, err := t.reader.ReadBytes('\n')
		if len(chunk) > 0 {
			t.cursor.Advance(len(chunk))
			return chunk, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, domain.Wrap("read "+t.path, err)
		}

		if err := t.wait(ctx); err != nil {
			return nil, err
		}
	}
}

// Run writes every chunk returned by Next to w until ctx ends or an I/O
// error occurs. It never returns nil.
func (t *Tailer) Run(ctx context.Context, w io.Writer) error {
	for {
		chunk, err := t.Next(ctx)
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return domain.Wrap("write output", err)
		}
	}
}

// wait sleeps for one poll interval, returning early on a write event or
// when ctx ends.
func (t *Tailer) wait(ctx context.Context) error {
	timer := time.NewTimer(t.opts.pollInterval)
	defer timer.Stop()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if t.watcher != nil {
		events = t.watcher.Events
		errs = t.watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return domain.Wrap("follow "+t.path, ctx.Err())

		case <-timer.C:
			return nil

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Has(fsnotify.Write) {
				t.logger.Debug("write event", log.String("path", event.Name))
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			t.logger.Warn("file watch error", log.Err(err))
		}
	}
}

// Close releases the file and the watcher.
func (t *Tailer) Close() error {
	var errs []error
	if t.watcher != nil {
		errs = append(errs, t.watcher.Close())
		t.watcher = nil
	}
	if t.file != nil {
		errs = append(errs, t.file.Close())
		t.file = nil
	}
	return errors.Join(errs...)
}
