package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bft-labs/logtail/internal/cliconfig"
	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/pkg/log"
	"github.com/bft-labs/logtail/pkg/screen"
	"github.com/bft-labs/logtail/pkg/tail"
)

// syncBuffer is a bytes.Buffer shared by the tailer and the listener.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T, path string, interval float64) cliconfig.Config {
	t.Helper()
	cfg := cliconfig.DefaultConfig()
	cfg.File = path
	cfg.PollingInterval = interval
	cfg.Watch = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

const banner = "--------------------------------------------------\n"

func TestSession_StreamsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.log")
	if err := os.WriteFile(path, []byte("before start\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := &syncBuffer{}
	s := NewSession(testConfig(t, path, 0.1), Streams{Out: out}, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	header := fmt.Sprintf("Streaming Log File: %s\n%s", path, banner)
	if !waitFor(time.Second, func() bool { return out.String() == header }) {
		t.Fatalf("output = %q, want banner %q", out.String(), header)
	}

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("hello\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if !waitFor(300*time.Millisecond, func() bool { return out.String() == header+"hello\n" }) {
		t.Fatalf("output = %q, want %q", out.String(), header+"hello\n")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on interruption", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	got := out.String()
	if strings.Contains(got, "before start") {
		t.Error("pre-existing content was streamed")
	}
	if n := strings.Count(got, "Streaming interrupted by user."); n != 1 {
		t.Errorf("interruption message printed %d times, want 1", n)
	}
	if !strings.HasSuffix(got, "hello\n\nStreaming interrupted by user.\n") {
		t.Errorf("output = %q", got)
	}
}

func TestSession_InterruptWhileSleeping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.log")
	const interval = 0.3

	out := &syncBuffer{}
	s := NewSession(testConfig(t, path, interval), Streams{Out: out}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	if !waitFor(time.Second, func() bool { return strings.Contains(out.String(), banner) }) {
		t.Fatalf("banner not printed: %q", out.String())
	}
	time.Sleep(50 * time.Millisecond)

	cancelledAt := time.Now()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
		if elapsed := time.Since(cancelledAt); elapsed > 300*time.Millisecond {
			t.Errorf("Run() took %v after cancel, want within one interval", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if n := strings.Count(out.String(), "Streaming interrupted by user."); n != 1 {
		t.Errorf("interruption message printed %d times, want 1", n)
	}
}

func TestSession_MissingFile(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "system.log")
		out := &syncBuffer{}
		s := NewSession(testConfig(t, path, 0.05), Streams{Out: out}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		if !waitFor(time.Second, func() bool { return strings.Contains(out.String(), banner) }) {
			t.Fatalf("banner not printed: %q", out.String())
		}
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}

		want := fmt.Sprintf("Log File '%s' Created.\nStreaming Log File: %s\n", path, path)
		if !strings.HasPrefix(out.String(), want) {
			t.Errorf("output = %q, want prefix %q", out.String(), want)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not created: %v", err)
		}
	})

	t.Run("fail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "system.log")
		cfg := testConfig(t, path, 0.05)
		cfg.OnMissing = string(tail.PolicyFail)

		out := &syncBuffer{}
		err := NewSession(cfg, Streams{Out: out}, nil).Run(context.Background())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Run() error = %v, want ErrNotFound", err)
		}
		want := fmt.Sprintf("Error: Log file '%s' not found.\n", path)
		if out.String() != want {
			t.Errorf("output = %q, want %q", out.String(), want)
		}
	})
}

func TestSession_ClearCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.log")
	pr, pw := io.Pipe()
	defer pw.Close()

	var clears atomic.Int64
	out := &syncBuffer{}
	streams := Streams{
		In:  pr,
		Out: out,
		Clearer: screen.ClearerFunc(func() error {
			clears.Add(1)
			return nil
		}),
		Hint: true,
	}
	s := NewSession(testConfig(t, path, 0.05), streams, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for _, line := range []string{"x\n", "c\n", "\n", "C\n"} {
		if _, err := io.WriteString(pw, line); err != nil {
			t.Fatal(err)
		}
	}
	if !waitFor(time.Second, func() bool { return clears.Load() == 2 }) {
		t.Fatalf("clears = %d, want 2", clears.Load())
	}

	cancel()
	// The listener is still blocked on the pipe; Run must not wait for it.
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() waited for the listener")
	}

	if !strings.Contains(out.String(), screen.Hint) {
		t.Errorf("hint missing from output %q", out.String())
	}
}

func TestDescribe(t *testing.T) {
	const path = "system.log"
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "interrupted",
			err:  domain.Wrap("follow", context.Canceled),
			want: "\nStreaming interrupted by user.",
		},
		{
			name: "not found",
			err:  fmt.Errorf("%w: %s", domain.ErrNotFound, path),
			want: "Error: Log file 'system.log' not found.",
		},
		{
			name: "permission",
			err:  domain.Wrap("open", &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}),
			want: "Error: Insufficient permissions to read 'system.log'.",
		},
		{
			name: "invalid configuration",
			err:  fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig),
			want: "Error: logtail: invalid configuration: poll interval must be positive",
		},
		{
			name: "unexpected",
			err:  errors.New("device gone"),
			want: "An unexpected error occurred: device gone",
		},
		{
			name: "create",
			err: &tail.CreateError{
				Path: "logs/system.log",
				Err:  domain.Wrap("create", &fs.PathError{Op: "open", Path: "logs/system.log", Err: errors.New("read-only file system")}),
			},
			want: "Error creating log file 'logs/system.log': read-only file system",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(path, tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
