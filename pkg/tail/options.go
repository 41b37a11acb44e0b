package tail

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/logtail/pkg/log"
)

// DefaultPollInterval is the delay between empty reads when none is configured.
const DefaultPollInterval = time.Second

// Policy decides what Open does when the target file does not exist.
type Policy string

const (
	// PolicyCreate creates an empty file and follows it.
	PolicyCreate Policy = "create"
	// PolicyFail returns an error wrapping ErrNotFound.
	PolicyFail Policy = "fail"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyCreate, PolicyFail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing-file policy %q (want %q or %q)", s, PolicyCreate, PolicyFail)
	}
}

// Option configures a Tailer.
type Option func(*options)

type options struct {
	pollInterval time.Duration
	policy       Policy
	watch        bool
	logger       log.Logger
	onCreate     func(path string)
}

func defaultOptions() options {
	return options{
		pollInterval: DefaultPollInterval,
		policy:       PolicyCreate,
		watch:        true,
		logger:       log.NewNoopLogger(),
	}
}

// WithPollInterval sets the delay between unsuccessful read attempts.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithMissingFilePolicy sets the behaviour for an absent target file.
// The default is PolicyCreate.
func WithMissingFilePolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithWatch enables or disables fsnotify wakeups. With watch disabled the
// tailer relies on the poll interval alone. Enabled by default.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithLogger sets the logger for diagnostics. Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = log.OrNoop(l)
	}
}

// WithCreatedHook registers fn to be called after PolicyCreate created the
// target file.
func WithCreatedHook(fn func(path string)) Option {
	return func(o *options) {
		o.onCreate = fn
	}
}
