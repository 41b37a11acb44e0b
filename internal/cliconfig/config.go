package cliconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/pkg/screen"
	"github.com/bft-labs/logtail/pkg/tail"
)

// DefaultFile is the file followed when no path is given.
const DefaultFile = "system.log"

// Config holds CLI configuration for logtail.
type Config struct {
	File string

	// PollingInterval is the delay between empty reads, in seconds.
	PollingInterval float64
	OnMissing       string
	Watch           bool

	ClearMode string
	LogLevel  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		File:            DefaultFile,
		PollingInterval: 1.0,
		OnMissing:       string(tail.PolicyCreate),
		Watch:           true,
		ClearMode:       string(screen.ClearAuto),
		LogLevel:        zerolog.WarnLevel.String(),
	}
}

// Validate checks the configuration for errors and normalizes enum values.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("%w: file is required", domain.ErrInvalidConfig)
	}
	if !validInterval(c.PollingInterval) {
		return fmt.Errorf("%w: polling interval must be a positive number of seconds, got %v",
			domain.ErrInvalidConfig, c.PollingInterval)
	}

	policy, err := tail.ParsePolicy(c.OnMissing)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	c.OnMissing = string(policy)

	mode, err := screen.ParseClearMode(c.ClearMode)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	c.ClearMode = string(mode)

	if c.LogLevel == "" {
		c.LogLevel = zerolog.WarnLevel.String()
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	return nil
}

// PollInterval returns PollingInterval as a duration. Call after Validate.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollingInterval * float64(time.Second))
}

// validInterval reports whether seconds converts to a positive duration
// without overflow.
func validInterval(seconds float64) bool {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return false
	}
	ns := seconds * float64(time.Second)
	return ns < math.MaxInt64 && time.Duration(ns) > 0
}

// Policy returns the missing-file policy. Call after Validate.
func (c Config) Policy() tail.Policy {
	return tail.Policy(c.OnMissing)
}

// configSetter applies configuration values while respecting flag precedence.
// A value is only applied if the corresponding flag was not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setFloatFromString parses a string to float64 and sets the destination if
// valid. Used for environment variables.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if !validInterval(f) {
		return fmt.Errorf("parse %s: %w: must be a positive number of seconds, got %v",
			flag, domain.ErrInvalidConfig, f)
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
