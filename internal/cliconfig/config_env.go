package cliconfig

import "os"

// ApplyEnvConfig applies LOGTAIL_* environment variables to cfg, skipping
// explicitly set flags. It fails on a malformed value.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("LOGTAIL_FILE"), &cfg.File)
	if err := s.setFloatFromString("polling-interval", os.Getenv("LOGTAIL_POLLING_INTERVAL"), &cfg.PollingInterval); err != nil {
		return err
	}
	s.setString("on-missing", os.Getenv("LOGTAIL_ON_MISSING"), &cfg.OnMissing)
	s.setBoolFromString("watch", os.Getenv("LOGTAIL_WATCH"), &cfg.Watch)
	s.setString("clear-mode", os.Getenv("LOGTAIL_CLEAR_MODE"), &cfg.ClearMode)
	s.setString("log-level", os.Getenv("LOGTAIL_LOG_LEVEL"), &cfg.LogLevel)

	return nil
}
