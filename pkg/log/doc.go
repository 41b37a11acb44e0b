// Package log is the structured logging surface used by the tail and screen
// packages.
//
// Library code never talks to a concrete logger. It receives a [Logger] and
// attaches [Field] values to each message:
//
//	logger.Debug("poll wakeup", log.String("reason", "timer"), log.Int64("offset", off))
//
// [NewZerologAdapter] backs the interface with zerolog, which is what the
// logtail command uses. [NewNoopLogger] discards everything and is the
// default when no logger is configured. [Component] scopes a logger to a
// named component when the backend supports it.
package log
