// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Subsystems take a named child (logger.Component("session")) and carry
// session_id and request_id fields added by their callers. The level is
// atomic, so SetLevel applies to every child at once.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Failed to open storage", zap.Error(err))
package logging
