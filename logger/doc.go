// Package logger provides structured logging for asynctime using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. Combinators log through component loggers
// obtained once per package:
//
//	var log = logger.Get("stream.park")
//
//	if log.DebugEnabled() {
//	    log.Debug("park state changed", logger.TransitionFields("suspended", "active"))
//	}
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
package logger
