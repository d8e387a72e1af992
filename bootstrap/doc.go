// Package bootstrap provides the startup and shutdown lifecycle of the
// asynctime binary.
//
// NewApp applies config defaults, validates the config and initializes the
// logger. RunTask runs OnStart hooks, the task itself under a context that
// SIGINT and SIGTERM cancel, and then OnStop hooks within a graceful
// timeout. Each run gets a UUID run ID that every log line written through
// logger.WithContext carries.
package bootstrap
