// Package logging builds the slog loggers used across rcrdr.
//
// It provides a human-oriented console handler, a JSON handler for log files
// and machine consumption, attribute helpers shared by all call sites, and
// component loggers so every subsystem tags its records uniformly.
package logging
