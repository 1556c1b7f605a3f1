// Package logger is a standardized event logging framework for the shell.
//
// Events are written one JSON object per line so a session can be audited or
// summarized later with ReadJSONLinesLog and Report.
package logger
