// Package logger is a standardized event logging framework for the
// interpreter's command history.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// CommandEvent is one interpreted line and its outcome.
type CommandEvent struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`
	Line            string `json:"line"`
	Program         string `json:"program,omitempty"`
	PipeTarget      string `json:"pipe_target,omitempty"`
	Background      bool   `json:"background,omitempty"`
	Error           string `json:"error,omitempty"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(ev *CommandEvent) error

// Logger captures command events for later inspection.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports events in
// newline delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(ev *CommandEvent) error {
			entry, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewSession creates a logger with an attached session ID. An empty id
// gets a random one.
func (l *Logger) NewSession(id string) *SessionLogger {
	if id == "" {
		id = fmt.Sprintf("%d", rand.Uint64())
	}
	return &SessionLogger{logger: l, sessionID: id}
}

// SessionLogger logs events with a shared session ID.
//
// A nil SessionLogger discards everything, so callers don't need to
// guard each call on whether logging is configured.
type SessionLogger struct {
	logger    *Logger
	sessionID string
}

// RecordCommand stamps and stores one event.
func (l *SessionLogger) RecordCommand(ev *CommandEvent) error {
	if l == nil {
		return nil
	}
	ev.TimestampMicros = time.Now().UnixMicro()
	ev.SessionID = l.sessionID
	return l.logger.Record(ev)
}
