package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a Logger that discards everything.
func NewTestLogger() Logger {
	return Logger{Logger: zerolog.Nop()}
}

// NewBufferedTestLogger returns a Logger writing raw JSON lines to w, so
// tests can assert on emitted fields.
func NewBufferedTestLogger(w io.Writer) Logger {
	return Logger{Logger: zerolog.New(w)}
}
