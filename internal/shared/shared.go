// package shared defines configuration, errors, logging and storage helpers shared across assetd
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w at level ll, with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr], which is where access lines are expected.
func NewLogger(w io.Writer, ll log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ll,
		ReportTimestamp: true,
		ReportCaller:    true,
	})
}

// DiscardLogger returns a logger that drops everything; used when a caller passes no logger.
func DiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
