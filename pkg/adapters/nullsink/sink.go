// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/omertuc/bud/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

// New creates a new null sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveChannel does nothing.
func (s *Sink) SaveChannel(frame int, channel string, img image.Image) error {
	return nil
}

// SaveFrameMeta does nothing.
func (s *Sink) SaveFrameMeta(frame int, data []byte) error {
	return nil
}

var _ ports.DebugSink = (*Sink)(nil)
