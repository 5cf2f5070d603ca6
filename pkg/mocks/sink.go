package mocks

import (
	"image"

	"github.com/omertuc/bud/pkg/ports"
)

// DebugSink is a recording mock implementation of ports.DebugSink.
type DebugSink struct {
	EnabledValue bool

	Channels   []SavedChannel
	FrameMetas map[int][]byte
}

// SavedChannel records one SaveChannel call.
type SavedChannel struct {
	Frame   int
	Channel string
	Image   image.Image
}

// NewDebugSink creates an enabled recording sink.
func NewDebugSink() *DebugSink {
	return &DebugSink{
		EnabledValue: true,
		FrameMetas:   make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.EnabledValue
}

func (m *DebugSink) SaveChannel(frame int, channel string, img image.Image) error {
	m.Channels = append(m.Channels, SavedChannel{Frame: frame, Channel: channel, Image: img})
	return nil
}

func (m *DebugSink) SaveFrameMeta(frame int, data []byte) error {
	m.FrameMetas[frame] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
