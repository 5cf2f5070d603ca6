package ports

import "image"

// DebugSink abstracts debug output for intermediate rendering results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveChannel saves the normalized histogram of one color channel of
	// one frame as a grayscale image.
	SaveChannel(frame int, channel string, img image.Image) error

	// SaveFrameMeta saves per-frame metadata (viewport, sample counts) as
	// JSON.
	SaveFrameMeta(frame int, data []byte) error
}
