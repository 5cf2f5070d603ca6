package pipeline

import (
	"image"

	"github.com/omertuc/bud/pkg/buddha"
	"github.com/omertuc/bud/pkg/ports"
)

// =============================================================================
// Sample Stage Types
// =============================================================================

// SampleInput describes one channel's orbit accumulation run.
type SampleInput struct {
	Viewport   buddha.Viewport
	Iterations int   // orbit iteration limit for this channel
	Samples    int64 // total random points across all workers
	Seed       int64 // base seed; workers derive their own from it
	Workers    int   // 0 means NumCPU
}

// SampleResult contains the accumulated hit histogram for one channel.
type SampleResult struct {
	Histogram *buddha.Histogram
}

// =============================================================================
// Compose Stage Types
// =============================================================================

// ComposeInput merges per-channel histograms into one frame image.
type ComposeInput struct {
	Red   *buddha.Histogram
	Green *buddha.Histogram
	Blue  *buddha.Histogram

	// TargetWidth/TargetHeight are the final frame dimensions. When the
	// histograms are larger (supersampling) the image is downscaled.
	TargetWidth  int
	TargetHeight int

	// Label, when non-empty, is drawn in the bottom-left corner.
	Label string
}

// ComposeResult contains the finished frame.
type ComposeResult struct {
	Image image.Image
}

// =============================================================================
// Write Stage Types
// =============================================================================

// WriteInput names one frame image to persist.
type WriteInput struct {
	Dir   string
	Index int
	Image image.Image
}

// WriteResult reports where the frame was written.
type WriteResult struct {
	Path string
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput carries the parameters of the external engine invocation.
type EncodeInput struct {
	WorkDir      string
	FramePattern string
	FrameRate    int
	BitrateBps   int
	Filters      []ports.FilterParam
	OutputPath   string
}

// EncodeResult summarizes the produced video.
type EncodeResult struct {
	OutputPath string
	DurationMs int
	TrackCount int
	FileSize   int64
}
