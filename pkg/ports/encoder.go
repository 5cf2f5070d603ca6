package ports

import "context"

// FilterParam is one key=value term of the engine's filter chain,
// e.g. {Key: "brightness", Value: "0.65"}.
type FilterParam struct {
	Key   string
	Value string
}

// EncodeJob describes a single frames-to-video invocation of the external
// encoding engine.
type EncodeJob struct {
	// WorkDir is the directory the engine runs in and resolves the frame
	// pattern against. Empty means the current directory.
	WorkDir string

	// FramePattern is the glob the engine expands to the input frames,
	// e.g. "frame-*.png". Passed to the engine verbatim.
	FramePattern string

	// FrameRate is the input frame rate in frames per second. Must be
	// positive.
	FrameRate int

	// BitrateBps is the target video bitrate in bits per second. Must be
	// positive.
	BitrateBps int

	// Filters is the ordered filter chain applied before muxing. Empty
	// means no filtering.
	Filters []FilterParam

	// OutputPath is the video file to write. An existing file is
	// overwritten.
	OutputPath string
}

// FrameEncoder turns a directory of still frames into a video file by
// delegating to an external encoding engine.
type FrameEncoder interface {
	// Encode runs the engine for the given job and blocks until it exits.
	// The engine's stdout and stderr pass through unmodified. A non-zero
	// engine exit is returned as an error carrying the engine's exit code.
	Encode(ctx context.Context, job EncodeJob) error
}
