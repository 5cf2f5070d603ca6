package ffmpegcli

import (
	"errors"
	"fmt"
)

var (
	// ErrFFmpegNotFound is returned when no usable ffmpeg binary could be
	// located.
	ErrFFmpegNotFound = errors.New("ffmpegcli: ffmpeg not found")

	// ErrBadJob is returned when the encode job fails validation before
	// the engine is even invoked.
	ErrBadJob = errors.New("ffmpegcli: invalid encode job")
)

// ExitError reports a non-zero exit from the engine. The engine's own
// diagnostics have already been written to stderr by the time this is
// returned; callers should propagate Code as their own exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ffmpegcli: engine exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Encode to a process exit status:
// the engine's own status when it ran and failed, 1 for any other error,
// 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
