// Package ffmpegcli invokes ffmpeg as a child process to assemble still
// frames into a video. All encoding, filtering and muxing is delegated to
// the engine; this package only resolves the binary, builds the argument
// vector and propagates the exit status.
package ffmpegcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/omertuc/bud/pkg/ports"
)

// Invoker implements ports.FrameEncoder using the ffmpeg binary.
type Invoker struct {
	// enginePath, when set, bypasses discovery entirely.
	enginePath string
}

// New creates an Invoker that discovers ffmpeg at encode time.
func New() *Invoker {
	return &Invoker{}
}

// NewWithPath creates an Invoker bound to an explicit engine binary.
// An empty path behaves like New.
func NewWithPath(path string) *Invoker {
	return &Invoker{enginePath: path}
}

// FindFFmpeg locates the ffmpeg binary. Precedence: explicit path argument,
// FFMPEG_PATH environment variable, PATH lookup, common install locations.
func FindFFmpeg(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrFFmpegNotFound, explicit)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// BuildArgs assembles the engine argument vector for a job. The frame
// pattern, frame rate and bitrate appear verbatim; the filter chain keeps
// the configured order. With no filters the -vf flag is omitted entirely.
func BuildArgs(job ports.EncodeJob) []string {
	args := []string{
		"-y", // overwrite the output file
		"-framerate", strconv.Itoa(job.FrameRate),
		"-pattern_type", "glob",
		"-i", job.FramePattern,
		"-b:v", strconv.Itoa(job.BitrateBps),
	}

	if len(job.Filters) > 0 {
		terms := make([]string, 0, len(job.Filters))
		for _, f := range job.Filters {
			terms = append(terms, f.Key+"="+f.Value)
		}
		args = append(args, "-vf", "eq="+strings.Join(terms, ":"))
	}

	return append(args, job.OutputPath)
}

// Encode runs the engine for the given job and blocks until it exits. The
// child inherits this process's stdout and stderr, so the engine's progress
// and diagnostics appear exactly as emitted. A non-zero engine exit comes
// back as an *ExitError carrying the engine's status; nothing is retried.
func (v *Invoker) Encode(ctx context.Context, job ports.EncodeJob) error {
	if err := validate(job); err != nil {
		return err
	}

	enginePath, err := FindFFmpeg(v.enginePath)
	if err != nil {
		return err
	}

	workDir, err := resolveWorkDir(job.WorkDir)
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, enginePath, BuildArgs(job)...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Err: exitErr}
		}
		return fmt.Errorf("run engine: %w", err)
	}

	return nil
}

func validate(job ports.EncodeJob) error {
	switch {
	case job.FramePattern == "":
		return fmt.Errorf("%w: empty frame pattern", ErrBadJob)
	case job.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate %d", ErrBadJob, job.FrameRate)
	case job.BitrateBps <= 0:
		return fmt.Errorf("%w: bitrate %d", ErrBadJob, job.BitrateBps)
	case job.OutputPath == "":
		return fmt.Errorf("%w: empty output path", ErrBadJob)
	}
	for _, f := range job.Filters {
		if f.Key == "" || f.Value == "" {
			return fmt.Errorf("%w: filter %q=%q", ErrBadJob, f.Key, f.Value)
		}
	}
	return nil
}

// resolveWorkDir turns the job's working directory into an absolute,
// symlink-resolved path. Empty means the current directory.
func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Ensure Invoker implements ports.FrameEncoder
var _ ports.FrameEncoder = (*Invoker)(nil)
