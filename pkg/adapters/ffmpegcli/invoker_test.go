package ffmpegcli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/omertuc/bud/pkg/ports"
)

func TestBuildArgs_WithFilters(t *testing.T) {
	job := ports.EncodeJob{
		FramePattern: "frame-*.png",
		FrameRate:    60,
		BitrateBps:   50000000,
		Filters: []ports.FilterParam{
			{Key: "brightness", Value: "0.65"},
			{Key: "saturation", Value: "8"},
			{Key: "contrast", Value: "2.5"},
		},
		OutputPath: "output.mp4",
	}

	want := []string{
		"-y",
		"-framerate", "60",
		"-pattern_type", "glob",
		"-i", "frame-*.png",
		"-b:v", "50000000",
		"-vf", "eq=brightness=0.65:saturation=8:contrast=2.5",
		"output.mp4",
	}

	if got := BuildArgs(job); !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs = %q, want %q", got, want)
	}
}

func TestBuildArgs_NoFilters(t *testing.T) {
	job := ports.EncodeJob{
		FramePattern: "*.png",
		FrameRate:    60,
		BitrateBps:   5000000,
		OutputPath:   "output.mp4",
	}

	want := []string{
		"-y",
		"-framerate", "60",
		"-pattern_type", "glob",
		"-i", "*.png",
		"-b:v", "5000000",
		"output.mp4",
	}

	got := BuildArgs(job)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs = %q, want %q", got, want)
	}
	for _, arg := range got {
		if arg == "-vf" {
			t.Error("-vf must be omitted when no filters are configured")
		}
	}
}

func TestBuildArgs_FilterOrderPreserved(t *testing.T) {
	job := ports.EncodeJob{
		FramePattern: "*.png",
		FrameRate:    30,
		BitrateBps:   1000,
		Filters: []ports.FilterParam{
			{Key: "contrast", Value: "2.5"},
			{Key: "brightness", Value: "0.65"},
		},
		OutputPath: "out.mp4",
	}

	args := BuildArgs(job)
	var chain string
	for i, arg := range args {
		if arg == "-vf" {
			chain = args[i+1]
		}
	}
	if chain != "eq=contrast=2.5:brightness=0.65" {
		t.Errorf("filter chain = %q, configured order not preserved", chain)
	}
}

func TestValidate(t *testing.T) {
	valid := ports.EncodeJob{
		FramePattern: "*.png",
		FrameRate:    60,
		BitrateBps:   5000000,
		OutputPath:   "out.mp4",
	}

	tests := []struct {
		name   string
		mutate func(*ports.EncodeJob)
	}{
		{"empty pattern", func(j *ports.EncodeJob) { j.FramePattern = "" }},
		{"zero frame rate", func(j *ports.EncodeJob) { j.FrameRate = 0 }},
		{"negative frame rate", func(j *ports.EncodeJob) { j.FrameRate = -1 }},
		{"zero bitrate", func(j *ports.EncodeJob) { j.BitrateBps = 0 }},
		{"empty output", func(j *ports.EncodeJob) { j.OutputPath = "" }},
		{"empty filter key", func(j *ports.EncodeJob) {
			j.Filters = []ports.FilterParam{{Key: "", Value: "1"}}
		}},
	}

	if err := validate(valid); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid
			tt.mutate(&job)
			if err := validate(job); !errors.Is(err, ErrBadJob) {
				t.Errorf("expected ErrBadJob, got %v", err)
			}
		})
	}
}

func TestFindFFmpeg_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindFFmpeg(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("FindFFmpeg = %q, want %q", got, path)
	}
}

func TestFindFFmpeg_ExplicitPathMissing(t *testing.T) {
	_, err := FindFFmpeg(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFmpeg_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FFMPEG_PATH", path)

	got, err := FindFFmpeg("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("FindFFmpeg = %q, want %q", got, path)
	}
}

func TestFindFFmpeg_EnvOverrideMissing(t *testing.T) {
	t.Setenv("FFMPEG_PATH", filepath.Join(t.TempDir(), "nope"))
	if _, err := FindFFmpeg(""); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestEncode_MissingEngineFailsBeforeOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp4")

	inv := NewWithPath(filepath.Join(dir, "no-such-engine"))
	err := inv.Encode(context.Background(), ports.EncodeJob{
		WorkDir:      dir,
		FramePattern: "*.png",
		FrameRate:    60,
		BitrateBps:   5000000,
		OutputPath:   output,
	})
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Fatalf("expected ErrFFmpegNotFound, got %v", err)
	}

	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no output file may exist when the engine is missing")
	}
}

// fakeEngine writes a stub shell script standing in for ffmpeg.
func fakeEngine(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub engines are not portable to windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncode_PropagatesEngineExitCode(t *testing.T) {
	inv := NewWithPath(fakeEngine(t, "#!/bin/sh\nexit 3\n"))

	err := inv.Encode(context.Background(), ports.EncodeJob{
		WorkDir:      t.TempDir(),
		FramePattern: "*.png",
		FrameRate:    60,
		BitrateBps:   5000000,
		OutputPath:   "out.mp4",
	})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if ExitCode(err) != 3 {
		t.Errorf("ExitCode = %d, want 3", ExitCode(err))
	}
}

func TestEncode_SuccessfulEngineRun(t *testing.T) {
	// The stub records its working directory and arguments so the test can
	// check what the engine would have seen.
	engine := fakeEngine(t, "#!/bin/sh\npwd > invocation.txt\necho \"$@\" >> invocation.txt\nexit 0\n")

	workDir := t.TempDir()
	inv := NewWithPath(engine)
	err := inv.Encode(context.Background(), ports.EncodeJob{
		WorkDir:      workDir,
		FramePattern: "frame-*.png",
		FrameRate:    60,
		BitrateBps:   50000000,
		Filters: []ports.FilterParam{
			{Key: "brightness", Value: "0.65"},
			{Key: "saturation", Value: "8"},
			{Key: "contrast", Value: "2.5"},
		},
		OutputPath: "out.mp4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ExitCode(err) != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode(err))
	}

	data, readErr := os.ReadFile(filepath.Join(workDir, "invocation.txt"))
	if readErr != nil {
		t.Fatalf("engine did not run in the job's working directory: %v", readErr)
	}
	got := string(data)
	for _, fragment := range []string{
		"-framerate 60",
		"-pattern_type glob -i frame-*.png",
		"-b:v 50000000",
		"-vf eq=brightness=0.65:saturation=8:contrast=2.5",
		"out.mp4",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("engine invocation missing %q:\n%s", fragment, got)
		}
	}
}

func TestExitCode_PlainErrors(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(plain) = %d, want 1", got)
	}
}
