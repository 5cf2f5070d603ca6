package encode

import (
	"context"
	"errors"
	"testing"

	"github.com/omertuc/bud/pkg/adapters/ffmpegcli"
	"github.com/omertuc/bud/pkg/adapters/logger"
	"github.com/omertuc/bud/pkg/mocks"
	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

func testInput() pipeline.EncodeInput {
	return pipeline.EncodeInput{
		WorkDir:      "frames",
		FramePattern: "frame-*.png",
		FrameRate:    60,
		BitrateBps:   50000000,
		Filters: []ports.FilterParam{
			{Key: "brightness", Value: "0.65"},
			{Key: "saturation", Value: "8"},
			{Key: "contrast", Value: "2.5"},
		},
		OutputPath: "out.mp4",
	}
}

func TestStage_Execute_PassesJobThrough(t *testing.T) {
	encoder := &mocks.FrameEncoder{}
	stage := NewStage(encoder, nil, mocks.NewFileSystem(), logger.NewNoop())

	input := testInput()
	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(encoder.Jobs) != 1 {
		t.Fatalf("encoder invoked %d times, want 1", len(encoder.Jobs))
	}

	job := encoder.Jobs[0]
	if job.WorkDir != input.WorkDir {
		t.Errorf("WorkDir = %q, want %q", job.WorkDir, input.WorkDir)
	}
	if job.FramePattern != input.FramePattern {
		t.Errorf("FramePattern = %q, want %q", job.FramePattern, input.FramePattern)
	}
	if job.FrameRate != 60 || job.BitrateBps != 50000000 {
		t.Errorf("rate/bitrate = %d/%d, want 60/50000000", job.FrameRate, job.BitrateBps)
	}
	for i, f := range input.Filters {
		if job.Filters[i] != f {
			t.Errorf("filter %d = %v, want %v", i, job.Filters[i], f)
		}
	}
}

func TestStage_Execute_EngineFailurePropagatesUnchanged(t *testing.T) {
	engineErr := &ffmpegcli.ExitError{Code: 254}
	encoder := &mocks.FrameEncoder{
		EncodeFunc: func(ctx context.Context, job ports.EncodeJob) error {
			return engineErr
		},
	}
	stage := NewStage(encoder, nil, mocks.NewFileSystem(), logger.NewNoop())

	_, err := stage.Execute(context.Background(), testInput())

	var exitErr *ffmpegcli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 254 {
		t.Errorf("exit code = %d, want 254", exitErr.Code)
	}
}

func TestStage_Execute_ProbesOutput(t *testing.T) {
	encoder := &mocks.FrameEncoder{}
	prober := &mocks.VideoProber{
		ProbeFunc: func(path string) (ports.VideoInfo, error) {
			return ports.VideoInfo{DurationMs: 1500, TrackCount: 1, Timescale: 1000}, nil
		},
	}
	fs := mocks.NewFileSystem()
	fs.WriteFile("frames/out.mp4", []byte("0123456789"))

	stage := NewStage(encoder, prober, fs, logger.NewNoop())

	result, err := stage.Execute(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prober.Paths) != 1 {
		t.Fatalf("prober invoked %d times, want 1", len(prober.Paths))
	}
	if result.DurationMs != 1500 || result.TrackCount != 1 {
		t.Errorf("result = %+v, want duration 1500 and 1 track", result)
	}
	if result.FileSize != 10 {
		t.Errorf("FileSize = %d, want 10", result.FileSize)
	}
}

func TestStage_Execute_ProbeFailureIsNotFatal(t *testing.T) {
	encoder := &mocks.FrameEncoder{}
	prober := &mocks.VideoProber{
		ProbeFunc: func(path string) (ports.VideoInfo, error) {
			return ports.VideoInfo{}, errors.New("truncated file")
		},
	}
	stage := NewStage(encoder, prober, mocks.NewFileSystem(), logger.NewNoop())

	result, err := stage.Execute(context.Background(), testInput())
	if err != nil {
		t.Fatalf("probe failure must not fail the stage: %v", err)
	}
	if result.DurationMs != 0 {
		t.Errorf("DurationMs = %d, want 0", result.DurationMs)
	}
}

func TestStage_Execute_AbsoluteOutputPath(t *testing.T) {
	encoder := &mocks.FrameEncoder{}
	prober := &mocks.VideoProber{}
	stage := NewStage(encoder, prober, mocks.NewFileSystem(), logger.NewNoop())

	input := testInput()
	input.OutputPath = "/tmp/out.mp4"

	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prober.Paths[0] != "/tmp/out.mp4" {
		t.Errorf("probed %q, want /tmp/out.mp4", prober.Paths[0])
	}
}
