package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/omertuc/bud/pkg/adapters/ggrenderer"
	"github.com/omertuc/bud/pkg/adapters/logger"
	"github.com/omertuc/bud/pkg/mocks"
	"github.com/omertuc/bud/pkg/ports"
	"github.com/omertuc/bud/pkg/stages/compose"
	"github.com/omertuc/bud/pkg/stages/encode"
	"github.com/omertuc/bud/pkg/stages/sample"
	"github.com/omertuc/bud/pkg/stages/writeframes"
)

// testConfig keeps the sampling small enough for a unit test.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.OutDir = "frames"
	cfg.WorkDir = "frames"
	cfg.Width = 64
	cfg.Height = 36
	cfg.Samples = 5000
	cfg.Workers = 2
	cfg.IterationsR = 60
	cfg.IterationsG = 30
	cfg.IterationsB = 15
	cfg.OutputPath = "out.mp4"
	return cfg
}

func newTestOrchestrator(encoder *mocks.FrameEncoder, fs *mocks.FileSystem, sink ports.DebugSink) *Orchestrator {
	log := logger.NewNoop()
	renderer := ggrenderer.New()

	return New(
		sample.NewStage(log),
		compose.NewStage(renderer, log),
		writeframes.NewStage(fs, renderer, log),
		encode.NewStage(encoder, nil, fs, log),
		sink,
		log,
	)
}

func TestOrchestrator_RenderFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink()
	sink.EnabledValue = false
	orch := newTestOrchestrator(&mocks.FrameEncoder{}, fs, sink)

	cfg := testConfig()
	cfg.FrameCount = 2

	if err := orch.RenderFrames(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches, err := fs.Glob(filepath.Join("frames", "frame-*.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("%d frames written, want 2: %v", len(matches), matches)
	}
}

func TestOrchestrator_RenderFrames_DebugSink(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink()
	orch := newTestOrchestrator(&mocks.FrameEncoder{}, fs, sink)

	if err := orch.RenderFrames(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One channel image per color, one metadata blob.
	if len(sink.Channels) != 3 {
		t.Errorf("%d channel dumps, want 3", len(sink.Channels))
	}
	if _, ok := sink.FrameMetas[0]; !ok {
		t.Error("frame 0 metadata missing")
	}
}

func TestOrchestrator_Run_RendersThenEncodes(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink()
	sink.EnabledValue = false
	encoder := &mocks.FrameEncoder{}
	orch := newTestOrchestrator(encoder, fs, sink)

	cfg := testConfig()

	result, err := orch.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(encoder.Jobs) != 1 {
		t.Fatalf("encoder invoked %d times, want 1", len(encoder.Jobs))
	}

	job := encoder.Jobs[0]
	if job.WorkDir != "frames" || job.FramePattern != "frame-*.png" {
		t.Errorf("job = %+v, want frames/frame-*.png", job)
	}
	if job.FrameRate != 60 || job.BitrateBps != 50_000_000 {
		t.Errorf("rate/bitrate = %d/%d, want defaults 60/50000000", job.FrameRate, job.BitrateBps)
	}
	if result.OutputPath == "" {
		t.Error("expected an output path in the result")
	}

	// The frame the encoder consumes must exist before the encode stage
	// runs.
	if _, err := fs.ReadFile(filepath.Join("frames", "frame-0000.png")); err != nil {
		t.Errorf("frame missing at encode time: %v", err)
	}
}

func TestOrchestrator_Encode_NoFilters(t *testing.T) {
	fs := mocks.NewFileSystem()
	encoder := &mocks.FrameEncoder{}
	orch := newTestOrchestrator(encoder, fs, mocks.NewDebugSink())

	cfg := testConfig()
	cfg.Filters = nil

	if _, err := orch.Encode(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoder.Jobs[0].Filters) != 0 {
		t.Errorf("filters = %v, want none", encoder.Jobs[0].Filters)
	}
}

func TestOrchestrator_RenderFrames_Cancelled(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink()
	sink.EnabledValue = false
	orch := newTestOrchestrator(&mocks.FrameEncoder{}, fs, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := orch.RenderFrames(ctx, testConfig()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
