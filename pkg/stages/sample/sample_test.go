package sample

import (
	"context"
	"testing"

	"github.com/omertuc/bud/pkg/adapters/logger"
	"github.com/omertuc/bud/pkg/buddha"
	"github.com/omertuc/bud/pkg/pipeline"
)

func testInput() pipeline.SampleInput {
	return pipeline.SampleInput{
		Viewport:   buddha.NewViewport(64, 36, 4.3, 0.5),
		Iterations: 50,
		Samples:    20000,
		Seed:       42,
		Workers:    4,
	}
}

func TestStage_Execute_Deterministic(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	run := func() *buddha.Histogram {
		result, err := stage.Execute(context.Background(), testInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return result.Histogram
	}

	a, b := run(), run()
	for i := range a.Counts {
		if a.Counts[i] != b.Counts[i] {
			t.Fatalf("runs diverge at index %d: %d vs %d", i, a.Counts[i], b.Counts[i])
		}
	}
}

func TestStage_Execute_ProducesHits(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	result, err := stage.Execute(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Histogram.Max() == 0 {
		t.Error("expected escaping orbits to leave hits in the histogram")
	}
	if result.Histogram.W != 64 || result.Histogram.H != 36 {
		t.Errorf("histogram size = %dx%d, want 64x36", result.Histogram.W, result.Histogram.H)
	}
}

func TestStage_Execute_SeedChangesOutput(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	input := testInput()
	a, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input.Seed = 43
	b, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	same := true
	for i := range a.Histogram.Counts {
		if a.Histogram.Counts[i] != b.Histogram.Counts[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical histograms")
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := stage.Execute(ctx, testInput()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestStage_Execute_DefaultWorkers(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	input := testInput()
	input.Workers = 0
	input.Samples = 1000

	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error with default workers: %v", err)
	}
}
