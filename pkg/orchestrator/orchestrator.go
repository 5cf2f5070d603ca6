// Package orchestrator coordinates the rendering and encoding stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"runtime"

	"github.com/omertuc/bud/pkg/buddha"
	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Rendering
	OutDir      string
	Width       int
	Height      int
	IterationsR int
	IterationsG int
	IterationsB int
	Samples     int64 // random points per channel per frame
	Seed        int64
	Workers     int
	Supersample int // histogram resolution multiplier, 1 disables

	// Animation
	FrameCount int
	ZoomFactor float64 // plane shrink per frame when FrameCount > 1
	FocusRe    float64 // zoom target
	FocusIm    float64

	// Plane window
	PlaneWidth float64
	PanRight   float64

	// Annotation
	Label bool // draw the frame index on each frame

	// Encoding
	WorkDir      string
	FramePattern string
	FrameRate    int
	BitrateBps   int
	Filters      []ports.FilterParam
	OutputPath   string
}

// DefaultConfig returns a Config with the renderer's historical defaults.
func DefaultConfig() Config {
	return Config{
		OutDir:      ".",
		Width:       2560,
		Height:      1440,
		IterationsR: 200,
		IterationsG: 100,
		IterationsB: 50,
		Samples:     1_000_000_000,
		Seed:        1,
		Workers:     runtime.NumCPU(),
		Supersample: 1,

		FrameCount: 1,
		ZoomFactor: 1.05,
		FocusRe:    -0.5,
		FocusIm:    0,

		PlaneWidth: 4.3,
		PanRight:   0.5,

		WorkDir:      ".",
		FramePattern: "frame-*.png",
		FrameRate:    60,
		BitrateBps:   50_000_000,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	sampleStage  pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult]
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult]
	writeStage   pipeline.Stage[pipeline.WriteInput, pipeline.WriteResult]
	encodeStage  pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	sampleStage pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult],
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult],
	writeStage pipeline.Stage[pipeline.WriteInput, pipeline.WriteResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		sampleStage:  sampleStage,
		composeStage: composeStage,
		writeStage:   writeStage,
		encodeStage:  encodeStage,
		sink:         sink,
		logger:       logger,
	}
}

// channel pairs a name with its iteration limit for logging and debug dumps.
type channel struct {
	name       string
	iterations int
}

// RenderFrames renders config.FrameCount Buddhabrot frames into
// config.OutDir. Frames after the first zoom toward the focus point.
func (o *Orchestrator) RenderFrames(ctx context.Context, config Config) error {
	ss := config.Supersample
	if ss < 1 {
		ss = 1
	}

	vp := buddha.NewViewport(config.Width*ss, config.Height*ss, config.PlaneWidth, config.PanRight)
	focus := complex(config.FocusRe, config.FocusIm)

	for frame := 0; frame < config.FrameCount; frame++ {
		o.logger.Info("Rendering frame %d of %d", frame+1, config.FrameCount)

		channels := []channel{
			{"r", config.IterationsR},
			{"g", config.IterationsG},
			{"b", config.IterationsB},
		}

		histograms := make([]*buddha.Histogram, len(channels))
		for i, ch := range channels {
			o.logger.Info("Sampling channel %s (%d iterations)", ch.name, ch.iterations)

			result, err := o.sampleStage.Execute(ctx, pipeline.SampleInput{
				Viewport:   vp,
				Iterations: ch.iterations,
				Samples:    config.Samples,
				// Offset per channel so channels don't replay the
				// same point sequence.
				Seed:    config.Seed + int64(frame*len(channels)+i)*7919,
				Workers: config.Workers,
			})
			if err != nil {
				o.logger.Error("Failed to sample channel %s: %s", ch.name, err)
				return fmt.Errorf("sample stage: %w", err)
			}
			histograms[i] = result.Histogram
		}

		if o.sink.Enabled() {
			o.saveDebugOutput(frame, vp, channels, histograms)
		}

		var label string
		if config.Label {
			label = fmt.Sprintf("frame %04d", frame)
		}

		composed, err := o.composeStage.Execute(ctx, pipeline.ComposeInput{
			Red:          histograms[0],
			Green:        histograms[1],
			Blue:         histograms[2],
			TargetWidth:  config.Width,
			TargetHeight: config.Height,
			Label:        label,
		})
		if err != nil {
			o.logger.Error("Failed to compose frame %d: %s", frame, err)
			return fmt.Errorf("compose stage: %w", err)
		}

		written, err := o.writeStage.Execute(ctx, pipeline.WriteInput{
			Dir:   config.OutDir,
			Index: frame,
			Image: composed.Image,
		})
		if err != nil {
			o.logger.Error("Failed to write frame %d: %s", frame, err)
			return fmt.Errorf("write stage: %w", err)
		}
		o.logger.Info("Frame saved to %s", written.Path)

		vp = vp.ZoomedAt(focus, config.ZoomFactor)
	}

	return nil
}

// Encode assembles the frames in config.WorkDir into a video via the
// external engine. Engine failures come back unchanged so the caller can
// propagate the engine's exit status.
func (o *Orchestrator) Encode(ctx context.Context, config Config) (pipeline.EncodeResult, error) {
	o.logger.Info("Encoding %s at %d fps, %d bps", config.FramePattern, config.FrameRate, config.BitrateBps)

	result, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		WorkDir:      config.WorkDir,
		FramePattern: config.FramePattern,
		FrameRate:    config.FrameRate,
		BitrateBps:   config.BitrateBps,
		Filters:      config.Filters,
		OutputPath:   config.OutputPath,
	})
	if err != nil {
		return pipeline.EncodeResult{}, err
	}

	if result.DurationMs > 0 {
		o.logger.Info("Video written to %s: %d ms, %d tracks, %d bytes",
			result.OutputPath, result.DurationMs, result.TrackCount, result.FileSize)
	} else {
		o.logger.Info("Video written to %s (%d bytes)", result.OutputPath, result.FileSize)
	}

	return result, nil
}

// Run renders frames and encodes them in one go.
func (o *Orchestrator) Run(ctx context.Context, config Config) (pipeline.EncodeResult, error) {
	if err := o.RenderFrames(ctx, config); err != nil {
		return pipeline.EncodeResult{}, err
	}
	return o.Encode(ctx, config)
}

func (o *Orchestrator) saveDebugOutput(frame int, vp buddha.Viewport, channels []channel, histograms []*buddha.Histogram) {
	meta := struct {
		Frame       int               `json:"frame"`
		PlaneWidth  float64           `json:"plane_width"`
		PlaneHeight float64           `json:"plane_height"`
		TopLeftRe   float64           `json:"top_left_re"`
		TopLeftIm   float64           `json:"top_left_im"`
		MaxCounts   map[string]uint32 `json:"max_counts"`
	}{
		Frame:       frame,
		PlaneWidth:  vp.PlaneWidth,
		PlaneHeight: vp.PlaneHeight,
		TopLeftRe:   real(vp.TopLeft),
		TopLeftIm:   imag(vp.TopLeft),
		MaxCounts:   make(map[string]uint32, len(channels)),
	}
	for i, ch := range channels {
		meta.MaxCounts[ch.name] = histograms[i].Max()
	}
	if data, err := json.MarshalIndent(meta, "", "  "); err == nil {
		o.sink.SaveFrameMeta(frame, data)
	}

	for i, ch := range channels {
		o.sink.SaveChannel(frame, ch.name, grayImage(histograms[i]))
	}
}

// grayImage renders a single channel histogram as a grayscale image.
func grayImage(hist *buddha.Histogram) image.Image {
	img := image.NewGray(image.Rect(0, 0, hist.W, hist.H))
	copy(img.Pix, hist.Normalized())
	return img
}
