// Package encode implements the video assembly stage. It hands the frames
// over to the external encoding engine and reports what came back.
package encode

import (
	"context"
	"path/filepath"

	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

// Stage invokes the external engine for a directory of frames. The engine's
// output streams pass through untouched and its exit status decides success;
// the stage adds nothing on top except an optional probe of the result.
type Stage struct {
	encoder ports.FrameEncoder
	prober  ports.VideoProber // nil disables probing
	fs      ports.FileSystem
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.FrameEncoder, prober ports.VideoProber, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		prober:  prober,
		fs:      fs,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute runs the engine once. Any engine failure is returned unchanged so
// the caller can propagate the exit status; there is no retry.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	job := ports.EncodeJob{
		WorkDir:      input.WorkDir,
		FramePattern: input.FramePattern,
		FrameRate:    input.FrameRate,
		BitrateBps:   input.BitrateBps,
		Filters:      input.Filters,
		OutputPath:   input.OutputPath,
	}

	// Informational only: the engine does its own glob expansion and is
	// the authority on whether the inputs are usable.
	if matches, err := s.fs.Glob(filepath.Join(input.WorkDir, input.FramePattern)); err == nil {
		s.logger.Debug("%d frames match %s", len(matches), input.FramePattern)
	}

	if err := s.encoder.Encode(ctx, job); err != nil {
		return pipeline.EncodeResult{}, err
	}

	result := pipeline.EncodeResult{OutputPath: outputPath(input)}
	if size, err := s.fs.Size(result.OutputPath); err == nil {
		result.FileSize = size
	}

	if s.prober != nil {
		info, err := s.prober.Probe(result.OutputPath)
		if err != nil {
			s.logger.Warn("Could not probe %s: %s", result.OutputPath, err)
			return result, nil
		}
		result.DurationMs = info.DurationMs
		result.TrackCount = info.TrackCount
	}

	return result, nil
}

// outputPath resolves where the engine wrote the video: relative outputs
// land in the job's working directory.
func outputPath(input pipeline.EncodeInput) string {
	if filepath.IsAbs(input.OutputPath) || input.WorkDir == "" {
		return input.OutputPath
	}
	return filepath.Join(input.WorkDir, input.OutputPath)
}

var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage)(nil)
