// Package writeframes implements the frame persistence stage.
package writeframes

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

// FramePattern is the glob matching the files this stage writes. The encode
// stage's default input pattern must match it.
const FramePattern = "frame-*.png"

// Stage writes composed frames as PNG files named frame-0000.png,
// frame-0001.png, and so on.
type Stage struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new write stage.
func NewStage(fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		fs:       fs,
		renderer: renderer,
		logger:   logger.WithComponent("write"),
	}
}

// Execute persists one frame.
func (s *Stage) Execute(ctx context.Context, input pipeline.WriteInput) (pipeline.WriteResult, error) {
	select {
	case <-ctx.Done():
		return pipeline.WriteResult{}, ctx.Err()
	default:
	}

	data, err := s.renderer.EncodeImage(input.Image, ports.FormatPNG, 0)
	if err != nil {
		return pipeline.WriteResult{}, fmt.Errorf("encode frame %d: %w", input.Index, err)
	}

	path := filepath.Join(input.Dir, fmt.Sprintf("frame-%04d.png", input.Index))
	if err := s.fs.WriteFile(path, data); err != nil {
		return pipeline.WriteResult{}, fmt.Errorf("write frame %d: %w", input.Index, err)
	}

	s.logger.Debug("Wrote %s (%d bytes)", path, len(data))
	return pipeline.WriteResult{Path: path}, nil
}

var _ pipeline.Stage[pipeline.WriteInput, pipeline.WriteResult] = (*Stage)(nil)
