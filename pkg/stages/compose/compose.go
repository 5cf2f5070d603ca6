// Package compose implements the channel merge stage: three normalized hit
// histograms become one RGB frame.
package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

// Stage merges per-channel histograms into a frame image.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new compose stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("compose"),
	}
}

// Execute builds the frame. Each channel is normalized independently so the
// dimmer high-iteration channels don't wash out.
func (s *Stage) Execute(ctx context.Context, input pipeline.ComposeInput) (pipeline.ComposeResult, error) {
	if input.Red == nil || input.Green == nil || input.Blue == nil {
		return pipeline.ComposeResult{}, fmt.Errorf("compose: missing channel histogram")
	}

	w, h := input.Red.W, input.Red.H
	if input.Green.W != w || input.Green.H != h || input.Blue.W != w || input.Blue.H != h {
		return pipeline.ComposeResult{}, fmt.Errorf("compose: channel dimensions differ")
	}

	select {
	case <-ctx.Done():
		return pipeline.ComposeResult{}, ctx.Err()
	default:
	}

	red := input.Red.Normalized()
	green := input.Green.Normalized()
	blue := input.Blue.Normalized()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4+0] = red[i]
		img.Pix[i*4+1] = green[i]
		img.Pix[i*4+2] = blue[i]
		img.Pix[i*4+3] = 255
	}

	var out image.Image = img
	if input.TargetWidth > 0 && input.TargetHeight > 0 &&
		(input.TargetWidth != w || input.TargetHeight != h) {
		s.logger.Debug("Downscaling %dx%d to %dx%d", w, h, input.TargetWidth, input.TargetHeight)
		out = s.renderer.ResizeImage(img, input.TargetWidth, input.TargetHeight)
	}

	if input.Label != "" {
		out = s.annotate(out, input.Label)
	}

	return pipeline.ComposeResult{Image: out}, nil
}

// annotate draws the label in the bottom-left corner.
func (s *Stage) annotate(img image.Image, label string) image.Image {
	bounds := img.Bounds()
	canvas := s.renderer.CreateCanvas(bounds.Dx(), bounds.Dy(), color.Black)
	canvas.DrawImage(img, 0, 0)
	canvas.DrawText(label, 8, bounds.Dy()-10, ports.TextStyle{
		FontSize: 13,
		Color:    color.White,
		Align:    ports.AlignLeft,
	})
	return canvas.ToImage()
}

var _ pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult] = (*Stage)(nil)
