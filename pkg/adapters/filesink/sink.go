// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/omertuc/bud/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveChannel saves one color channel of one frame as a PNG,
// e.g. channels/frame-0002-g.png.
func (s *Sink) SaveChannel(frame int, channel string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "channels")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode channel: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d-%s.png", frame, channel))
	return s.fs.WriteFile(path, data)
}

// SaveFrameMeta saves per-frame metadata as JSON.
func (s *Sink) SaveFrameMeta(frame int, data []byte) error {
	path := filepath.Join(s.baseDir, fmt.Sprintf("frame-%04d.json", frame))
	return s.fs.WriteFile(path, data)
}

var _ ports.DebugSink = (*Sink)(nil)
