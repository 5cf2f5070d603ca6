// Package config provides YAML configuration loading for bud.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omertuc/bud/pkg/orchestrator"
	"github.com/omertuc/bud/pkg/ports"
)

// File is the YAML configuration schema. Zero values mean "keep the
// default"; flags still override anything set here.
type File struct {
	Render RenderConfig `yaml:"render"`
	Encode EncodeConfig `yaml:"encode"`
}

// RenderConfig configures frame rendering.
type RenderConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	IterationsR int     `yaml:"iterations_r"`
	IterationsG int     `yaml:"iterations_g"`
	IterationsB int     `yaml:"iterations_b"`
	Samples     int64   `yaml:"samples"`
	Seed        int64   `yaml:"seed"`
	Workers     int     `yaml:"workers"`
	Supersample int     `yaml:"supersample"`
	Frames      int     `yaml:"frames"`
	Zoom        float64 `yaml:"zoom"`
	FocusRe     float64 `yaml:"focus_re"`
	FocusIm     float64 `yaml:"focus_im"`
	PlaneWidth  float64 `yaml:"plane_width"`
	PanRight    float64 `yaml:"pan_right"`
}

// EncodeConfig configures the external engine invocation.
type EncodeConfig struct {
	Pattern   string   `yaml:"pattern"`
	FrameRate int      `yaml:"framerate"`
	Bitrate   int      `yaml:"bitrate"`
	Filters   []string `yaml:"filters"` // key=value, order preserved
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &f, nil
}

// Apply overlays the file's non-zero values onto cfg.
func (f *File) Apply(cfg *orchestrator.Config) error {
	r := f.Render
	if r.Width > 0 {
		cfg.Width = r.Width
	}
	if r.Height > 0 {
		cfg.Height = r.Height
	}
	if r.IterationsR > 0 {
		cfg.IterationsR = r.IterationsR
	}
	if r.IterationsG > 0 {
		cfg.IterationsG = r.IterationsG
	}
	if r.IterationsB > 0 {
		cfg.IterationsB = r.IterationsB
	}
	if r.Samples > 0 {
		cfg.Samples = r.Samples
	}
	if r.Seed != 0 {
		cfg.Seed = r.Seed
	}
	if r.Workers > 0 {
		cfg.Workers = r.Workers
	}
	if r.Supersample > 0 {
		cfg.Supersample = r.Supersample
	}
	if r.Frames > 0 {
		cfg.FrameCount = r.Frames
	}
	if r.Zoom > 0 {
		cfg.ZoomFactor = r.Zoom
	}
	if r.FocusRe != 0 {
		cfg.FocusRe = r.FocusRe
	}
	if r.FocusIm != 0 {
		cfg.FocusIm = r.FocusIm
	}
	if r.PlaneWidth > 0 {
		cfg.PlaneWidth = r.PlaneWidth
	}
	if r.PanRight != 0 {
		cfg.PanRight = r.PanRight
	}

	e := f.Encode
	if e.Pattern != "" {
		cfg.FramePattern = e.Pattern
	}
	if e.FrameRate > 0 {
		cfg.FrameRate = e.FrameRate
	}
	if e.Bitrate > 0 {
		cfg.BitrateBps = e.Bitrate
	}
	if len(e.Filters) > 0 {
		filters, err := ParseFilters(e.Filters)
		if err != nil {
			return err
		}
		cfg.Filters = filters
	}

	return nil
}

// ParseFilter parses one "key=value" filter term.
func ParseFilter(s string) (ports.FilterParam, error) {
	key, value, found := strings.Cut(s, "=")
	if !found || key == "" || value == "" {
		return ports.FilterParam{}, fmt.Errorf("invalid filter %q: expected key=value", s)
	}
	return ports.FilterParam{Key: key, Value: value}, nil
}

// ParseFilters parses a list of "key=value" terms, preserving order.
func ParseFilters(terms []string) ([]ports.FilterParam, error) {
	filters := make([]ports.FilterParam, 0, len(terms))
	for _, term := range terms {
		f, err := ParseFilter(term)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
