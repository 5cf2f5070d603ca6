// Package mp4probe inspects MP4 files produced by the encoding engine using
// mp4ff. The probe is informational only; encode success is decided by the
// engine's exit status, never by this package.
package mp4probe

import (
	"errors"
	"fmt"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/omertuc/bud/pkg/ports"
)

// ErrNoMovieBox is returned when the file parses but carries no moov box.
var ErrNoMovieBox = errors.New("mp4probe: no movie box found")

// Prober implements ports.VideoProber using mp4ff.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe parses the MP4 at path and summarizes its movie header.
func (p *Prober) Probe(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if mp4File.IsFragmented() && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil || moov.Mvhd == nil {
		return ports.VideoInfo{}, ErrNoMovieBox
	}

	info := ports.VideoInfo{
		Timescale:  moov.Mvhd.Timescale,
		TrackCount: len(moov.Traks),
	}
	if moov.Mvhd.Timescale > 0 {
		info.DurationMs = int(moov.Mvhd.Duration * 1000 / uint64(moov.Mvhd.Timescale))
	}

	return info, nil
}

var _ ports.VideoProber = (*Prober)(nil)
