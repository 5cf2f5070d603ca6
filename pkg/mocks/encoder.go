// Package mocks provides hand-written test doubles for the ports interfaces.
package mocks

import (
	"context"

	"github.com/omertuc/bud/pkg/ports"
)

// FrameEncoder is a mock implementation of ports.FrameEncoder.
type FrameEncoder struct {
	EncodeFunc func(ctx context.Context, job ports.EncodeJob) error

	// Jobs records every job passed to Encode.
	Jobs []ports.EncodeJob
}

func (m *FrameEncoder) Encode(ctx context.Context, job ports.EncodeJob) error {
	m.Jobs = append(m.Jobs, job)
	if m.EncodeFunc != nil {
		return m.EncodeFunc(ctx, job)
	}
	return nil
}

var _ ports.FrameEncoder = (*FrameEncoder)(nil)

// VideoProber is a mock implementation of ports.VideoProber.
type VideoProber struct {
	ProbeFunc func(path string) (ports.VideoInfo, error)

	// Paths records every path passed to Probe.
	Paths []string
}

func (m *VideoProber) Probe(path string) (ports.VideoInfo, error) {
	m.Paths = append(m.Paths, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return ports.VideoInfo{}, nil
}

var _ ports.VideoProber = (*VideoProber)(nil)
