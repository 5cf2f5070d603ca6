package ports

// VideoInfo summarizes a muxed video file.
type VideoInfo struct {
	DurationMs int
	Timescale  uint32
	TrackCount int
}

// VideoProber inspects an encoded video file. Used to report what the
// external engine produced; never required for the encode itself.
type VideoProber interface {
	Probe(path string) (VideoInfo, error)
}
