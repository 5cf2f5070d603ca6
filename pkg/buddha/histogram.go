package buddha

import "fmt"

// Histogram counts orbit hits per pixel. The zero count is meaningful: a
// pixel no escaping orbit ever passed through stays black.
type Histogram struct {
	W      int
	H      int
	Counts []uint32
}

// NewHistogram creates an empty w×h histogram.
func NewHistogram(w, h int) *Histogram {
	return &Histogram{W: w, H: h, Counts: make([]uint32, w*h)}
}

// Inc increments the count at (x, y). The caller guarantees bounds.
func (h *Histogram) Inc(x, y int) {
	h.Counts[y*h.W+x]++
}

// At returns the count at (x, y).
func (h *Histogram) At(x, y int) uint32 {
	return h.Counts[y*h.W+x]
}

// Add accumulates other into h. Dimensions must match.
func (h *Histogram) Add(other *Histogram) error {
	if other.W != h.W || other.H != h.H {
		return fmt.Errorf("histogram size mismatch: %dx%d vs %dx%d", h.W, h.H, other.W, other.H)
	}
	for i, c := range other.Counts {
		h.Counts[i] += c
	}
	return nil
}

// Max returns the largest count in the histogram.
func (h *Histogram) Max() uint32 {
	var max uint32
	for _, c := range h.Counts {
		if c > max {
			max = c
		}
	}
	return max
}

// Normalized scales the counts linearly so the maximum maps to 255. An empty
// histogram yields all zeros.
func (h *Histogram) Normalized() []uint8 {
	out := make([]uint8, len(h.Counts))
	max := h.Max()
	if max == 0 {
		return out
	}
	for i, c := range h.Counts {
		out[i] = uint8(float64(c) / float64(max) * 255.0)
	}
	return out
}
