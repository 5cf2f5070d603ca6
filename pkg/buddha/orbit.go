package buddha

import "math/rand"

// escapeRadiusSq is the squared modulus beyond which an orbit is considered
// escaped.
const escapeRadiusSq = 4.0

// SampleOrbit iterates z ← z² + c up to maxIter times. If the orbit escapes,
// every visited point inside the viewport is accumulated into hist; orbits
// that never escape contribute nothing. The visited buffer is reused between
// calls and returned for the next one.
func SampleOrbit(c complex128, maxIter int, vp Viewport, hist *Histogram, visited []complex128) []complex128 {
	visited = visited[:0]
	z := complex(0, 0)

	for i := 0; i < maxIter; i++ {
		z = z*z + c
		visited = append(visited, z)

		if real(z)*real(z)+imag(z)*imag(z) > escapeRadiusSq {
			for _, p := range visited {
				if x, y, ok := vp.Pixel(p); ok {
					hist.Inc(x, y)
				}
			}
			break
		}
	}

	return visited
}

// Accumulate draws samples random points from the viewport and accumulates
// their escaping orbits into hist.
func Accumulate(rng *rand.Rand, samples int64, maxIter int, vp Viewport, hist *Histogram) {
	visited := make([]complex128, 0, maxIter)
	for i := int64(0); i < samples; i++ {
		visited = SampleOrbit(vp.Random(rng), maxIter, vp, hist, visited)
	}
}
