package decode

import (
	"fmt"
	"math"
)

// Point is a node position. Components are already scaled.
type Point struct {
	X, Y, Z int32
}

// Positions partitions tokens into consecutive (x, y, z) triples and
// multiplies each component by scale. Index i of the result is node i.
//
// Products are truncated toward zero and stored into 32 bits, so values
// outside the int32 range wrap modulo 2^32 instead of saturating.
func Positions(tokens []int32, scale float64) ([]Point, error) {
	if len(tokens)%3 != 0 {
		return nil, fmt.Errorf("%w: %d position tokens is not a multiple of 3", ErrDataMalformed, len(tokens))
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: scale factor %v", ErrDataMalformed, scale)
	}

	points := make([]Point, len(tokens)/3)
	for i := range points {
		j := i * 3
		points[i] = Point{
			X: scaleInt32(tokens[j], scale),
			Y: scaleInt32(tokens[j+1], scale),
			Z: scaleInt32(tokens[j+2], scale),
		}
	}
	return points, nil
}

func scaleInt32(v int32, scale float64) int32 {
	if scale == 1 {
		return v
	}
	t := math.Trunc(float64(v) * scale)
	m := math.Mod(t, 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}
