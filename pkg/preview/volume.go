package preview

import "math"

// volumeToPower maps a linear 0..1 volume to a base-2 power exponent for
// effects.Volume. Near-zero input is covered by the Silent flag instead.
func volumeToPower(vol float64) float64 {
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}
