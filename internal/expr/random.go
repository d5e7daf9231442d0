package expr

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrRangeTooWide is returned for integer ranges whose width does not fit in
// an int64.
var ErrRangeTooWide = errors.New("random range too wide")

// IntRange converts the bounds of an integer random range, truncating toward
// zero. Bounds must be finite and fit in an int64, and the range must be
// drawable by RandomIntn.
func IntRange(lo, hi float64) (int64, int64, error) {
	for _, f := range []float64{lo, hi} {
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, 0, fmt.Errorf("random bound %v out of integer range", f)
		}
	}
	a, b := int64(lo), int64(hi)
	if _, err := rangeWidth(a, b); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func rangeWidth(lo, hi int64) (int64, error) {
	if hi < lo {
		lo, hi = hi, lo
	}
	width := uint64(hi) - uint64(lo)
	if width >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrRangeTooWide, lo, hi)
	}
	return int64(width), nil
}

// RandomIntn returns a uniformly drawn integer in [lo, hi]. Swapped bounds are
// accepted.
func RandomIntn(r *rand.Rand, lo, hi int64) (int64, error) {
	width, err := rangeWidth(lo, hi)
	if err != nil {
		return 0, err
	}
	return r.Int63n(width+1) + min(lo, hi), nil
}

// RandomFloat64 returns a uniformly drawn number in [lo, hi).
func RandomFloat64(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
