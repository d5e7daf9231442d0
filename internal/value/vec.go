package value

import (
	"math"
	"math/rand"
)

// Vec3 is a triple of values, typically a position or a size.
type Vec3 struct {
	X, Y, Z Value
}

// NewVec3 builds a Vec3 from three texts, any of which may be empty to mean
// zero.
func (s *Scope) NewVec3(x, y, z string) (Vec3, error) {
	var out Vec3
	for i, text := range []string{x, y, z} {
		v := Value(NewConstant(0))
		if text != "" {
			var err error
			if v, err = s.NewValue(text); err != nil {
				return Vec3{}, err
			}
		}
		switch i {
		case 0:
			out.X = v
		case 1:
			out.Y = v
		default:
			out.Z = v
		}
	}
	return out, nil
}

// Calculate recomputes all three components.
func (v Vec3) Calculate() error {
	for _, c := range []Value{v.X, v.Y, v.Z} {
		if err := c.Calculate(); err != nil {
			return err
		}
	}
	return nil
}

// SetRandom forwards r to all three components.
func (v Vec3) SetRandom(r *rand.Rand) {
	v.X.SetRandom(r)
	v.Y.SetRandom(r)
	v.Z.SetRandom(r)
}

// Ints returns the components rounded half away from zero.
func (v Vec3) Ints() (int, int, int) {
	return Round(v.X.Get()), Round(v.Y.Get()), Round(v.Z.Get())
}

// Round rounds half away from zero.
func Round(f float64) int {
	return int(math.Round(f))
}
