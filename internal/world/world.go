package world

import "fmt"

// MaterialID identifies a material in a palette. Air is always zero.
type MaterialID uint16

// Air is the material of every voxel that was never written.
const Air MaterialID = 0

// Material is a material with its data value, e.g. a wool colour.
type Material struct {
	ID   MaterialID
	Data uint8
}

// Pos is a voxel coordinate.
type Pos struct {
	X, Y, Z int
}

// Add returns p translated by (dx, dy, dz).
func (p Pos) Add(dx, dy, dz int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

func (p Pos) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// World reads and writes voxel materials.
type World interface {
	MaterialAt(p Pos) MaterialID
	SetMaterial(p Pos, m Material) error
}

// Materials resolves material names.
type Materials interface {
	LookupMaterial(name string) (MaterialID, bool)
}
