package world

import (
	"sort"
	"sync"
)

// Voxel is one written voxel of a Memory world.
type Voxel struct {
	Pos      Pos
	Material Material
}

// Memory is a sparse, concurrency-safe in-memory world. Voxels that were
// never written, or were written with air, read as air.
type Memory struct {
	mu     sync.RWMutex
	voxels map[Pos]Material
}

// NewMemory creates an empty world.
func NewMemory() *Memory {
	return &Memory{voxels: make(map[Pos]Material)}
}

// MaterialAt implements World.
func (m *Memory) MaterialAt(p Pos) MaterialID {
	return m.At(p).ID
}

// At returns the material and data at p.
func (m *Memory) At(p Pos) Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.voxels[p]
}

// SetMaterial implements World.
func (m *Memory) SetMaterial(p Pos, mat Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mat.ID == Air {
		delete(m.voxels, p)
		return nil
	}
	m.voxels[p] = mat
	return nil
}

// Len returns the number of non-air voxels.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.voxels)
}

// Bounds returns the inclusive bounding box of all non-air voxels. ok is
// false for an empty world.
func (m *Memory) Bounds() (lo, hi Pos, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for p := range m.voxels {
		if !ok {
			lo, hi, ok = p, p, true
			continue
		}
		lo = Pos{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = Pos{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi, ok
}

// Voxels returns every non-air voxel ordered by Y, then Z, then X.
func (m *Memory) Voxels() []Voxel {
	m.mu.RLock()
	out := make([]Voxel, 0, len(m.voxels))
	for p, mat := range m.voxels {
		out = append(out, Voxel{Pos: p, Material: mat})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}
