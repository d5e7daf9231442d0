// Package world defines the voxel world and material registry that templates
// are placed into, plus an in-memory world implementation.
package world
