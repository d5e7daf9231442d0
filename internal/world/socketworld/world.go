package socketworld

import (
	"fmt"
	"sync"

	"github.com/vk/iwgo/internal/world"
)

// DefaultEvent is the event name used for voxel batches.
const DefaultEvent = "voxels"

// DefaultBatchSize is the number of voxels sent per event.
const DefaultBatchSize = 256

// Emitter sends one event. *Client implements it.
type Emitter interface {
	Emit(event string, payload any) error
}

// VoxelMessage is the wire form of one written voxel.
type VoxelMessage struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Z        int    `json:"z"`
	Material uint16 `json:"material"`
	Data     uint8  `json:"data"`
}

// Options configures a World.
type Options struct {
	Event     string
	BatchSize int
}

// World decorates another world and streams every successful write to an
// Emitter in batches. Reads go to the wrapped world.
type World struct {
	inner   world.World
	emitter Emitter
	event   string
	batch   int

	mu      sync.Mutex
	pending []VoxelMessage
	sent    int
}

// New wraps inner.
func New(inner world.World, emitter Emitter, opts Options) *World {
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &World{inner: inner, emitter: emitter, event: opts.Event, batch: opts.BatchSize}
}

// MaterialAt implements world.World.
func (w *World) MaterialAt(p world.Pos) world.MaterialID {
	return w.inner.MaterialAt(p)
}

// SetMaterial implements world.World.
func (w *World) SetMaterial(p world.Pos, m world.Material) error {
	if err := w.inner.SetMaterial(p, m); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, VoxelMessage{X: p.X, Y: p.Y, Z: p.Z, Material: uint16(m.ID), Data: m.Data})
	if len(w.pending) >= w.batch {
		return w.flushLocked()
	}
	return nil
}

// Flush sends any buffered voxels.
func (w *World) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *World) flushLocked() error {
	if len(w.pending) == 0 {
		return nil
	}
	batch := w.pending
	w.pending = nil
	if err := w.emitter.Emit(w.event, batch); err != nil {
		return fmt.Errorf("emit %d voxels: %w", len(batch), err)
	}
	w.sent += len(batch)
	return nil
}

// Sent returns how many voxels have been emitted.
func (w *World) Sent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent
}
