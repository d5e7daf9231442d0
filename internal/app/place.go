package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/iwgo/internal/object"
	"github.com/vk/iwgo/internal/world"
	"github.com/vk/iwgo/internal/world/socketworld"
	"gopkg.in/yaml.v3"
)

// voxelRecord is one placed voxel in the place output.
type voxelRecord struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Z        int    `yaml:"z"`
	Material string `yaml:"material"`
	Data     uint8  `yaml:"data,omitempty"`
}

type bounds struct {
	Min [3]int `yaml:"min,flow"`
	Max [3]int `yaml:"max,flow"`
}

// placement is the YAML document printed by Place.
type placement struct {
	Object string        `yaml:"object"`
	Seed   int64         `yaml:"seed"`
	Origin [3]int        `yaml:"origin,flow"`
	Count  int           `yaml:"count"`
	Bounds *bounds       `yaml:"bounds,omitempty"`
	Voxels []voxelRecord `yaml:"voxels"`
}

// Place spawns the configured object into an empty in-memory world,
// optionally mirrored over socket.io, and prints the resulting voxels.
func (a *App) Place(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Place started.", "object", a.config.Object, "origin", a.config.Origin.String())

	if err := a.requireObject(); err != nil {
		return err
	}
	if _, err := a.load(ctx); err != nil {
		return err
	}

	mem := world.NewMemory()
	var target world.World = mem
	var mirrored *socketworld.World
	if a.config.EmitURL != "" {
		conn, err := a.dial(ctx, a.config.EmitURL, a.config.Namespace)
		if err != nil {
			return fmt.Errorf("failed to connect mirror: %w", err)
		}
		defer conn.Close()
		mirrored = socketworld.New(mem, conn, socketworld.Options{BatchSize: a.config.EmitBatch})
		target = mirrored
	}

	t, err := a.registry.Spawn(ctx, a.config.Object, target, a.config.Origin, a.config.Seed)
	if err != nil {
		return err
	}
	if mirrored != nil {
		if err := mirrored.Flush(); err != nil {
			return fmt.Errorf("failed to flush mirror: %w", err)
		}
		a.logger.Info("Voxels mirrored.", "url", a.config.EmitURL, "sent", mirrored.Sent())
	}
	a.logger.Info("Object placed.", "object", t.Name(), "seed", t.Seed(), "voxels", mem.Len())

	out, closeOut, err := a.output()
	if err != nil {
		return err
	}
	err = a.writePlacement(out, t, mem)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) writePlacement(w io.Writer, t *object.Template, mem *world.Memory) error {
	origin := t.Position()
	doc := placement{
		Object: t.Name(),
		Seed:   t.Seed(),
		Origin: [3]int{origin.X, origin.Y, origin.Z},
		Count:  mem.Len(),
		Voxels: make([]voxelRecord, 0, mem.Len()),
	}
	if lo, hi, ok := mem.Bounds(); ok {
		doc.Bounds = &bounds{Min: [3]int{lo.X, lo.Y, lo.Z}, Max: [3]int{hi.X, hi.Y, hi.Z}}
	}
	for _, v := range mem.Voxels() {
		doc.Voxels = append(doc.Voxels, voxelRecord{
			X:        v.Pos.X,
			Y:        v.Pos.Y,
			Z:        v.Pos.Z,
			Material: a.palette.Name(v.Material.ID),
			Data:     v.Material.Data,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode placement: %w", err)
	}
	return enc.Close()
}
