package world

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PaletteEntry is one material of a palette file.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	ID    int    `yaml:"id"`
	Color string `yaml:"color,omitempty"`
}

type paletteFile struct {
	Materials []PaletteEntry `yaml:"materials"`
}

// Palette maps material names to ids.
type Palette struct {
	byName map[string]MaterialID
	byID   map[MaterialID]string
}

// NewPalette builds a palette from entries. "air" is always id 0 and may be
// omitted.
func NewPalette(entries []PaletteEntry) (*Palette, error) {
	p := &Palette{
		byName: map[string]MaterialID{"air": Air},
		byID:   map[MaterialID]string{Air: "air"},
	}
	for i, e := range entries {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		switch {
		case name == "":
			return nil, fmt.Errorf("materials[%d].name must be set", i)
		case e.ID < 0 || e.ID > 0xFFFF:
			return nil, fmt.Errorf("materials[%d].id %d out of range", i, e.ID)
		case name == "air" && e.ID != 0:
			return nil, fmt.Errorf("materials[%d]: air must have id 0", i)
		case name != "air" && e.ID == 0:
			return nil, fmt.Errorf("materials[%d]: id 0 is reserved for air", i)
		}
		id := MaterialID(e.ID)
		if prev, ok := p.byName[name]; ok && prev != id {
			return nil, fmt.Errorf("materials[%d]: duplicate name %q", i, name)
		}
		if prev, ok := p.byID[id]; ok && prev != name {
			return nil, fmt.Errorf("materials[%d]: id %d already used by %q", i, e.ID, prev)
		}
		p.byName[name] = id
		p.byID[id] = name
	}
	return p, nil
}

// DefaultPalette returns the built-in materials.
func DefaultPalette() *Palette {
	p, err := NewPalette(defaultMaterials())
	if err != nil {
		panic(err)
	}
	return p
}

func defaultMaterials() []PaletteEntry {
	names := []string{
		"stone", "grass", "dirt", "cobblestone", "planks", "sapling", "bedrock",
		"water", "stationary_water", "lava", "stationary_lava", "sand", "gravel",
		"gold_ore", "iron_ore", "coal_ore", "log", "leaves", "sponge", "glass",
		"lapis_ore", "lapis_block", "dispenser", "sandstone", "note_block", "bed",
		"powered_rail", "detector_rail", "sticky_piston", "web", "long_grass",
		"dead_bush", "piston", "piston_extension", "wool",
	}
	out := make([]PaletteEntry, 0, len(names)+4)
	for i, n := range names {
		out = append(out, PaletteEntry{Name: n, ID: i + 1})
	}
	for _, extra := range []PaletteEntry{
		{Name: "brick", ID: 45},
		{Name: "obsidian", ID: 49},
		{Name: "torch", ID: 50},
		{Name: "slate", ID: 98},
	} {
		out = append(out, extra)
	}
	return out
}

// LoadPalette reads a YAML palette file.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	if len(f.Materials) == 0 {
		return nil, fmt.Errorf("palette %s: materials cannot be empty", path)
	}
	return NewPalette(f.Materials)
}

// LookupMaterial implements Materials. Names are case-insensitive, and a
// numeric name is accepted as a raw id.
func (p *Palette) LookupMaterial(name string) (MaterialID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if id, ok := p.byName[name]; ok {
		return id, true
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && n <= 0xFFFF {
		return MaterialID(n), true
	}
	return 0, false
}

// Name returns the name of id, or its number if the palette does not know it.
func (p *Palette) Name(id MaterialID) string {
	if name, ok := p.byID[id]; ok {
		return name
	}
	return strconv.Itoa(int(id))
}

// Names returns all material names sorted by id.
func (p *Palette) Names() []string {
	ids := make([]int, 0, len(p.byID))
	for id := range p.byID {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = p.byID[MaterialID(id)]
	}
	return names
}

// ParseMaterial resolves "name" or "name:data".
func ParseMaterial(m Materials, text string) (Material, error) {
	name, dataText, hasData := strings.Cut(strings.TrimSpace(text), ":")
	id, ok := m.LookupMaterial(name)
	if !ok {
		return Material{}, &UnknownMaterialError{Name: name}
	}
	out := Material{ID: id}
	if hasData {
		data, err := strconv.ParseUint(strings.TrimSpace(dataText), 10, 8)
		if err != nil {
			return Material{}, fmt.Errorf("material %q: invalid data %q: %w", name, dataText, err)
		}
		out.Data = uint8(data)
	}
	return out, nil
}

// ParseMaterialSet resolves a comma separated list of material names into a
// set of ids. Data values are ignored.
func ParseMaterialSet(m Materials, text string) (map[MaterialID]struct{}, error) {
	set := make(map[MaterialID]struct{})
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mat, err := ParseMaterial(m, part)
		if err != nil {
			return nil, err
		}
		set[mat.ID] = struct{}{}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no materials in %q", text)
	}
	return set, nil
}

// UnknownMaterialError reports a material name missing from the palette.
type UnknownMaterialError struct {
	Name string
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("unknown material %q", e.Name)
}
