package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/registry"
	"github.com/vk/iwgo/internal/world"
	"gopkg.in/yaml.v3"
)

const hutHCL = `
object "hut" {
  variables {
    side = 3
    tall = "ranI=2-4"
  }

  list "rings" {
    size  = 2
    value = side + i
  }

  setter "wall" {
    type     = "single"
    material = "planks"
  }

  condition "free" {
    type      = "cuboid"
    mode      = "include"
    materials = "air"
    x         = 0
    y         = 0
    z         = 0
    width     = side
    height    = tall
    depth     = side
  }

  instruction "walls" {
    type = "shapes"

    shape "cuboid" {
      x      = 0
      y      = 0
      z      = 0
      width  = side
      height = tall
      depth  = side
      setter = "wall"
    }
  }
}
`

const brokenHCL = `
object "broken" {
  variables {
    a = b + 1
  }
}
`

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)

	cfg, err := NewConfig(Config{TemplatesPath: "x", LogLevel: "DEBUG", Format: "HCL"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, FormatHCL, cfg.Format)

	for _, bad := range []Config{
		{TemplatesPath: "x", LogLevel: "loud"},
		{TemplatesPath: "x", LogFormat: "xml"},
		{TemplatesPath: "x", Format: "json"},
		{TemplatesPath: "x", Workers: -1},
		{TemplatesPath: "x", Namespace: "/objects"},
	} {
		_, err := NewConfig(bad)
		assert.Error(t, err, "%+v", bad)
	}
}

func TestValidate(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	a, out, _ := setupAppTest(t, Config{TemplatesPath: dir})

	require.NoError(t, a.Validate(context.Background()))
	assert.Contains(t, out.String(), "ok      hut")
	assert.Contains(t, out.String(), "1 loaded, 0 failed")
}

func TestValidate_Failures(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL, "broken.hcl": brokenHCL})
	a, out, logs := setupAppTest(t, Config{TemplatesPath: dir})

	err := a.Validate(context.Background())
	require.ErrorIs(t, err, ErrLoadFailures)
	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), `template "broken"`)
	assert.Contains(t, out.String(), "1 loaded, 1 failed")
	assert.Contains(t, logs.String(), "Failed to load template.")
}

func TestInspect_YAML(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	a, out, _ := setupAppTest(t, Config{TemplatesPath: dir, Object: "hut", Seed: 5})

	require.NoError(t, a.Inspect(context.Background()))

	var doc inspection
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "hut", doc.Object)
	assert.Equal(t, int64(5), doc.Seed)
	assert.Equal(t, []string{"walls"}, doc.Instructions)
	require.Len(t, doc.Variables, 2)
	assert.Equal(t, "side", doc.Variables[0].Name)
	assert.Equal(t, 3.0, doc.Variables[0].Value)
	assert.GreaterOrEqual(t, doc.Variables[1].Value, 2.0)
	assert.LessOrEqual(t, doc.Variables[1].Value, 4.0)
	require.Len(t, doc.Lists, 1)
	assert.Equal(t, []float64{3, 4}, doc.Lists[0].Values)
}

func TestInspect_HCLRoundTrip(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	a, out, _ := setupAppTest(t, Config{TemplatesPath: dir, Object: "hut", Seed: 9, Format: FormatHCL})
	require.NoError(t, a.Inspect(context.Background()))
	assert.Contains(t, out.String(), `object "hut"`)

	// The rendered document is itself a constant template.
	again := writeTemplates(t, map[string]string{"frozen.hcl": out.String()})
	b, _, _ := setupAppTest(t, Config{TemplatesPath: again, Object: "hut"})
	report, err := b.Registry().LoadDir(context.Background(), again, 1)
	require.NoError(t, err)
	require.True(t, report.OK(), "%v", report.Failed)

	orig, err := a.Registry().Instantiate(context.Background(), "hut", 9)
	require.NoError(t, err)
	frozen, err := b.Registry().Instantiate(context.Background(), "hut", 1)
	require.NoError(t, err)
	assert.Equal(t, orig.Variables(), frozen.Variables())
	assert.Equal(t, orig.Lists(), frozen.Lists())
}

func TestInspect_Errors(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})

	a, _, _ := setupAppTest(t, Config{TemplatesPath: dir})
	require.Error(t, a.Inspect(context.Background()), "object is required")

	b, _, _ := setupAppTest(t, Config{TemplatesPath: dir, Object: "castle"})
	var nf *registry.NotFoundError
	require.ErrorAs(t, b.Inspect(context.Background()), &nf)
}

func TestPlace(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	output := filepath.Join(t.TempDir(), "voxels.yaml")
	a, out, _ := setupAppTest(t, Config{
		TemplatesPath: dir,
		Object:        "hut",
		Seed:          3,
		Origin:        world.Pos{X: 1, Y: 2, Z: 3},
		Output:        output,
	})

	require.NoError(t, a.Place(context.Background()))
	assert.Empty(t, out.String(), "results go to the output file")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc placement
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "hut", doc.Object)
	assert.Equal(t, [3]int{1, 2, 3}, doc.Origin)
	tall := doc.Count / 9
	assert.Equal(t, 9*tall, doc.Count)
	assert.Len(t, doc.Voxels, doc.Count)
	require.NotNil(t, doc.Bounds)
	assert.Equal(t, [3]int{1, 2, 3}, doc.Bounds.Min)
	assert.Equal(t, [3]int{3, 1 + tall, 5}, doc.Bounds.Max)
	assert.Equal(t, "planks", doc.Voxels[0].Material)
}

func TestPlace_Mirror(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	a, out, _ := setupAppTest(t, Config{
		TemplatesPath: dir,
		Object:        "hut",
		Seed:          3,
		EmitURL:       "http://mirror.invalid",
		EmitBatch:     4,
	})
	m := &fakeMirror{}
	useMirror(a, m)

	require.NoError(t, a.Place(context.Background()))

	var doc placement
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, doc.Count, m.voxels)
	assert.Equal(t, (doc.Count+3)/4, m.events)
	assert.True(t, m.closed)
}

func TestPlace_MirrorDialFailure(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"hut.hcl": hutHCL})
	a, _, _ := setupAppTest(t, Config{TemplatesPath: dir, Object: "hut", EmitURL: "http://mirror.invalid"})
	a.dial = func(context.Context, string, string) (mirror, error) { return nil, errors.New("refused") }

	err := a.Place(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect mirror")
}

func TestNewApp_Palette(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"palette.yaml": "materials:\n  - name: planks\n    id: 5\n  - name: moss\n    id: 200\n",
	})
	config, err := NewConfig(Config{TemplatesPath: dir, PalettePath: filepath.Join(dir, "palette.yaml")})
	require.NoError(t, err)
	a, err := NewApp(&SafeBuffer{}, &SafeBuffer{}, config)
	require.NoError(t, err)
	id, ok := a.palette.LookupMaterial("moss")
	require.True(t, ok)
	assert.Equal(t, world.MaterialID(200), id)

	config.PalettePath = filepath.Join(dir, "missing.yaml")
	_, err = NewApp(&SafeBuffer{}, &SafeBuffer{}, config)
	require.Error(t, err)
}
