package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/ctxlog"
	"github.com/vk/iwgo/internal/fsutil"
	"github.com/vk/iwgo/internal/hcl_adapter"
	"github.com/vk/iwgo/internal/yaml_adapter"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the load concurrency used when LoadDir gets zero.
const DefaultWorkers = 4

// DefaultLoaders returns the loaders for HCL and YAML template files.
func DefaultLoaders() map[string]config.Loader {
	loaders := map[string]config.Loader{
		hcl_adapter.Extension: hcl_adapter.NewLoader(),
	}
	yl := yaml_adapter.NewLoader()
	for _, ext := range yaml_adapter.Extensions {
		loaders[ext] = yl
	}
	return loaders
}

// Failure is one file or template that could not be loaded.
type Failure struct {
	File     string
	Template string
	Err      error
}

func (f Failure) Error() string {
	if f.Template == "" {
		return fmt.Sprintf("%s: %v", f.File, f.Err)
	}
	return fmt.Sprintf("%s: template %q: %v", f.File, f.Template, f.Err)
}

// LoadReport summarizes a LoadDir call.
type LoadReport struct {
	// Loaded holds the names of the templates added, in file order.
	Loaded []string
	Failed []Failure
}

// OK reports whether nothing failed.
func (r LoadReport) OK() bool { return len(r.Failed) == 0 }

// fileResult is what one worker produced for one file.
type fileResult struct {
	templates []*config.Template
	failed    []Failure
}

func (r *Registry) extensions() []string {
	exts := make([]string, 0, len(r.opts.Loaders))
	for ext := range r.opts.Loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LoadDir loads every template file below path using at most workers
// goroutines. Failures of single files or templates are collected in the
// report and do not stop the others; the returned error is reserved for a
// path that cannot be walked or a cancelled context.
func (r *Registry) LoadDir(ctx context.Context, path string, workers int) (LoadReport, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading templates from path...", "path", path)

	files, err := fsutil.FindFilesByExtension(path, r.extensions()...)
	if err != nil {
		return LoadReport{}, fmt.Errorf("failed to find template files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No template files found in path", "path", path)
		return LoadReport{}, nil
	}
	logger.Debug("Found template files to load", "files", files)

	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.loadFile(gctx, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadReport{}, err
	}

	var report LoadReport
	for i, res := range results {
		report.Failed = append(report.Failed, res.failed...)
		for _, desc := range res.templates {
			if err := r.insert(&entry{desc: desc, file: files[i]}); err != nil {
				report.Failed = append(report.Failed, Failure{File: files[i], Template: desc.Name, Err: err})
				continue
			}
			report.Loaded = append(report.Loaded, desc.Name)
		}
	}

	for _, f := range report.Failed {
		logger.Error("Failed to load template.", "file", f.File, "template", f.Template, "error", f.Err)
	}
	logger.Info("Registry loaded.", "templates_loaded", len(report.Loaded), "failed", len(report.Failed))
	return report, nil
}

// loadFile parses one file and validates each of its templates.
func (r *Registry) loadFile(ctx context.Context, file string) fileResult {
	loader, ok := r.opts.Loaders[strings.ToLower(filepath.Ext(file))]
	if !ok {
		return fileResult{failed: []Failure{{File: file, Err: fmt.Errorf("no loader for %q files", filepath.Ext(file))}}}
	}

	descs, err := loader.Load(ctx, file)
	if err != nil {
		return fileResult{failed: []Failure{{File: file, Err: err}}}
	}

	var res fileResult
	for _, desc := range descs {
		if _, err := r.build(ctx, desc, 1); err != nil {
			res.failed = append(res.failed, Failure{File: file, Template: desc.Name, Err: err})
			continue
		}
		res.templates = append(res.templates, desc)
	}
	return res
}
