package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/iwgo/internal/app"
	"github.com/vk/iwgo/internal/registry"
	"github.com/vk/iwgo/internal/world"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Execute runs the iwgo command line with args. Command results go to outW,
// logs and usage to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	slog.Debug("CLI parser started.")
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	var exitErr *ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return exitErr
	case errors.Is(err, app.ErrLoadFailures):
		return &ExitError{Code: 1, Message: err.Error()}
	case errors.Is(err, registry.ErrConditionNotMet):
		return &ExitError{Code: 3, Message: err.Error()}
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "accepts "),
		strings.HasPrefix(err.Error(), "requires "),
		strings.HasPrefix(err.Error(), "required flag"):
		return usageError(err)
	}
	return err
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
	palette   string
	workers   int
	noFold    bool
}

// objectFlags select and seed one object.
type objectFlags struct {
	object string
	seed   int64
	output string
}

// NewRootCommand builds the iwgo command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "iwgo",
		Short: "Procedural voxel object generator",
		Long: `iwgo loads declarative object templates (.hcl, .yaml, .yml), randomizes
them and places the resulting voxel structures.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&g.palette, "palette", "", "Path to a YAML material palette. The built-in palette is used when empty.")
	pf.IntVar(&g.workers, "workers", registry.DefaultWorkers, "Number of template files loaded concurrently.")
	pf.BoolVar(&g.noFold, "no-fold", false, "Disable constant folding of variables and lists.")

	root.AddCommand(
		newValidateCommand(g, outW, errW),
		newInspectCommand(g, outW, errW),
		newPlaceCommand(g, outW, errW),
	)
	return root
}

// run validates cfg, builds the App and calls fn.
func run(ctx context.Context, cfg app.Config, outW, errW io.Writer, fn func(*app.App, context.Context) error) error {
	config, err := app.NewConfig(cfg)
	if err != nil {
		return usageError(err)
	}
	slog.Debug("CLI parameter validation complete.", "config", config)

	a, err := app.NewApp(outW, errW, config)
	if err != nil {
		return err
	}
	return fn(a, ctx)
}

func (g *globalFlags) config(path string) app.Config {
	return app.Config{
		TemplatesPath:  path,
		PalettePath:    g.palette,
		LogFormat:      g.logFormat,
		LogLevel:       g.logLevel,
		Workers:        g.workers,
		DisableFolding: g.noFold,
	}
}

func addObjectFlags(cmd *cobra.Command, o *objectFlags) {
	cmd.Flags().StringVarP(&o.object, "object", "o", "", "Name of the object template.")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Random seed. 0 picks a time based seed.")
	cmd.Flags().StringVar(&o.output, "output", "", "Write the result to this file instead of stdout.")
	_ = cmd.MarkFlagRequired("object")
}

func newValidateCommand(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH",
		Short: "Load every template under PATH and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), g.config(args[0]), outW, errW, (*app.App).Validate)
		},
	}
}

func newInspectCommand(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	o := &objectFlags{}
	var format string
	cmd := &cobra.Command{
		Use:   "inspect PATH",
		Short: "Randomize one object and print its variables and lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config(args[0])
			cfg.Object = o.object
			cfg.Seed = o.seed
			cfg.Output = o.output
			cfg.Format = format
			return run(cmd.Context(), cfg, outW, errW, (*app.App).Inspect)
		},
	}
	addObjectFlags(cmd, o)
	cmd.Flags().StringVar(&format, "format", app.FormatYAML, "Output format. Options: 'yaml' or 'hcl'.")
	return cmd
}

func newPlaceCommand(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	o := &objectFlags{}
	var (
		at        string
		emitURL   string
		namespace string
		batch     int
	)
	cmd := &cobra.Command{
		Use:   "place PATH",
		Short: "Place one object into an empty world and print the voxels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := ParseOrigin(at)
			if err != nil {
				return usageError(err)
			}
			cfg := g.config(args[0])
			cfg.Object = o.object
			cfg.Seed = o.seed
			cfg.Output = o.output
			cfg.Origin = origin
			cfg.EmitURL = emitURL
			cfg.Namespace = namespace
			cfg.EmitBatch = batch
			return run(cmd.Context(), cfg, outW, errW, (*app.App).Place)
		},
	}
	addObjectFlags(cmd, o)
	cmd.Flags().StringVar(&at, "at", "0,0,0", "Placement origin as X,Y,Z.")
	cmd.Flags().StringVar(&emitURL, "emit-url", "", "Mirror placed voxels to this socket.io server.")
	cmd.Flags().StringVar(&namespace, "namespace", "", "socket.io namespace for --emit-url.")
	cmd.Flags().IntVar(&batch, "emit-batch", 0, "Voxels per mirrored event. 0 uses the default.")
	return cmd
}

// ParseOrigin parses "X,Y,Z" into a position.
func ParseOrigin(text string) (world.Pos, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return world.Pos{}, fmt.Errorf("invalid origin %q: expected X,Y,Z", text)
	}
	var xyz [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return world.Pos{}, fmt.Errorf("invalid origin %q: %w", text, err)
		}
		xyz[i] = n
	}
	return world.Pos{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
