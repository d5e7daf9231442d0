package app

import (
	"context"
	"fmt"
)

// Validate loads every template and prints one line per loaded template and
// per failure. It returns ErrLoadFailures when anything failed.
func (a *App) Validate(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Validate started.")

	report, err := a.load(ctx)
	if err != nil {
		return err
	}

	for _, name := range report.Loaded {
		fmt.Fprintf(a.outW, "ok      %s\n", name)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(a.outW, "FAILED  %s\n", f.Error())
	}
	fmt.Fprintf(a.outW, "%d loaded, %d failed\n", len(report.Loaded), len(report.Failed))

	if !report.OK() {
		return ErrLoadFailures
	}
	return nil
}
