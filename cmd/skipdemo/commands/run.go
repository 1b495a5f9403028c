package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ib-77/skiprop/internal/printer"
	"github.com/ib-77/skiprop/pkg/pipeline"
	"github.com/ib-77/skiprop/pkg/rop/core"
	"github.com/ib-77/skiprop/pkg/rop/solo"
)

var runWorkers int

var runCmd = &cobra.Command{
	Use:   "run [inputs...]",
	Short: "Push integer inputs through the demo pipeline",
	Long: `Push integer inputs through the demo pipeline. Every input is an
independent execution unit; units run concurrently.

Examples:
  # Run three units with the in-memory tracker
  skipdemo run 1 2 3

  # Use Redis as configured in skipdemo.yml, two units at a time
  skipdemo run -c skipdemo.yml --workers 2 1 2 3 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Units processed at once (overrides pipeline.workers)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	inputs := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("input %q is not an integer: %w", a, err)
		}
		inputs = append(inputs, n)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if runWorkers > 0 {
		ctx = core.WithWorkerOptions(ctx, runWorkers)
	}

	t, closeTracker, err := newTracker(ctx, cfg)
	if err != nil {
		return printer.Error("Failed to set up tracker", []error{err})
	}
	defer closeTracker()

	p, err := pipeline.New(t, demoStages(logger, true),
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Pipeline.Workers))
	if err != nil {
		return printer.Error("Invalid pipeline", []error{err})
	}

	printer.Step("running %d unit(s) through %d stages (%s tracker)", len(inputs), p.Len(), cfg.Tracker.Backend)

	failed := 0
	for i, res := range p.RunAll(ctx, inputs) {
		ok := solo.Finally(ctx, res,
			func(_ context.Context, out int) bool {
				printer.Success("%d -> %d", inputs[i], out)
				return true
			},
			func(_ context.Context, err error) bool {
				printer.Failure("%d: %v", inputs[i], err)
				return false
			},
			func(_ context.Context, err error) bool {
				printer.Warning("%d: cancelled: %v", inputs[i], err)
				return false
			})
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d unit(s) did not complete", failed, len(inputs))
	}
	return nil
}
