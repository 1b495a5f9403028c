package commands

import (
	"github.com/spf13/cobra"

	"github.com/ib-77/skiprop/internal/printer"
	"github.com/ib-77/skiprop/pkg/pipeline"
	"github.com/ib-77/skiprop/pkg/rop"
)

var verifyShared bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the skip layout of the demo pipeline",
	Long: `Check that every pop of the demo pipeline has a matching earlier stash.

Examples:
  # Verify the isolated layout
  skipdemo verify

  # Verify a layout where both encoder/decoder pairs share one namespace
  skipdemo verify --shared`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyShared, "shared", false, "Do not isolate the encoder/decoder pairs")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := pipeline.Verify(demoStages(newLogger(cfg.Log), !verifyShared)); err != nil {
		return printer.Error("Skip layout is invalid", rop.GetErrors(unwrapLayout(err)))
	}

	printer.Success("skip layout is valid")
	return nil
}

// unwrapLayout strips the ErrInvalidLayout wrapper to reach the joined
// problems.
func unwrapLayout(err error) error {
	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range e.Unwrap() {
			if inner != pipeline.ErrInvalidLayout {
				return inner
			}
		}
	}
	return err
}
