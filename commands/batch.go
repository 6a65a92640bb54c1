package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Process every pending idea",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			succeeded, err := a.runner.ProcessPending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Batch complete: %d draft(s) ready.\n", succeeded)
			return nil
		},
	}
}
