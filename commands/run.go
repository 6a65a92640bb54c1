package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the oldest pending idea",
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

			processed, err := a.runner.ProcessOne(cmd.Context())
			if err != nil {
				return err
			}
			if !processed {
				fmt.Println("No pending ideas in the queue.")
				return nil
			}
			fmt.Println("Draft ready for review.")
			return nil
		},
	}
}
