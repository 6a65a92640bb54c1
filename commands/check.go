package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and collaborator connectivity",
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

			ctx := cmd.Context()
			failures := 0

			if provider := llm.GetProvider(cfg.LLM.Provider); provider == nil {
				fmt.Printf("FAIL llm: unknown provider %q (registered: %v)\n", cfg.LLM.Provider, llm.ListProviders())
				failures++
			} else {
				fmt.Printf("ok   llm: provider %q, model %q\n", cfg.LLM.Provider, cfg.LLM.Model)
			}

			if items, err := a.queue.AllPending(ctx); err != nil {
				fmt.Printf("FAIL notion: %v\n", err)
				failures++
			} else {
				fmt.Printf("ok   notion: %d pending idea(s)\n", len(items))
				if len(items) > 0 {
					fmt.Printf("     next up: %s\n", items[0].Topic)
				}
			}

			if resp, err := a.search.Search(ctx, "AI agents test"); err != nil {
				fmt.Printf("FAIL search: %v\n", err)
				failures++
			} else {
				fmt.Printf("ok   search: %d result(s)\n", len(resp.Results))
			}

			if cfg.Slack.WebhookURL == "" {
				fmt.Println("skip slack: webhook not configured, notifications disabled")
			} else {
				fmt.Println("ok   slack: webhook configured")
			}

			if cfg.NATS.URL == "" {
				fmt.Println("skip nats: event publishing disabled")
			} else {
				fmt.Println("ok   nats: connected")
			}

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Println("All checks passed.")
			return nil
		},
	}
}
