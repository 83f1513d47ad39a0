package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default categories and payment methods into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.app.Service
			steps := []struct {
				name string
				fn   func(context.Context) (bool, error)
			}{
				{"expense categories", svc.InitializeExpenseCategories},
				{"income categories", svc.InitializeIncomeCategories},
				{"payment methods", svc.InitializePaymentMethods},
			}
			for _, step := range steps {
				seeded, err := step.fn(cmd.Context())
				if err != nil {
					return fmt.Errorf("seed %s: %w", step.name, err)
				}
				state := "already present"
				if seeded {
					state = "seeded"
				}
				fmt.Fprintf(c.stdout, "%s: %s\n", step.name, state)
			}
			return nil
		},
	}
}
