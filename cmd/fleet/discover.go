package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phorde/freefleet/internal/core/domain"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery sweep and print the ranked fleet",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := buildService(cfg)
		if err != nil {
			return err
		}

		result, err := service.Discover(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Providers: %s\n\n", strings.Join(result.Providers, ", "))

		for _, category := range domain.Categories {
			cr, ok := result.Categories[category]
			if !ok || len(cr.Ranked) == 0 {
				continue
			}

			fmt.Printf("%s (%d models, %d elite)\n", category, len(cr.Ranked), len(cr.Elite))
			for i, m := range cr.Ranked {
				marker := " "
				if m.IsElite {
					marker = "*"
				}
				fmt.Printf("  %2d %s %s\n", i+1, marker, m.FullID())
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
