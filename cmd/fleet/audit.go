package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print recent blocked-model audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := buildService(cfg)
		if err != nil {
			return err
		}

		events := service.RecentAudit(cmd.Context(), auditLimit)
		if len(events) == 0 {
			fmt.Println("No audit events recorded.")
			return nil
		}

		for _, e := range events {
			target := e.Provider
			if e.Model != "" {
				target = target + "/" + e.Model
			}
			fmt.Printf("%s  %-40s %s\n", e.Timestamp.Format(time.RFC3339), target, e.Reason)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum events to print")
	rootCmd.AddCommand(auditCmd)
}
