package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/delegator"
	"github.com/phorde/freefleet/internal/fleet"
)

var (
	flagTaskType string
	flagCategory string
)

var delegateCmd = &cobra.Command{
	Use:   "delegate <prompt>",
	Short: "Race the fleet for one prompt and print the winning completion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer service.CancelAll()

		result, err := service.Delegate(cmd.Context(), delegator.Request{
			Prompt:        strings.Join(args, " "),
			ForceTaskType: domain.TaskType(flagTaskType),
			ForceCategory: domain.Category(flagCategory),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Winner:    %s\n", result.Candidate)
		fmt.Printf("Category:  %s (task: %s)\n", result.Category, result.TaskType)
		fmt.Printf("Duration:  %s (attempt %d)\n\n", result.Duration.Round(time.Millisecond), result.Attempts)

		if completion, ok := result.Output.(*fleet.Completion); ok {
			fmt.Println(completion.Content)
		} else {
			fmt.Println(result.Output)
		}
		return nil
	},
}

func init() {
	delegateCmd.Flags().StringVar(&flagTaskType, "task", "", "force the task type (code, reasoning, quick, vision, general)")
	delegateCmd.Flags().StringVar(&flagCategory, "category", "", "force the functional category")
	rootCmd.AddCommand(delegateCmd)
}
