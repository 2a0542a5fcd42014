package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <provider/model>",
	Short: "Resolve one model's free-tier verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, model, ok := strings.Cut(args[0], "/")
		if !ok {
			provider, model = "", args[0]
		}

		service, err := buildService(cfg)
		if err != nil {
			return err
		}

		verdict, err := service.Verify(cmd.Context(), provider, model)
		if err != nil {
			return err
		}

		fmt.Printf("Model:       %s\n", verdict.ID)
		if verdict.Provider != "" {
			fmt.Printf("Provider:    %s\n", verdict.Provider)
		}
		fmt.Printf("Free:        %t\n", verdict.IsFree)
		fmt.Printf("Tier:        %s\n", verdict.Tier)
		fmt.Printf("Confidence:  %.2f\n", verdict.Confidence)
		fmt.Printf("Reason:      %s\n", verdict.Reason)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
