package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func chatCMD(cfgPath *string) *cobra.Command {
	var threadID string
	var chat = &cobra.Command{
		Use:   "chat [message]",
		Short: "Run a single conversation turn and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.orch.HandleTurn(cmd.Context(), threadID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	chat.Flags().StringVar(&threadID, "thread", "", "thread id to continue (a new one is created when empty)")
	return chat
}
