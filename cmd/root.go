package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string
	var root = &cobra.Command{
		Use:           "research-agent",
		Short:         "Conversational product research agent",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	root.AddCommand(serveCMD(&cfgPath), migrateCMD(&cfgPath), chatCMD(&cfgPath), tokenCMD(&cfgPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
