package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bt-hwcontrol",
		Short: "Report Bluetooth adapter power changes to test observers",
		Long: `bt-hwcontrol watches the local Bluetooth adapter and tells registered
observers (webhooks or websocket clients) every time its power state flips.`,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(`{{printf "bt-hwcontrol version %s\n" .Version}}`)

	root.AddCommand(newServeCmd())

	return root
}
