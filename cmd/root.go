// Package cmd provides the command-line interface for the orderboard tool.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is reported by --version.
const Version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "orderboard",
	Short: "Orderboard shows build, purchase and sales orders on one kanban board",
	Long: `Orderboard is a CLI for a unified kanban board over InvenTree build, purchase
and sales orders. Each order type's native status is mapped onto five shared
stages (Backlog, In Progress, On Hold, Review, Done), and moving a card writes
the matching native status back to the server.

Connection settings are read from INVENTREE_URL and INVENTREE_TOKEN, board
settings from ENABLE_BUILD, ENABLE_PURCHASE, ENABLE_SALES, USER_COLOR_MAP and
USER_COLOR_FALLBACK_PALETTE, or from a config file given with --config.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(statusCmd)
}
