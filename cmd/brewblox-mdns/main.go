// Brewblox-mdns discovers BrewBlox Spark controllers.
//
// It locates controllers announcing themselves over mDNS on the local
// network, and controllers attached over USB serial. Results are
// available from the command line or through a small HTTP API used by
// other BrewBlox services.
//
// Usage:
//
//	brewblox-mdns [command] [flags]
//
// See 'brewblox-mdns --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrewBlox/brewblox-mdns/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brewblox-mdns",
	Short: "BrewBlox Spark controller discovery",
	Long: `Discovery service for BrewBlox Spark controllers.

Finds controllers announcing themselves over mDNS on the local network,
and controllers attached over USB serial. Run 'serve' to expose the
HTTP API, or 'discover' for one-shot command line discovery.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brewblox-mdns %s\n", version.Full())
	},
}
