// Command lazywg turns a declarative description of a small private network
// into per-host WireGuard configuration files, keypairs and iptables routing
// rules. It only ever writes files; it never touches running system state.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// Global flags shared across subcommands.
var (
	globalVerbose bool
	globalLogger  *slog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "lazywg",
	Short: "Quick setup of WireGuard keys and routing rules",
	Long: `lazywg reads a network document describing one concentrator, a set of
client hosts and the traffic flows allowed between them, and generates
the whole artifact set: an address plan, a WireGuard config per host and
an iptables script for the concentrator. Nothing is applied to the
running system — copy the files where they belong.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if globalVerbose {
			level = slog.LevelDebug
		}
		globalLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(genkeyCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lazywg version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
