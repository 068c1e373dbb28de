package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johndoe31415/lazywireguard/internal/archive"
	"github.com/johndoe31415/lazywireguard/internal/gen"
	"github.com/johndoe31415/lazywireguard/internal/netdoc"
	"github.com/johndoe31415/lazywireguard/internal/wgkey"
)

var (
	generateOutputDir string
	generateArchive   bool
	generateUseWgTool bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <document>",
	Short: "Generate configs, keys and routing rules from a network document",
	Long: `Generate reads the network document (TOML, JSON or YAML) and writes the
full artifact set: one directory per host containing its WireGuard
config, an iptables.sh rule script for the concentrator, and an
addresses.txt listing every assigned address.

By default the output lands in a directory named after the network's
domain. Existing files are overwritten; since address assignment is
deterministic, re-running on an unchanged document reproduces the same
addresses (keys are freshly generated each run).`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "output directory (default: the network's domain name)")
	generateCmd.Flags().BoolVar(&generateArchive, "archive", false, "additionally pack each host directory into a .tar.gz")
	generateCmd.Flags().BoolVar(&generateUseWgTool, "use-wg-tool", false, "generate keys by invoking wg(8) instead of in-process")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	doc, err := netdoc.Load(args[0])
	if err != nil {
		return err
	}

	var keys gen.KeySource = wgkey.LocalSource{}
	if generateUseWgTool {
		keys = wgkey.CommandSource{}
	}

	g := gen.New(globalLogger, keys, gen.OSWriter{})
	res, err := g.Run(doc, gen.Options{OutputDir: generateOutputDir})
	if err != nil {
		return err
	}

	if generateArchive {
		for _, dir := range res.HostDirs {
			if err := archive.PackDir(dir); err != nil {
				return fmt.Errorf("archiving %s: %w", dir, err)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "Wrote %d files for %d hosts to %s\n", len(res.Artifacts), len(res.HostDirs), res.OutputDir)
	return nil
}
