package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johndoe31415/lazywireguard/internal/gen"
	"github.com/johndoe31415/lazywireguard/internal/netdoc"
	"github.com/johndoe31415/lazywireguard/internal/render"
)

var planCmd = &cobra.Command{
	Use:   "plan <document>",
	Short: "Show the resolved address assignments without writing anything",
	Long: `Plan validates the network document, runs address assignment and prints
the resulting host/address table. No keys are generated and no files
are written — useful for checking a document before generating.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	doc, err := netdoc.Load(args[0])
	if err != nil {
		return err
	}

	topo, table, err := gen.Plan(doc)
	if err != nil {
		return err
	}

	plan, err := render.AddressPlan(topo, table)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Network %s (%s), %d hosts:\n\n", doc.Network.Domain, topo.Block, len(topo.Clients)+1)
	fmt.Fprint(os.Stdout, plan)
	return nil
}
