package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
	"github.com/johndoe31415/lazywireguard/internal/netdoc"
	"github.com/johndoe31415/lazywireguard/internal/topology"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Interactively create a starter network document",
	Long: `Init walks through the handful of required settings and writes a starter
network document (TOML) you can then extend with clients and routing
rules. The default path is network.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "network.toml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		overwrite := false
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists — overwrite?", path)).
			Value(&overwrite)
		if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var (
		domain   = "example.com"
		cidr     = "172.16.0.0/24"
		hostname string
		name     = topology.DefaultConcentratorName
		port     = strconv.Itoa(topology.DefaultListenPort)
	)

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Domain").
			Description("Names the network; also the default output directory").
			Value(&domain),
		huh.NewInput().
			Title("Network CIDR").
			Description("The block host addresses are assigned from").
			Value(&cidr).
			Validate(func(s string) error {
				_, err := addrplan.ParseBlock(s)
				return err
			}),
		huh.NewInput().
			Title("Concentrator hostname").
			Description("Public DNS name or IP clients connect to").
			Value(&hostname).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("hostname is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Concentrator name").
			Value(&name),
		huh.NewInput().
			Title("Listen port").
			Value(&port).
			Validate(func(s string) error {
				p, err := strconv.Atoi(s)
				if err != nil || p < 1 || p > 65535 {
					return fmt.Errorf("not a valid port")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	listenPort, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("parsing port: %w", err)
	}

	doc := &netdoc.Document{
		Network: netdoc.NetworkDef{CIDR: cidr, Domain: domain},
		Concentrator: netdoc.HostDef{
			Name:     name,
			Hostname: hostname,
			Port:     listenPort,
			Ifname:   topology.DefaultIfname,
		},
	}
	if err := netdoc.Save(path, doc); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	fmt.Fprintln(os.Stderr, "Add [[clients]] sections and rules, then run 'lazywg generate'.")
	return nil
}
