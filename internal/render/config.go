// Package render turns the resolved topology, keypairs and compiled filter
// statements into the text artifacts lazywireguard emits: per-host WireGuard
// configs, the iptables rule script and the address plan. It does no I/O.
package render

import (
	"fmt"
	"strings"

	"github.com/johndoe31415/lazywireguard/internal/topology"
)

// KeyPair holds a host's keys in their base64 text form. Keys are opaque
// here; they are only ever pasted into config text.
type KeyPair struct {
	Private string
	Public  string
}

// HostConfig renders the WireGuard config file for the named host.
//
// The concentrator config lists every client as a peer with a /32 allowed
// address. A client config has a single peer — the concentrator — with the
// whole block routed through it.
func HostConfig(topo *topology.Topology, table topology.AddressTable, keys map[string]KeyPair, name string) (string, error) {
	host, err := topo.Resolve(name)
	if err != nil {
		return "", err
	}
	if topo.IsConcentrator(name) {
		return concentratorConfig(topo, table, keys, host)
	}
	return clientConfig(topo, table, keys, host)
}

func concentratorConfig(topo *topology.Topology, table topology.AddressTable, keys map[string]KeyPair, host topology.Host) (string, error) {
	addr, kp, err := lookup(table, keys, host.Name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Interface]\n")
	fmt.Fprintf(&b, "# Host: %s\n", host.Name)
	fmt.Fprintf(&b, "Address = %s/%d\n", addr, topo.Block.PrefixLen())
	fmt.Fprintf(&b, "ListenPort = %d\n", host.ListenPort)
	fmt.Fprintf(&b, "PrivateKey = %s\n", kp.Private)

	for _, client := range topo.Clients {
		clientAddr, clientKeys, err := lookup(table, keys, client.Name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n[Peer]\n")
		fmt.Fprintf(&b, "# Host: %s\n", client.Name)
		fmt.Fprintf(&b, "PublicKey = %s\n", clientKeys.Public)
		fmt.Fprintf(&b, "AllowedIPs = %s/32\n", clientAddr)
	}
	return b.String(), nil
}

func clientConfig(topo *topology.Topology, table topology.AddressTable, keys map[string]KeyPair, host topology.Host) (string, error) {
	addr, kp, err := lookup(table, keys, host.Name)
	if err != nil {
		return "", err
	}
	conc := topo.Concentrator
	_, concKeys, err := lookup(table, keys, conc.Name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Interface]\n")
	fmt.Fprintf(&b, "# Host: %s\n", host.Name)
	fmt.Fprintf(&b, "Address = %s/%d\n", addr, topo.Block.PrefixLen())
	fmt.Fprintf(&b, "PrivateKey = %s\n", kp.Private)

	fmt.Fprintf(&b, "\n[Peer]\n")
	fmt.Fprintf(&b, "# Host: %s\n", conc.Name)
	fmt.Fprintf(&b, "PublicKey = %s\n", concKeys.Public)
	fmt.Fprintf(&b, "Endpoint = %s:%d\n", conc.Hostname, conc.ListenPort)
	fmt.Fprintf(&b, "AllowedIPs = %s\n", topo.Block)
	if host.Keepalive > 0 {
		fmt.Fprintf(&b, "PersistentKeepalive = %d\n", host.Keepalive)
	}
	return b.String(), nil
}

// AddressPlan renders the resolved address table, one host per line in
// assignment order.
func AddressPlan(topo *topology.Topology, table topology.AddressTable) (string, error) {
	var b strings.Builder
	for _, h := range topo.AllHosts() {
		addr, ok := table.Address(h.Name)
		if !ok {
			return "", fmt.Errorf("no address assigned to host %q", h.Name)
		}
		fmt.Fprintf(&b, "%-15s %s\n", addr, h.Name)
	}
	return b.String(), nil
}

func lookup(table topology.AddressTable, keys map[string]KeyPair, name string) (string, KeyPair, error) {
	addr, ok := table.Address(name)
	if !ok {
		return "", KeyPair{}, fmt.Errorf("no address assigned to host %q", name)
	}
	kp, ok := keys[name]
	if !ok {
		return "", KeyPair{}, fmt.Errorf("no keypair for host %q", name)
	}
	return addr.String(), kp, nil
}
