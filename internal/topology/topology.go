// Package topology models the declared network: one concentrator host plus
// an ordered list of client hosts sharing a single CIDR block. It owns host
// name resolution and the two-phase address assignment protocol.
package topology

import (
	"fmt"
	"net"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
)

// Defaults applied to hosts that leave the corresponding field unset.
const (
	DefaultConcentratorName = "concentrator"
	DefaultIfname           = "wg0"
	DefaultListenPort       = 51820
)

// Host is one participant of the network.
type Host struct {
	// Name uniquely identifies the host across the whole topology.
	Name string

	// FixedIP pins the host to a specific address inside the block.
	// Nil means the host gets the next free address.
	FixedIP net.IP

	// Ifname is the WireGuard interface name on this host (default wg0).
	Ifname string

	// Hostname is the endpoint clients connect to. Concentrator only.
	Hostname string

	// ListenPort is the UDP port the concentrator listens on.
	// Concentrator only.
	ListenPort int

	// Keepalive is the PersistentKeepalive interval in seconds for the
	// client's peer section. Zero disables keepalive. Client only.
	Keepalive int
}

// DuplicateNameError reports two hosts sharing a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("host name %q used twice, names must be unique", e.Name)
}

// UnknownHostError reports a reference to a host that is not part of the
// topology.
type UnknownHostError struct {
	Name string
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("no host named %q in the topology", e.Name)
}

// Topology is the concentrator, the clients in their declared order, and the
// CIDR block addresses are assigned from.
type Topology struct {
	Concentrator Host
	Clients      []Host
	Block        addrplan.Block
}

// Validate checks that all host names are distinct, concentrator included.
func (t *Topology) Validate() error {
	seen := make(map[string]struct{}, len(t.Clients)+1)
	for _, h := range t.AllHosts() {
		if _, ok := seen[h.Name]; ok {
			return &DuplicateNameError{Name: h.Name}
		}
		seen[h.Name] = struct{}{}
	}
	return nil
}

// AllHosts returns every host, concentrator first, then the clients in
// declared order. This order is load-bearing: it is the order automatic
// address assignment proceeds in.
func (t *Topology) AllHosts() []Host {
	hosts := make([]Host, 0, len(t.Clients)+1)
	hosts = append(hosts, t.Concentrator)
	hosts = append(hosts, t.Clients...)
	return hosts
}

// Resolve returns the host with the given name, or *UnknownHostError.
func (t *Topology) Resolve(name string) (Host, error) {
	for _, h := range t.AllHosts() {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, &UnknownHostError{Name: name}
}

// IsConcentrator reports whether the named host is the concentrator.
func (t *Topology) IsConcentrator(name string) bool {
	return name == t.Concentrator.Name
}
