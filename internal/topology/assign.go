package topology

import (
	"fmt"
	"net"
)

// Claimer is the allocator surface address assignment needs. Satisfied by
// *addrplan.Allocator.
type Claimer interface {
	Claim(ip net.IP) error
	NextAddress() (net.IP, error)
}

// AddressTable maps host names to their assigned addresses. It is built once
// by AssignAddresses and read-only afterward.
type AddressTable struct {
	addrs map[string]net.IP
}

// Address returns the assigned address for the named host.
func (t AddressTable) Address(name string) (net.IP, bool) {
	ip, ok := t.addrs[name]
	return ip, ok
}

// AssignAddresses runs the two-phase assignment protocol: first every host's
// fixed address is claimed, then each host — in AllHosts order — receives its
// fixed address or the next free one. The claim-all-fixed-first phase
// guarantees that automatic assignment never collides with a fixed address
// regardless of where in the document it was declared.
func AssignAddresses(t *Topology, alloc Claimer) (AddressTable, error) {
	hosts := t.AllHosts()

	for _, h := range hosts {
		if h.FixedIP == nil {
			continue
		}
		if err := alloc.Claim(h.FixedIP); err != nil {
			return AddressTable{}, fmt.Errorf("host %q: %w", h.Name, err)
		}
	}

	table := AddressTable{addrs: make(map[string]net.IP, len(hosts))}
	for _, h := range hosts {
		if h.FixedIP != nil {
			table.addrs[h.Name] = h.FixedIP
			continue
		}
		ip, err := alloc.NextAddress()
		if err != nil {
			return AddressTable{}, fmt.Errorf("host %q: %w", h.Name, err)
		}
		table.addrs[h.Name] = ip
	}
	return table, nil
}
