package topology

import (
	"errors"
	"net"
	"testing"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
)

func testTopology(t *testing.T, clients ...Host) *Topology {
	t.Helper()
	block, err := addrplan.ParseBlock("172.16.0.0/24")
	if err != nil {
		t.Fatalf("ParseBlock() error: %v", err)
	}
	return &Topology{
		Concentrator: Host{
			Name:       DefaultConcentratorName,
			Hostname:   "vpn.example.com",
			Ifname:     DefaultIfname,
			ListenPort: DefaultListenPort,
		},
		Clients: clients,
		Block:   block,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: "ds9"}, Host{Name: "reliant"})
	if err := topo.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate_duplicateClientName(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: "ds9"}, Host{Name: "ds9"})

	err := topo.Validate()
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("Validate() error = %v, want *DuplicateNameError", err)
	}
	if dup.Name != "ds9" {
		t.Errorf("DuplicateNameError.Name = %q, want %q", dup.Name, "ds9")
	}
}

func TestValidate_clientCollidesWithConcentrator(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: DefaultConcentratorName})

	var dup *DuplicateNameError
	if err := topo.Validate(); !errors.As(err, &dup) {
		t.Fatalf("Validate() error = %v, want *DuplicateNameError", err)
	}
}

func TestAllHosts_order(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: "b"}, Host{Name: "a"}, Host{Name: "c"})

	want := []string{DefaultConcentratorName, "b", "a", "c"}
	hosts := topo.AllHosts()
	if len(hosts) != len(want) {
		t.Fatalf("AllHosts() returned %d hosts, want %d", len(hosts), len(want))
	}
	for i, h := range hosts {
		if h.Name != want[i] {
			t.Errorf("AllHosts()[%d].Name = %q, want %q", i, h.Name, want[i])
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: "ds9", Ifname: "wg8"})

	h, err := topo.Resolve("ds9")
	if err != nil {
		t.Fatalf("Resolve(ds9) error: %v", err)
	}
	if h.Ifname != "wg8" {
		t.Errorf("Resolve(ds9).Ifname = %q, want wg8", h.Ifname)
	}

	_, err = topo.Resolve("voyager")
	var unknown *UnknownHostError
	if !errors.As(err, &unknown) {
		t.Fatalf("Resolve(voyager) error = %v, want *UnknownHostError", err)
	}
	if unknown.Name != "voyager" {
		t.Errorf("UnknownHostError.Name = %q, want voyager", unknown.Name)
	}
}

func TestAssignAddresses(t *testing.T) {
	t.Parallel()

	// reliant pins .1, so the concentrator starts at .2 and the remaining
	// clients follow in declared order.
	topo := testTopology(t,
		Host{Name: "ds9"},
		Host{Name: "reliant", FixedIP: net.ParseIP("172.16.0.1")},
		Host{Name: "deltaflyer", Ifname: "wg8"},
	)

	table, err := AssignAddresses(topo, addrplan.NewAllocator(topo.Block))
	if err != nil {
		t.Fatalf("AssignAddresses() error: %v", err)
	}

	want := map[string]string{
		DefaultConcentratorName: "172.16.0.2",
		"ds9":                   "172.16.0.3",
		"reliant":               "172.16.0.1",
		"deltaflyer":            "172.16.0.4",
	}
	for name, addr := range want {
		ip, ok := table.Address(name)
		if !ok {
			t.Errorf("Address(%q) missing", name)
			continue
		}
		if ip.String() != addr {
			t.Errorf("Address(%q) = %s, want %s", name, ip, addr)
		}
	}
}

func TestAssignAddresses_fixedCollision(t *testing.T) {
	t.Parallel()

	topo := testTopology(t,
		Host{Name: "a", FixedIP: net.ParseIP("172.16.0.9")},
		Host{Name: "b", FixedIP: net.ParseIP("172.16.0.9")},
	)

	_, err := AssignAddresses(topo, addrplan.NewAllocator(topo.Block))
	var dup *addrplan.DuplicateAddressError
	if !errors.As(err, &dup) {
		t.Fatalf("AssignAddresses() error = %v, want *addrplan.DuplicateAddressError", err)
	}
}

func TestAssignAddresses_fixedOutOfBlock(t *testing.T) {
	t.Parallel()

	topo := testTopology(t, Host{Name: "a", FixedIP: net.ParseIP("10.0.0.1")})

	_, err := AssignAddresses(topo, addrplan.NewAllocator(topo.Block))
	var oor *addrplan.OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("AssignAddresses() error = %v, want *addrplan.OutOfRangeError", err)
	}
}

func TestAssignAddresses_lateFixedDeclarationWins(t *testing.T) {
	t.Parallel()

	// The fixed address is declared on the last host, yet no earlier
	// automatic assignment may take it.
	topo := testTopology(t,
		Host{Name: "auto1"},
		Host{Name: "auto2"},
		Host{Name: "pinned", FixedIP: net.ParseIP("172.16.0.2")},
	)

	table, err := AssignAddresses(topo, addrplan.NewAllocator(topo.Block))
	if err != nil {
		t.Fatalf("AssignAddresses() error: %v", err)
	}

	want := map[string]string{
		DefaultConcentratorName: "172.16.0.1",
		"auto1":                 "172.16.0.3",
		"auto2":                 "172.16.0.4",
		"pinned":                "172.16.0.2",
	}
	for name, addr := range want {
		if ip, _ := table.Address(name); ip.String() != addr {
			t.Errorf("Address(%q) = %s, want %s", name, ip, addr)
		}
	}
}
