package render

import (
	"net"
	"strings"
	"testing"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
	"github.com/johndoe31415/lazywireguard/internal/rules"
	"github.com/johndoe31415/lazywireguard/internal/topology"
)

func renderEnv(t *testing.T) (*topology.Topology, topology.AddressTable, map[string]KeyPair) {
	t.Helper()

	block, err := addrplan.ParseBlock("172.16.0.0/24")
	if err != nil {
		t.Fatalf("ParseBlock() error: %v", err)
	}
	topo := &topology.Topology{
		Concentrator: topology.Host{
			Name:       "concentrator",
			Hostname:   "vpn.example.com",
			Ifname:     "wg0",
			ListenPort: 51820,
		},
		Clients: []topology.Host{
			{Name: "ds9"},
			{Name: "reliant", FixedIP: net.ParseIP("172.16.0.1"), Keepalive: 25},
		},
		Block: block,
	}
	table, err := topology.AssignAddresses(topo, addrplan.NewAllocator(block))
	if err != nil {
		t.Fatalf("AssignAddresses() error: %v", err)
	}

	keys := map[string]KeyPair{
		"concentrator": {Private: "CONC-PRIV", Public: "CONC-PUB"},
		"ds9":          {Private: "DS9-PRIV", Public: "DS9-PUB"},
		"reliant":      {Private: "RELIANT-PRIV", Public: "RELIANT-PUB"},
	}
	return topo, table, keys
}

func TestHostConfig_concentrator(t *testing.T) {
	t.Parallel()

	topo, table, keys := renderEnv(t)
	got, err := HostConfig(topo, table, keys, "concentrator")
	if err != nil {
		t.Fatalf("HostConfig() error: %v", err)
	}

	want := `[Interface]
# Host: concentrator
Address = 172.16.0.2/24
ListenPort = 51820
PrivateKey = CONC-PRIV

[Peer]
# Host: ds9
PublicKey = DS9-PUB
AllowedIPs = 172.16.0.3/32

[Peer]
# Host: reliant
PublicKey = RELIANT-PUB
AllowedIPs = 172.16.0.1/32
`
	if got != want {
		t.Errorf("concentrator config mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestHostConfig_client(t *testing.T) {
	t.Parallel()

	topo, table, keys := renderEnv(t)
	got, err := HostConfig(topo, table, keys, "reliant")
	if err != nil {
		t.Fatalf("HostConfig() error: %v", err)
	}

	want := `[Interface]
# Host: reliant
Address = 172.16.0.1/24
PrivateKey = RELIANT-PRIV

[Peer]
# Host: concentrator
PublicKey = CONC-PUB
Endpoint = vpn.example.com:51820
AllowedIPs = 172.16.0.0/24
PersistentKeepalive = 25
`
	if got != want {
		t.Errorf("client config mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestHostConfig_clientWithoutKeepalive(t *testing.T) {
	t.Parallel()

	topo, table, keys := renderEnv(t)
	got, err := HostConfig(topo, table, keys, "ds9")
	if err != nil {
		t.Fatalf("HostConfig() error: %v", err)
	}
	if strings.Contains(got, "PersistentKeepalive") {
		t.Errorf("config should not contain PersistentKeepalive:\n%s", got)
	}
}

func TestHostConfig_unknownHost(t *testing.T) {
	t.Parallel()

	topo, table, keys := renderEnv(t)
	if _, err := HostConfig(topo, table, keys, "voyager"); err == nil {
		t.Error("HostConfig() expected error for unknown host")
	}
}

func TestAddressPlan(t *testing.T) {
	t.Parallel()

	topo, table, _ := renderEnv(t)
	got, err := AddressPlan(topo, table)
	if err != nil {
		t.Fatalf("AddressPlan() error: %v", err)
	}

	want := "172.16.0.2      concentrator\n" +
		"172.16.0.3      ds9\n" +
		"172.16.0.1      reliant\n"
	if got != want {
		t.Errorf("AddressPlan() =\n%s\nwant\n%s", got, want)
	}
}

func TestRuleScript(t *testing.T) {
	t.Parallel()

	topo, table, _ := renderEnv(t)
	c := rules.NewCompiler(topo, table)
	rs, err := rules.ParseAll([]string{"* -> ds9", "ds9 <-> reliant"})
	if err != nil {
		t.Fatalf("ParseAll() error: %v", err)
	}
	stmts, err := c.Compile(rs)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	got := RuleScript(stmts)
	want := `#!/bin/bash
# * -> ds9
iptables -A FORWARD -i wg0 -o wg0 -d 172.16.0.3 -j ACCEPT -m comment --comment '* -> ds9'
iptables -A FORWARD -m state --state ESTABLISHED,RELATED -i wg0 -o wg0 -s 172.16.0.3 -j ACCEPT -m comment --comment 'only established: * -> ds9'

# ds9 <-> reliant
iptables -A FORWARD -i wg0 -o wg0 -s 172.16.0.3 -d 172.16.0.1 -j ACCEPT -m comment --comment 'ds9 <-> reliant'
iptables -A FORWARD -i wg0 -o wg0 -s 172.16.0.1 -d 172.16.0.3 -j ACCEPT -m comment --comment 'ds9 <-> reliant'
`
	if got != want {
		t.Errorf("RuleScript() mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestCmdline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"echo", "hello-there"}, "echo hello-there"},
		{[]string{"echo", "hello there"}, "echo 'hello there'"},
		{[]string{"echo", "a 'b' c"}, `echo 'a '\''b'\'' c'`},
		{[]string{"echo", "*"}, "echo '*'"},
		{[]string{"echo", ""}, "echo ''"},
		{[]string{"echo", "a;b|c"}, "echo 'a;b|c'"},
	}
	for _, tt := range tests {
		if got := Cmdline(tt.in); got != tt.want {
			t.Errorf("Cmdline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
