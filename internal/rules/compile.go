package rules

import (
	"net"

	"github.com/johndoe31415/lazywireguard/internal/topology"
)

// EstablishedTag prefixes the comment of the return leg of a unidirectional
// rule, so the emitted rule set documents which legs accept only
// established/related traffic.
const EstablishedTag = "only established: "

// Statement is one compiled packet-filter statement. It is a pure value;
// turning it into iptables text is the renderer's job.
type Statement struct {
	// Ifname is the WireGuard interface the statement binds to.
	Ifname string

	// Source and Destination restrict the matched addresses. A nil value
	// means the corresponding match is omitted entirely (wildcard).
	Source      net.IP
	Destination net.IP

	// EstablishedOnly restricts the statement to established/related
	// connection state.
	EstablishedOnly bool

	// Comment records the rule this statement was compiled from.
	Comment string
}

// Compiler turns parsed rules into filter statements against the resolved
// addresses of a topology. All statements bind to the concentrator's
// interface since that is where forwarding between peers happens.
type Compiler struct {
	topo   *topology.Topology
	table  topology.AddressTable
	ifname string
}

// NewCompiler creates a Compiler for the given topology and its address
// table.
func NewCompiler(topo *topology.Topology, table topology.AddressTable) *Compiler {
	ifname := topo.Concentrator.Ifname
	if ifname == "" {
		ifname = topology.DefaultIfname
	}
	return &Compiler{topo: topo, table: table, ifname: ifname}
}

// resolve maps a selector to the address it matches. The wildcard resolves
// to nil, meaning "any address".
func (c *Compiler) resolve(selector string) (net.IP, error) {
	if selector == Wildcard {
		return nil, nil
	}
	h, err := c.topo.Resolve(selector)
	if err != nil {
		return nil, err
	}
	ip, ok := c.table.Address(h.Name)
	if !ok {
		return nil, &topology.UnknownHostError{Name: h.Name}
	}
	return ip, nil
}

// Compile compiles the rules in order. Every rule yields exactly two
// statements: the forward leg first, then the reverse leg, which is
// restricted to established/related traffic unless the rule is
// bidirectional. No
// deduplication is performed; overlapping rules are emitted as written.
func (c *Compiler) Compile(rs []Rule) ([]Statement, error) {
	stmts := make([]Statement, 0, 2*len(rs))
	for _, r := range rs {
		left, err := c.resolve(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.resolve(r.Right)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, Statement{
			Ifname:      c.ifname,
			Source:      left,
			Destination: right,
			Comment:     r.String(),
		})

		reverse := Statement{
			Ifname:      c.ifname,
			Source:      right,
			Destination: left,
			Comment:     r.String(),
		}
		if !r.Bidirectional {
			reverse.EstablishedOnly = true
			reverse.Comment = EstablishedTag + r.String()
		}
		stmts = append(stmts, reverse)
	}
	return stmts, nil
}
