// Package netdoc loads and validates the declarative network document. The
// document is TOML by convention, with JSON and YAML accepted by file
// extension. Loading is a boundary concern: everything downstream works on
// the in-memory topology values built here.
package netdoc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
	"github.com/johndoe31415/lazywireguard/internal/topology"
)

// Document mirrors the on-disk network description.
//
// Rules is declared first so the TOML encoder emits it ahead of the tables;
// a bare key after a table would otherwise land inside that table.
type Document struct {
	Rules        []string   `toml:"rules,omitempty" json:"rules,omitempty" yaml:"rules,omitempty"`
	Network      NetworkDef `toml:"network" json:"network" yaml:"network"`
	Concentrator HostDef    `toml:"concentrator" json:"concentrator" yaml:"concentrator"`
	Clients      []HostDef  `toml:"clients" json:"clients" yaml:"clients"`
}

// NetworkDef names the address block and the domain the artifact tree is
// laid out under.
type NetworkDef struct {
	CIDR   string `toml:"cidr" json:"cidr" yaml:"cidr"`
	Domain string `toml:"domain" json:"domain" yaml:"domain"`
}

// HostDef describes one host. Hostname and Port are only meaningful on the
// concentrator, FixedIP and Keepalive on any host respectively clients.
type HostDef struct {
	Name      string `toml:"name" json:"name" yaml:"name"`
	Hostname  string `toml:"hostname,omitempty" json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Port      int    `toml:"port,omitempty" json:"port,omitempty" yaml:"port,omitempty"`
	Ifname    string `toml:"ifname,omitempty" json:"ifname,omitempty" yaml:"ifname,omitempty"`
	FixedIP   string `toml:"fixed_ip,omitempty" json:"fixed_ip,omitempty" yaml:"fixed_ip,omitempty"`
	Keepalive int    `toml:"keepalive,omitempty" json:"keepalive,omitempty" yaml:"keepalive,omitempty"`
}

// Load reads a network document, picking the codec by file extension:
// .toml (default), .json, .yaml/.yml. After decoding, defaults are applied
// and the document is validated.
func Load(path string) (*Document, error) {
	doc := &Document{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", path, err)
		}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decoding JSON document %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decoding YAML document %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, doc); err != nil {
			return nil, fmt.Errorf("decoding TOML document %s: %w", path, err)
		}
	}

	applyDefaults(doc)
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save encodes the document as TOML and writes it to path with mode 0644.
func Save(path string, doc *Document) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating document %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// applyDefaults fills in the documented defaults for unset optional fields.
func applyDefaults(doc *Document) {
	if doc.Concentrator.Name == "" {
		doc.Concentrator.Name = topology.DefaultConcentratorName
	}
	if doc.Concentrator.Ifname == "" {
		doc.Concentrator.Ifname = topology.DefaultIfname
	}
	if doc.Concentrator.Port == 0 {
		doc.Concentrator.Port = topology.DefaultListenPort
	}
	for i := range doc.Clients {
		if doc.Clients[i].Ifname == "" {
			doc.Clients[i].Ifname = topology.DefaultIfname
		}
	}
}

// validate checks the boundary-level document constraints; topology-level
// invariants (unique names, addresses within the block) are checked by the
// topology and allocator.
func (doc *Document) validate() error {
	if doc.Network.CIDR == "" {
		return fmt.Errorf("document is missing network.cidr")
	}
	if doc.Network.Domain == "" {
		return fmt.Errorf("document is missing network.domain")
	}
	if doc.Concentrator.Hostname == "" {
		return fmt.Errorf("document is missing concentrator.hostname — clients cannot reach the concentrator without it")
	}
	for i, c := range doc.Clients {
		if c.Name == "" {
			return fmt.Errorf("client #%d has no name", i+1)
		}
	}
	return nil
}

// Topology builds the in-memory topology from the document. Fixed addresses
// are parsed here; whether they fall into the block is the allocator's
// verdict during assignment.
func (doc *Document) Topology() (*topology.Topology, error) {
	block, err := addrplan.ParseBlock(doc.Network.CIDR)
	if err != nil {
		return nil, err
	}

	conc, err := doc.Concentrator.host()
	if err != nil {
		return nil, err
	}

	clients := make([]topology.Host, 0, len(doc.Clients))
	for _, c := range doc.Clients {
		h, err := c.host()
		if err != nil {
			return nil, err
		}
		clients = append(clients, h)
	}

	return &topology.Topology{
		Concentrator: conc,
		Clients:      clients,
		Block:        block,
	}, nil
}

func (d HostDef) host() (topology.Host, error) {
	h := topology.Host{
		Name:       d.Name,
		Hostname:   d.Hostname,
		ListenPort: d.Port,
		Ifname:     d.Ifname,
		Keepalive:  d.Keepalive,
	}
	if d.FixedIP != "" {
		ip := net.ParseIP(d.FixedIP)
		if ip == nil || ip.To4() == nil {
			return topology.Host{}, fmt.Errorf("host %q has invalid fixed address %q", d.Name, d.FixedIP)
		}
		h.FixedIP = ip
	}
	return h, nil
}
