// Package gen drives artifact generation: it wires the topology model, the
// address allocator, the rule compiler and the renderer together and
// persists the result through its FileWriter collaborator.
package gen

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/johndoe31415/lazywireguard/internal/addrplan"
	"github.com/johndoe31415/lazywireguard/internal/netdoc"
	"github.com/johndoe31415/lazywireguard/internal/render"
	"github.com/johndoe31415/lazywireguard/internal/rules"
	"github.com/johndoe31415/lazywireguard/internal/topology"
)

// Artifact is one rendered output file, held in memory until the whole
// generation run has succeeded.
type Artifact struct {
	Path string
	Data []byte
	Mode fs.FileMode
}

// Options control a generation run.
type Options struct {
	// OutputDir overrides the output directory. Empty means the document's
	// domain name.
	OutputDir string
}

// Result describes what a successful run produced.
type Result struct {
	OutputDir string
	HostDirs  []string
	Artifacts []Artifact
}

// Generator orchestrates one generation run.
type Generator struct {
	log  *slog.Logger
	keys KeySource
	fs   FileWriter
}

// New creates a Generator. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, keys KeySource, fw FileWriter) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		log:  logger.With("component", "gen"),
		keys: keys,
		fs:   fw,
	}
}

// Plan validates the document's topology and resolves all addresses without
// producing any artifacts.
func Plan(doc *netdoc.Document) (*topology.Topology, topology.AddressTable, error) {
	topo, err := doc.Topology()
	if err != nil {
		return nil, topology.AddressTable{}, err
	}
	if err := topo.Validate(); err != nil {
		return nil, topology.AddressTable{}, err
	}
	table, err := topology.AssignAddresses(topo, addrplan.NewAllocator(topo.Block))
	if err != nil {
		return nil, topology.AddressTable{}, err
	}
	return topo, table, nil
}

// Run generates the full artifact set for the document: the address plan,
// one config per host and the concentrator's rule script. Everything is
// rendered in memory first; files are only written once no error can occur
// anymore.
func (g *Generator) Run(doc *netdoc.Document, opts Options) (*Result, error) {
	topo, table, err := Plan(doc)
	if err != nil {
		return nil, err
	}
	hosts := topo.AllHosts()
	for _, h := range hosts {
		addr, _ := table.Address(h.Name)
		g.log.Debug("assigned address", "host", h.Name, "address", addr.String())
	}

	keys := make(map[string]render.KeyPair, len(hosts))
	for _, h := range hosts {
		priv, err := g.keys.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generating private key for %q: %w", h.Name, err)
		}
		pub, err := g.keys.DerivePublicKey(priv)
		if err != nil {
			return nil, fmt.Errorf("deriving public key for %q: %w", h.Name, err)
		}
		keys[h.Name] = render.KeyPair{Private: priv, Public: pub}
	}

	parsed, err := rules.ParseAll(doc.Rules)
	if err != nil {
		return nil, err
	}
	stmts, err := rules.NewCompiler(topo, table).Compile(parsed)
	if err != nil {
		return nil, err
	}
	g.log.Debug("compiled routing rules", "rules", len(parsed), "statements", len(stmts))

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = doc.Network.Domain
	}

	res := &Result{OutputDir: outDir}

	plan, err := render.AddressPlan(topo, table)
	if err != nil {
		return nil, err
	}
	res.Artifacts = append(res.Artifacts, Artifact{
		Path: filepath.Join(outDir, "addresses.txt"),
		Data: []byte(plan),
		Mode: 0644,
	})

	for _, h := range hosts {
		conf, err := render.HostConfig(topo, table, keys, h.Name)
		if err != nil {
			return nil, err
		}
		hostDir := filepath.Join(outDir, h.Name)
		res.HostDirs = append(res.HostDirs, hostDir)

		ifname := h.Ifname
		if ifname == "" {
			ifname = topology.DefaultIfname
		}
		res.Artifacts = append(res.Artifacts, Artifact{
			Path: filepath.Join(hostDir, ifname+".conf"),
			Data: []byte(conf),
			Mode: 0600,
		})

		if topo.IsConcentrator(h.Name) {
			res.Artifacts = append(res.Artifacts, Artifact{
				Path: filepath.Join(hostDir, "iptables.sh"),
				Data: []byte(render.RuleScript(stmts)),
				Mode: 0755,
			})
		}
	}

	if err := g.persist(res); err != nil {
		return nil, err
	}
	g.log.Info("generation complete", "output", outDir, "hosts", len(hosts), "artifacts", len(res.Artifacts))
	return res, nil
}

// persist writes the rendered artifacts. Host directories are created with
// owner-only permissions since they hold private keys.
func (g *Generator) persist(res *Result) error {
	if err := g.fs.MkdirAll(res.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", res.OutputDir, err)
	}
	for _, dir := range res.HostDirs {
		if err := g.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating host directory %s: %w", dir, err)
		}
	}
	for _, a := range res.Artifacts {
		if err := g.fs.WriteFile(a.Path, a.Data, a.Mode); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
		g.log.Debug("wrote artifact", "path", a.Path, "bytes", len(a.Data))
	}
	return nil
}
