package domain

import "path/filepath"

// BootloaderCrateName is the effective dependency name that identifies the bootloader.
const BootloaderCrateName = "bootloader"

// PackageGraph is a snapshot of the workspace package and feature graph.
type PackageGraph struct {
	Packages        []Package
	Resolve         *ResolveGraph
	TargetDirectory string
	WorkspaceRoot   string
}

// Package is a single package of the graph.
type Package struct {
	ID           string
	Name         string
	ManifestPath string
	Dependencies []Dependency
	Targets      []Target
}

// Dependency is a dependency declaration of a package.
type Dependency struct {
	Name   string
	Rename string
}

// EffectiveName returns the name the dependency is referred to by in code.
func (d Dependency) EffectiveName() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Target is a build target of a package.
type Target struct {
	Name string
	Kind []string
}

// IsBin reports whether the target is a binary target.
func (t Target) IsBin() bool {
	for _, k := range t.Kind {
		if k == "bin" {
			return true
		}
	}
	return false
}

// ResolveGraph holds the resolved features for every package id.
type ResolveGraph struct {
	Nodes []ResolveNode
}

// ResolveNode is the feature resolution for a single package.
type ResolveNode struct {
	ID       string
	Features []string
}

// Node returns the resolve node for the given package id.
func (r *ResolveGraph) Node(id string) (ResolveNode, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ResolveNode{}, false
}

// PackageByName returns the first package with the given name.
func (g *PackageGraph) PackageByName(name string) (*Package, bool) {
	for i := range g.Packages {
		if g.Packages[i].Name == name {
			return &g.Packages[i], true
		}
	}
	return nil, false
}

// PackageByManifest returns the package whose manifest is at the given path.
func (g *PackageGraph) PackageByManifest(manifestPath string) (*Package, bool) {
	want := filepath.Clean(manifestPath)
	for i := range g.Packages {
		if filepath.Clean(g.Packages[i].ManifestPath) == want {
			return &g.Packages[i], true
		}
	}
	return nil, false
}

// PackageForBin returns the first package declaring a binary target named bin.
func (g *PackageGraph) PackageForBin(bin string) (*Package, bool) {
	for i := range g.Packages {
		for _, t := range g.Packages[i].Targets {
			if t.Name == bin && t.IsBin() {
				return &g.Packages[i], true
			}
		}
	}
	return nil, false
}

// BinNames returns the names of the package's binary targets in declaration order.
func (p *Package) BinNames() []string {
	var names []string
	for _, t := range p.Targets {
		if t.IsBin() {
			names = append(names, t.Name)
		}
	}
	return names
}
