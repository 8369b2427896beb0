//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Packet groups the targets that build the data packet outputs.
type Packet mg.Namespace

// ACT extracts ACT scores by state to output/act/act_scores.csv and records
// the run in the tracker.
func (Packet) ACT() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "act",
		"--out", filepath.Join("output", "act", "act_scores.csv"),
		"--track", "act_scores")
}

// NAEP exports the current-year NAEP sheets to output/naep/.
func (Packet) NAEP() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "naep", "export",
		"--out", filepath.Join("output", "naep"),
		"--track", "naep_results")
}

// All builds every packet output and exports the tracker.
func (Packet) All() error {
	mg.SerialDeps(Packet.ACT, Packet.NAEP)
	return sh.RunV(binPath, "sources", "export", "--format", "yaml")
}

// Serve runs the tracker web form.
func (Packet) Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve")
}
