// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shader

import (
	_ "embed"

	"github.com/gviegas/dust/mesh"
)

//go:embed lit.wgsl
var litWGSL string

// Lit returns the sources of a program that shades vertex
// colors with a single directional light.
// It expects the Uniforms layout at group 0, binding 0, and
// the inputs described by LitInputs.
func Lit() (vert, frag Source) {
	vert = Source{Name: "lit.wgsl", Code: litWGSL, Entry: "vs_main"}
	frag = Source{Name: "lit.wgsl", Code: litWGSL, Entry: "fs_main"}
	return
}

// LitInputs returns the vertex inputs of the Lit program.
func LitInputs() *Inputs {
	in, err := NewInputs(
		Input{Name: "position", Type: mesh.Position, Location: 0},
		Input{Name: "normal", Type: mesh.Normal, Location: 1},
		Input{Name: "color", Type: mesh.ColorRGB, Location: 2},
	)
	if err != nil {
		panic(err)
	}
	return in
}
