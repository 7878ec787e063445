// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"errors"
	"fmt"

	"github.com/gviegas/dust/mesh"
)

// Input is a vertex shader input.
type Input struct {
	Name     string
	Type     mesh.AttribType
	Location int
}

// Inputs is a set of vertex shader inputs.
// There is at most one input of each non-Custom type.
type Inputs struct {
	ins    []Input
	byType map[mesh.AttribType]int
}

// ErrNoInput means that a shader has no matching input.
var ErrNoInput = errors.New(prefix + "input not found")

// NewInputs creates a new set of inputs.
// Names, locations and non-Custom types must be unique.
func NewInputs(ins ...Input) (*Inputs, error) {
	s := &Inputs{byType: make(map[mesh.AttribType]int)}
	names := make(map[string]bool)
	locs := make(map[int]bool)
	for i, x := range ins {
		var reason string
		switch {
		case x.Name == "":
			reason = "empty input name"
		case x.Location < 0:
			reason = "negative input location"
		case names[x.Name]:
			reason = "duplicate input name"
		case locs[x.Location]:
			reason = "duplicate input location"
		case x.Type != mesh.Custom:
			if _, dup := s.byType[x.Type]; dup {
				reason = "duplicate input type"
			} else {
				s.byType[x.Type] = i
			}
		}
		if reason != "" {
			return nil, fmt.Errorf("%s%s: %q", prefix, reason, x.Name)
		}
		names[x.Name] = true
		locs[x.Location] = true
	}
	s.ins = append(s.ins, ins...)
	return s, nil
}

// Len returns the number of inputs.
func (s *Inputs) Len() int { return len(s.ins) }

// At returns the input at index i.
func (s *Inputs) At(i int) Input { return s.ins[i] }

// Location returns the location of the input of type t.
func (s *Inputs) Location(t mesh.AttribType) (int, error) {
	if i, ok := s.byType[t]; ok {
		return s.ins[i].Location, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrNoInput, t)
}

// LocationByName returns the location of the input named
// name.
func (s *Inputs) LocationByName(name string) (int, error) {
	for _, x := range s.ins {
		if x.Name == name {
			return x.Location, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNoInput, name)
}

// Locations returns the locations of non-Custom inputs keyed
// by type, and of Custom inputs keyed by name.
// The result is suitable for vbo.VertexIns.
func (s *Inputs) Locations() (byType map[mesh.AttribType]int, byName map[string]int) {
	byType = make(map[mesh.AttribType]int, len(s.byType))
	byName = make(map[string]int)
	for _, x := range s.ins {
		if x.Type == mesh.Custom {
			byName[x.Name] = x.Location
		} else {
			byType[x.Type] = x.Location
		}
	}
	return
}
