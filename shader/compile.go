// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package shader compiles WGSL shaders to SPIR-V, creates
// shader programs and defines the layout of uniform data.
package shader

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
)

const prefix = "shader: "

// CompileError is the error returned when a shader fails to
// compile.
type CompileError struct {
	Name string
	// Stage is zero if unknown.
	Stage  driver.Stage
	Log    string
	Source string
}

// Error returns the compiler log followed by the numbered
// source.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(e.Name)
	if e.Stage != 0 {
		fmt.Fprintf(&b, " (%s)", e.Stage)
	}
	b.WriteString(": compilation failed\n")
	b.WriteString(strings.TrimRight(e.Log, "\n"))
	b.WriteByte('\n')
	for i, ln := range strings.Split(strings.TrimRight(e.Source, "\n"), "\n") {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, ln)
	}
	return b.String()
}

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Compile compiles WGSL source to a SPIR-V binary.
// name identifies the shader in errors and logs.
func Compile(name, src string) ([]byte, error) {
	code, err := naga.Compile(src)
	if err != nil {
		return nil, &CompileError{Name: name, Log: err.Error(), Source: src}
	}
	if len(code) < 20 || len(code)%4 != 0 || binary.LittleEndian.Uint32(code) != spirvMagic {
		return nil, &CompileError{Name: name, Log: "invalid SPIR-V output", Source: src}
	}
	dust.Logger().Debug("shader: compiled", "name", name, "bytes", len(code))
	return code, nil
}
