// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"errors"

	"github.com/gviegas/dust/driver"
)

// Source is the WGSL source of a shader stage.
type Source struct {
	// Name identifies the source in errors.
	Name string
	Code string
	// Entry is the name of the entry point.
	Entry string
}

// Program is a pair of vertex and fragment shaders.
type Program struct {
	vert driver.ShaderFunc
	frag driver.ShaderFunc
	// Both stages may share the same code.
	codes []driver.ShaderCode
}

// New compiles vert and frag and creates the shader code
// for a new program.
// If both sources have the same code, it is compiled only
// once.
func New(gpu driver.GPU, vert, frag Source) (p *Program, err error) {
	var reason string
	switch {
	case vert.Entry == "":
		reason = "missing vertex entry point"
	case frag.Entry == "":
		reason = "missing fragment entry point"
	default:
		goto validSrc
	}
	err = errors.New(prefix + reason)
	return
validSrc:
	p = &Program{}
	defer func() {
		if err != nil {
			p.Destroy()
			p = nil
		}
	}()
	vc, err := p.newCode(gpu, vert, driver.SVertex)
	if err != nil {
		return
	}
	p.vert = driver.ShaderFunc{Code: vc, Name: vert.Entry}
	fc := vc
	if frag.Code != vert.Code {
		if fc, err = p.newCode(gpu, frag, driver.SFragment); err != nil {
			return
		}
	}
	p.frag = driver.ShaderFunc{Code: fc, Name: frag.Entry}
	return
}

func (p *Program) newCode(gpu driver.GPU, src Source, stg driver.Stage) (driver.ShaderCode, error) {
	spv, err := Compile(src.Name, src.Code)
	if err != nil {
		var cerr *CompileError
		if errors.As(err, &cerr) {
			cerr.Stage = stg
		}
		return nil, err
	}
	code, err := gpu.NewShaderCode(spv)
	if err != nil {
		return nil, err
	}
	p.codes = append(p.codes, code)
	return code, nil
}

// Func returns the shader function of the given stage.
func (p *Program) Func(stg driver.Stage) driver.ShaderFunc {
	switch stg {
	case driver.SVertex:
		return p.vert
	case driver.SFragment:
		return p.frag
	default:
		panic("invalid shader stage")
	}
}

// Destroy destroys the shader code.
// It is safe to call Destroy more than once.
func (p *Program) Destroy() {
	for _, c := range p.codes {
		c.Destroy()
	}
	p.codes = nil
	p.vert = driver.ShaderFunc{}
	p.frag = driver.ShaderFunc{}
}
