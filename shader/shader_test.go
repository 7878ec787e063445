// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gviegas/dust/driver"
	"github.com/gviegas/dust/driver/soft"
	"github.com/gviegas/dust/linear"
	"github.com/gviegas/dust/mesh"
)

var gpu *soft.GPU

func init() {
	g, err := (&soft.Driver{}).Open()
	if err != nil {
		panic("could not obtain a driver.GPU for testing")
	}
	gpu = g.(*soft.GPU)
}

// skipUnsupported skips t if err reports a compiler
// limitation rather than a problem with the source.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	s := err.Error()
	if strings.Contains(s, "not yet implemented") || strings.Contains(s, "not supported") {
		t.Skipf("compiler limitation: %v", err)
	}
}

const minimal = `@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func TestCompile(t *testing.T) {
	for _, x := range [...]struct{ name, src string }{
		{"minimal.wgsl", minimal},
		{"lit.wgsl", litWGSL},
	} {
		spv, err := Compile(x.name, x.src)
		if err != nil {
			skipUnsupported(t, err)
			t.Fatalf("Compile(%s) failed:\n%v", x.name, err)
		}
		if len(spv)%4 != 0 || binary.LittleEndian.Uint32(spv) != spirvMagic {
			t.Fatalf("Compile(%s): output is not SPIR-V", x.name)
		}
	}
}

func TestCompileError(t *testing.T) {
	src := "@vertex\nfn vs_main( -> {\n"
	_, err := Compile("broken.wgsl", src)
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("Compile\nhave %v\nwant *CompileError", err)
	}
	if cerr.Name != "broken.wgsl" || cerr.Source != src || cerr.Log == "" {
		t.Fatalf("Compile: unexpected CompileError\n%+v", cerr)
	}
	s := err.Error()
	for _, want := range [...]string{"broken.wgsl", "   1 | @vertex", "   2 | fn vs_main( -> {"} {
		if !strings.Contains(s, want) {
			t.Errorf("CompileError.Error: missing %q\n%s", want, s)
		}
	}
}

func TestProgram(t *testing.T) {
	live := gpu.Live()
	vert, frag := Lit()
	p, err := New(gpu, vert, frag)
	if err != nil {
		skipUnsupported(t, err)
		t.Fatalf("New failed:\n%v", err)
	}
	vf, ff := p.Func(driver.SVertex), p.Func(driver.SFragment)
	if vf.Name != "vs_main" || ff.Name != "fs_main" {
		t.Fatalf("Program.Func: entry points\nhave %s %s\nwant vs_main fs_main", vf.Name, ff.Name)
	}
	if vf.Code == nil || vf.Code != ff.Code {
		t.Fatal("Program.Func: expected shared shader code")
	}
	if n := gpu.Live() - live; n != 1 {
		t.Fatalf("New: live resources\nhave %d\nwant 1", n)
	}
	p.Destroy()
	p.Destroy()
	if n := gpu.Live(); n != live {
		t.Fatalf("Program.Destroy: live resources\nhave %d\nwant %d", n, live)
	}

	// The vertex stage compiles; the fragment stage does not
	// and its code must not leak.
	_, err = New(gpu,
		Source{Name: "minimal.wgsl", Code: minimal, Entry: "vs_main"},
		Source{Name: "broken.wgsl", Code: "fn (", Entry: "fs_main"})
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		skipUnsupported(t, err)
		t.Fatalf("New\nhave %v\nwant *CompileError", err)
	}
	if cerr.Stage != driver.SFragment {
		t.Errorf("CompileError.Stage\nhave %v\nwant %v", cerr.Stage, driver.SFragment)
	}
	if n := gpu.Live(); n != live {
		t.Fatalf("New: resources leaked\nhave %d\nwant %d", n, live)
	}
	if _, err := New(gpu, Source{Code: minimal}, Source{Code: minimal, Entry: "fs_main"}); err == nil {
		t.Error("New: expected error for missing entry point")
	}
}

func TestInputs(t *testing.T) {
	in := LitInputs()
	if in.Len() != 3 {
		t.Fatalf("Inputs.Len\nhave %d\nwant 3", in.Len())
	}
	if loc, err := in.Location(mesh.ColorRGB); err != nil || loc != 2 {
		t.Errorf("Inputs.Location\nhave %d, %v\nwant 2, nil", loc, err)
	}
	if loc, err := in.LocationByName("normal"); err != nil || loc != 1 {
		t.Errorf("Inputs.LocationByName\nhave %d, %v\nwant 1, nil", loc, err)
	}
	if _, err := in.Location(mesh.UV); !errors.Is(err, ErrNoInput) {
		t.Errorf("Inputs.Location\nhave %v\nwant %v", err, ErrNoInput)
	}
	if _, err := in.LocationByName("uv"); !errors.Is(err, ErrNoInput) {
		t.Errorf("Inputs.LocationByName\nhave %v\nwant %v", err, ErrNoInput)
	}
	byType, byName := in.Locations()
	if len(byType) != 3 || len(byName) != 0 || byType[mesh.Normal] != 1 {
		t.Errorf("Inputs.Locations\nhave %v %v", byType, byName)
	}

	for _, x := range [...][]Input{
		{{Name: "", Type: mesh.Position}},
		{{Name: "a", Type: mesh.Position, Location: -1}},
		{{Name: "a", Type: mesh.Position}, {Name: "a", Type: mesh.Normal, Location: 1}},
		{{Name: "a", Type: mesh.Position}, {Name: "b", Type: mesh.Normal}},
		{{Name: "a", Type: mesh.Normal}, {Name: "b", Type: mesh.Normal, Location: 1}},
	} {
		if _, err := NewInputs(x...); err == nil {
			t.Errorf("NewInputs: expected error for %v", x)
		}
	}
	in, err := NewInputs(Input{"w0", mesh.Custom, 3}, Input{"w1", mesh.Custom, 4})
	if err != nil {
		t.Fatalf("NewInputs failed:\n%#v", err)
	}
	if _, byName := in.Locations(); byName["w1"] != 4 {
		t.Errorf("Inputs.Locations: custom\nhave %v", byName)
	}
}

func TestUniforms(t *testing.T) {
	var l Uniforms
	if UniformsSize != 192 {
		t.Fatalf("UniformsSize\nhave %d\nwant 192", UniformsSize)
	}
	var p, mv linear.M4
	p.Projection(45, 800, 600, 0.1, 100)
	mv.Translate(1, 2, 3)
	var n linear.M3
	n.NormalMatrix(&mv)
	l.SetProjection(&p)
	l.SetModelView(&mv)
	l.SetNormal(&n)
	l.SetLightDir(&linear.V3{0, 0, -1})

	for i := range 16 {
		if l[i] != p[i/4][i%4] || l[16+i] != mv[i/4][i%4] {
			t.Fatalf("Uniforms: matrix element %d not in column-major order", i)
		}
	}
	for col := range 3 {
		for row := range 3 {
			if x := l[32+col*4+row]; x != n[col][row] {
				t.Fatalf("Uniforms.SetNormal: [%d][%d]\nhave %v\nwant %v", col, row, x, n[col][row])
			}
		}
		if l[32+col*4+3] != 0 {
			t.Fatalf("Uniforms.SetNormal: padding of column %d not zero", col)
		}
	}
	if l[44] != 0 || l[45] != 0 || l[46] != -1 || l[47] != 0 {
		t.Fatalf("Uniforms.SetLightDir\nhave %v", l[44:])
	}

	b := l.Bytes()
	if len(b) != UniformsSize {
		t.Fatalf("Uniforms.Bytes: len\nhave %d\nwant %d", len(b), UniformsSize)
	}
	for i := range l {
		if x := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])); x != l[i] {
			t.Fatalf("Uniforms.Bytes: [%d]\nhave %v\nwant %v", i, x, l[i])
		}
	}
}

func TestLightDir(t *testing.T) {
	var view linear.M4
	if err := view.LookAt(&linear.V3{0, 0, 5}, &linear.V3{}, &linear.V3{0, 1, 0}); err != nil {
		t.Fatalf("M4.LookAt failed:\n%#v", err)
	}
	// Translation is ignored, and this view has no rotation.
	d, err := LightDir(&view, &linear.V3{0, -2, 0})
	if err != nil {
		t.Fatalf("LightDir failed:\n%#v", err)
	}
	if d != (linear.V3{0, -1, 0}) {
		t.Fatalf("LightDir\nhave %v\nwant [0 -1 0]", d)
	}
	if _, err := LightDir(&view, &linear.V3{}); !errors.Is(err, linear.ErrZeroLength) {
		t.Fatalf("LightDir\nhave %v\nwant %v", err, linear.ErrZeroLength)
	}
}
