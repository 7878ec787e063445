// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Dust builds a primitive mesh, uploads it together with
// its per-draw uniforms and writes the resulting buffers
// to disk.
//
// Usage:
//
//	dust [-config scene.yaml] [-out dir] [-v]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
	"github.com/gviegas/dust/driver/soft"
	"github.com/gviegas/dust/internal/ctxt"
	"github.com/gviegas/dust/linear"
	"github.com/gviegas/dust/mesh"
	"github.com/gviegas/dust/prim"
	"github.com/gviegas/dust/shader"
	"github.com/gviegas/dust/vbo"
)

func main() {
	cfgPath := flag.String("config", "", "scene file (YAML)")
	out := flag.String("out", "", "output directory (overrides the scene file)")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	lvl := slog.LevelInfo
	if *verbose {
		lvl = slog.LevelDebug
	}
	dust.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	cfg := DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = LoadConfig(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, "dust:", err)
			os.Exit(1)
		}
	}
	if *out != "" {
		cfg.Out = *out
	}
	res, err := run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dust:", err)
		os.Exit(1)
	}
	dust.Logger().Info("dust: done",
		"primitive", cfg.Primitive,
		"vertices", res.Vertices,
		"indices", res.Indices,
		"draws", res.Draws,
		"files", res.Files)
}

// result summarizes a run.
type result struct {
	Vertices int
	Indices  int
	Draws    int
	Inputs   int
	Files    []string
}

// buildMesh creates the primitive that cfg names.
func buildMesh(cfg *Config) (*mesh.Mesh, error) {
	switch cfg.Primitive {
	case "quad":
		return prim.Quad(), nil
	case "icosphere":
		return prim.Icosphere(cfg.Subdivisions)
	default:
		return prim.Cube(), nil
	}
}

// modelMatrix computes translate · rotate · scale.
func modelMatrix(c *ModelConfig) (m linear.M4, err error) {
	var t, r, s, tr linear.M4
	t.Translate(c.Translate[0], c.Translate[1], c.Translate[2])
	r.I()
	if c.Angle != 0 {
		var axis linear.V3
		if err = axis.Norm(c.Axis.V3()); err != nil {
			err = fmt.Errorf("model rotation axis: %w", err)
			return
		}
		r.Rotate(c.Angle*math.Pi/180, &axis)
	}
	s.Scale(c.Scale[0], c.Scale[1], c.Scale[2])
	tr.Mul(&t, &r)
	m.Mul(&tr, &s)
	return
}

// uniforms computes the per-draw uniform data.
func uniforms(cfg *Config) (u shader.Uniforms, err error) {
	model, err := modelMatrix(&cfg.Model)
	if err != nil {
		return
	}
	var view, proj, mv linear.M4
	if err = view.LookAt(cfg.Camera.Eye.V3(), cfg.Camera.Center.V3(), cfg.Camera.Up.V3()); err != nil {
		err = fmt.Errorf("camera: %w", err)
		return
	}
	p := &cfg.Projection
	if err = proj.Projection(p.FOV, p.Width, p.Height, p.Near, p.Far); err != nil {
		err = fmt.Errorf("projection: %w", err)
		return
	}
	mv.Mul(&view, &model)
	var norm linear.M3
	if err = norm.NormalMatrix(&mv); err != nil {
		err = fmt.Errorf("normal matrix: %w", err)
		return
	}
	light, err := shader.LightDir(&view, cfg.Light.V3())
	if err != nil {
		err = fmt.Errorf("light direction: %w", err)
		return
	}
	u.SetProjection(&proj)
	u.SetModelView(&mv)
	u.SetNormal(&norm)
	u.SetLightDir(&light)
	return
}

// pack packs m as cfg.Index requests.
func pack(cfg *Config, m *mesh.Mesh) (*mesh.Packed, error) {
	switch cfg.Index {
	case IndexNone:
		return m.PackExpanded()
	case IndexUint16:
		return m.PackIndexed(driver.Index16)
	case IndexUint32:
		return m.PackIndexed(driver.Index32)
	}
	if m.VertexCount() > mesh.MaxIndex16 {
		return m.PackIndexed(driver.Index32)
	}
	return m.PackIndexed(driver.Index16)
}

func run(cfg *Config) (res *result, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	m, err := buildMesh(cfg)
	if err != nil {
		return
	}
	u, err := uniforms(cfg)
	if err != nil {
		return
	}
	p, err := pack(cfg, m)
	if err != nil {
		return
	}

	gpu, err := ctxt.Load(cfg.Driver)
	if err != nil {
		err = fmt.Errorf("driver %q: %w", cfg.Driver, err)
		return
	}
	defer ctxt.Close()

	byType, byName := shader.LitInputs().Locations()
	nIns := len(vbo.VertexIns(m.Attribs(), byType, byName))
	if cfg.Compile {
		vert, frag := shader.Lit()
		var prog *shader.Program
		if prog, err = shader.New(gpu, vert, frag); err != nil {
			return
		}
		defer prog.Destroy()
	}

	vb, err := vbo.UploadPacked(gpu, p)
	if err != nil {
		return
	}
	defer vb.Destroy()
	ub, err := gpu.NewBuffer(int64(shader.UniformsSize), true, driver.UShaderConst)
	if err != nil {
		return
	}
	defer ub.Destroy()
	copy(ub.Bytes(), u.Bytes())

	cb, err := gpu.NewCmdBuffer()
	if err != nil {
		return
	}
	defer cb.Destroy()
	if err = cb.Begin(); err != nil {
		return
	}
	vb.Bind(cb)
	vb.Draw(cb)
	if err = cb.End(); err != nil {
		return
	}
	if err = gpu.Commit([]driver.CmdBuffer{cb}); err != nil {
		return
	}

	files, err := write(cfg.Out, vb, ub, len(p.Vertex), len(p.Index))
	if err != nil {
		return
	}
	res = &result{
		Vertices: p.VertexCount,
		Indices:  p.IndexCount,
		Inputs:   nIns,
		Files:    files,
	}
	// Only the software driver records draws.
	if g, ok := gpu.(*soft.GPU); ok {
		res.Draws = len(g.Draws())
	}
	return
}

// write writes the vertex, index and uniform data read back
// from the GPU buffers to dir.
func write(dir string, vb *vbo.VertexBuffer, ub driver.Buffer, vertLen, idxLen int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	type file struct {
		name string
		data []byte
	}
	data := vb.Buffer().Bytes()
	files := []file{
		{"vertex.bin", data[:vertLen]},
		{"uniforms.bin", ub.Bytes()[:shader.UniformsSize]},
	}
	if vb.Indexed() {
		off := vb.IndexOffset()
		files = append(files, file{"index.bin", data[off : off+int64(idxLen)]})
	}
	var names []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, err
		}
		dust.Logger().Debug("dust: wrote file", "path", path, "bytes", len(f.data))
		names = append(names, path)
	}
	return names, nil
}
