// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gviegas/dust/linear"
)

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Out = t.TempDir()
	cfg.Compile = false
	return cfg
}

func fileSize(t *testing.T, path string) int {
	t.Helper()
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return int(fi.Size())
}

func TestRun(t *testing.T) {
	for _, x := range [...]struct {
		prim, index  string
		subdiv       int
		vert, idx    int
		idxSize, nfs int
	}{
		{"cube", IndexAuto, 0, 24, 36, 2, 3},
		{"cube", IndexNone, 0, 36, 0, 0, 2},
		{"quad", IndexUint32, 0, 4, 6, 4, 3},
		{"icosphere", IndexUint16, 1, 72, 240, 2, 3},
	} {
		cfg := testConfig(t)
		cfg.Primitive = x.prim
		cfg.Index = x.index
		cfg.Subdivisions = x.subdiv
		res, err := run(cfg)
		if err != nil {
			t.Fatalf("run(%s/%s) failed:\n%v", x.prim, x.index, err)
		}
		if res.Vertices != x.vert || res.Indices != x.idx {
			t.Fatalf("run(%s/%s): counts\nhave %d/%d\nwant %d/%d", x.prim, x.index, res.Vertices, res.Indices, x.vert, x.idx)
		}
		if res.Draws != 1 || res.Inputs != 3 || len(res.Files) != x.nfs {
			t.Fatalf("run(%s/%s): unexpected result\n%+v", x.prim, x.index, res)
		}
		if n := fileSize(t, filepath.Join(cfg.Out, "vertex.bin")); n != x.vert*11*4 {
			t.Fatalf("run(%s/%s): vertex.bin size\nhave %d\nwant %d", x.prim, x.index, n, x.vert*11*4)
		}
		if x.idx > 0 {
			if n := fileSize(t, filepath.Join(cfg.Out, "index.bin")); n != x.idx*x.idxSize {
				t.Fatalf("run(%s/%s): index.bin size\nhave %d\nwant %d", x.prim, x.index, n, x.idx*x.idxSize)
			}
		} else if _, err := os.Stat(filepath.Join(cfg.Out, "index.bin")); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("run(%s/%s): index.bin should not exist", x.prim, x.index)
		}

		u, err := uniforms(cfg)
		if err != nil {
			t.Fatalf("uniforms failed:\n%v", err)
		}
		data, err := os.ReadFile(filepath.Join(cfg.Out, "uniforms.bin"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, u.Bytes()) {
			t.Fatalf("run(%s/%s): uniforms.bin does not match", x.prim, x.index)
		}
	}
}

func TestRunIndexData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Primitive = "quad"
	cfg.Index = IndexUint16
	if _, err := run(cfg); err != nil {
		t.Fatalf("run failed:\n%v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Out, "index.bin"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data); i += 2 {
		if x := binary.LittleEndian.Uint16(data[i:]); x > 3 {
			t.Fatalf("run: index.bin[%d]\nhave %d\nwant < 4", i/2, x)
		}
	}
}

func TestRunCompile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Compile = true
	if _, err := run(cfg); err != nil {
		if s := err.Error(); strings.Contains(s, "not yet implemented") || strings.Contains(s, "not supported") {
			t.Skipf("compiler limitation: %v", err)
		}
		t.Fatalf("run failed:\n%v", err)
	}
}

func TestRunError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Light = Vec3{}
	if _, err := run(cfg); !errors.Is(err, linear.ErrZeroLength) {
		t.Errorf("run: zero light\nhave %v\nwant %v", err, linear.ErrZeroLength)
	}

	cfg = testConfig(t)
	cfg.Camera.Center = cfg.Camera.Eye
	if _, err := run(cfg); err == nil || !strings.Contains(err.Error(), "camera") {
		t.Errorf("run: degenerate camera\nhave %v", err)
	}

	cfg = testConfig(t)
	cfg.Model.Angle = 30
	cfg.Model.Axis = Vec3{}
	if _, err := run(cfg); !errors.Is(err, linear.ErrZeroLength) {
		t.Errorf("run: zero rotation axis\nhave %v\nwant %v", err, linear.ErrZeroLength)
	}

	cfg = testConfig(t)
	cfg.Driver = "vulkan"
	if _, err := run(cfg); err == nil {
		t.Error("run: expected error for unknown driver")
	}

	cfg = testConfig(t)
	cfg.Primitive = "icosphere"
	cfg.Subdivisions = 2
	cfg.Index = IndexNone
	cfg.Projection.FOV = 0
	if _, err := run(cfg); err == nil || !strings.Contains(err.Error(), "projection") {
		t.Errorf("run: invalid projection\nhave %v", err)
	}
}

func TestModelMatrix(t *testing.T) {
	m, err := modelMatrix(&ModelConfig{
		Translate: Vec3{1, 2, 3},
		Axis:      Vec3{0, 0, 2},
		Angle:     90,
		Scale:     Vec3{2, 2, 2},
	})
	if err != nil {
		t.Fatalf("modelMatrix failed:\n%#v", err)
	}
	var v linear.V4
	v.Mul(&m, &linear.V4{1, 0, 0, 1})
	want := linear.V4{1, 4, 3, 1}
	for i := range v {
		if d := v[i] - want[i]; d > 1e-5 || d < -1e-5 {
			t.Fatalf("modelMatrix\nhave %v\nwant %v", v, want)
		}
	}
}
