// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/dust/linear"
	"github.com/gviegas/dust/prim"
)

// Vec3 is a linear.V3 that decodes from a [x, y, z]
// sequence.
type Vec3 linear.V3

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	var s []float32
	if err := value.Decode(&s); err != nil {
		return err
	}
	if len(s) != 3 {
		return fmt.Errorf("line %d: expected 3 components, got %d", value.Line, len(s))
	}
	*v = Vec3{s[0], s[1], s[2]}
	return nil
}

// V3 returns v as a *linear.V3.
func (v *Vec3) V3() *linear.V3 { return (*linear.V3)(v) }

// ModelConfig is the model transform.
// It is applied as translate · rotate · scale.
type ModelConfig struct {
	Translate Vec3 `yaml:"translate"`
	Axis      Vec3 `yaml:"axis"`
	// Angle is in degrees.
	Angle float32 `yaml:"angle"`
	Scale Vec3    `yaml:"scale"`
}

// CameraConfig is the view.
type CameraConfig struct {
	Eye    Vec3 `yaml:"eye"`
	Center Vec3 `yaml:"center"`
	Up     Vec3 `yaml:"up"`
}

// ProjectionConfig is the perspective projection.
type ProjectionConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV    float32 `yaml:"fov"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// Index formats.
const (
	IndexAuto   = "auto"
	IndexUint16 = "uint16"
	IndexUint32 = "uint32"
	IndexNone   = "none"
)

// Config is the scene file.
type Config struct {
	// Primitive is one of cube, quad or icosphere.
	Primitive string `yaml:"primitive"`
	// Subdivisions applies to icosphere only.
	Subdivisions int              `yaml:"subdivisions"`
	Model        ModelConfig      `yaml:"model"`
	Camera       CameraConfig     `yaml:"camera"`
	Projection   ProjectionConfig `yaml:"projection"`
	// Light is the world-space light direction.
	Light Vec3   `yaml:"light"`
	Index string `yaml:"index"`
	// Compile controls whether the lit program is compiled.
	Compile bool   `yaml:"compile"`
	Out     string `yaml:"out"`
	Driver  string `yaml:"driver"`
}

// DefaultConfig returns the configuration used for fields
// that a scene file omits.
func DefaultConfig() *Config {
	return &Config{
		Primitive:    "cube",
		Subdivisions: 2,
		Model: ModelConfig{
			Axis:  Vec3{0, 1, 0},
			Scale: Vec3{1, 1, 1},
		},
		Camera: CameraConfig{
			Eye: Vec3{0, 0, 3},
			Up:  Vec3{0, 1, 0},
		},
		Projection: ProjectionConfig{
			FOV:    60,
			Width:  16,
			Height: 9,
			Near:   0.1,
			Far:    100,
		},
		Light:   Vec3{-1, -1, -1},
		Index:   IndexAuto,
		Compile: true,
		Out:     "out",
		Driver:  "soft",
	}
}

// LoadConfig reads the scene file at path.
// Fields not present in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that c describes a scene that can be
// built.
// Numeric problems (e.g. a degenerate camera) are reported
// later by the linear package.
func (c *Config) Validate() error {
	var reason string
	switch {
	case c.Primitive != "cube" && c.Primitive != "quad" && c.Primitive != "icosphere":
		reason = "unknown primitive " + c.Primitive
	case c.Subdivisions < 0 || c.Subdivisions > prim.MaxSubdiv:
		reason = fmt.Sprintf("subdivisions out of range [0, %d]", prim.MaxSubdiv)
	case c.Index != IndexAuto && c.Index != IndexUint16 && c.Index != IndexUint32 && c.Index != IndexNone:
		reason = "unknown index format " + c.Index
	case c.Out == "":
		reason = "empty output directory"
	default:
		return nil
	}
	return errors.New(reason)
}
