// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package dust is the core of a small 3D rendering engine.
//
// Sub-packages provide the math (linear), vertex layouts
// and meshes (mesh, prim), GPU uploads (vbo, texture,
// shader), bitmap fonts (font) and the boundary to the
// native graphics API (driver).
//
// This package only holds the logger shared by the
// sub-packages.
package dust
