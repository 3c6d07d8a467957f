// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shaders assembles per-variant shader source for the two
// backend dialect families: versioned GLSL, where capability flags
// become preprocessor defines prepended to a shared body, and WGSL,
// which has no preprocessor, so every variant key yields a distinct
// module with its own entry points.
//
// All binding indices, attribute locations, and uniform names come
// from the binding package, and all numeric constants are injected
// from the lighting, edge, and uniforms packages, so the Go reference
// functions and both dialects evaluate the same math.
package shaders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goldraw/renderer/variant"
)

// Preprocessor symbols of the GLSL dialects, one per capability flag.
const (
	DefInstanced       = "INSTANCED"
	DefInstancedColors = "INSTANCED_COLORS"
	DefBFCCertified    = "BFC_CERTIFIED"
)

// floatLit renders a float32 as a dialect-safe literal. GLSL ES 1.00
// rejects integer literals in float context, so a bare integer gets a
// trailing ".0".
func floatLit(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// entryName derives a WGSL entry point identifier from a stage prefix
// and a variant key.
func entryName(stage string, key variant.Key) string {
	return stage + "_" + strings.ReplaceAll(key.String(), "+", "_")
}

// line appends a formatted line to b.
func line(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format+"\n", args...)
}
