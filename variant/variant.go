// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package variant enumerates the capability-flag combinations that
// select a compiled shader program, and caches compiled programs by
// that key. One backend expresses variants as preprocessor branches,
// the other as distinct entry points; either way every combination is
// an explicit, separately compiled program, never a runtime branch in
// a monolithic one.
package variant

import "fmt"

// Pass selects which stage of the frame a program serves.
type Pass int32

const (
	// MeshPass renders filled triangles with the Blinn-Phong (or
	// unlit) fragment path.
	MeshPass Pass = iota

	// MeshPBRPass renders filled triangles with the physically-based
	// fragment path.
	MeshPBRPass

	// EdgePass renders hard edge lines.
	EdgePass

	// OptionalEdgePass renders conditionally visible edge lines.
	OptionalEdgePass

	// PickPass renders instance identifiers into the picking target.
	PickPass
)

func (p Pass) String() string {
	switch p {
	case MeshPass:
		return "mesh"
	case MeshPBRPass:
		return "meshpbr"
	case EdgePass:
		return "edge"
	case OptionalEdgePass:
		return "optionaledge"
	case PickPass:
		return "pick"
	}
	return "invalid"
}

// Flags are the capability axes of a variant.
type Flags struct {
	// Instanced enables the per-instance model matrix and color
	// attributes.
	Instanced bool

	// InstancedColors resolves sentinel colors against the instance
	// color pair instead of the material uniforms. Meaningless
	// without Instanced.
	InstancedColors bool

	// BFCCertified means the winding order is trustworthy, so the
	// fragment path may light using normals. Without it the mesh
	// passes emit the resolved color flat.
	BFCCertified bool
}

// Key identifies one compiled program: a pass plus its capability
// flags. Keys are comparable and used as cache keys.
type Key struct {
	Pass  Pass
	Flags Flags
}

// NewKey validates and normalizes a variant key. InstancedColors
// without Instanced is rejected outright: silently accepting it would
// compile a program that reads attributes the draw never provides.
// Flags that cannot affect the pass (lighting on edge and pick passes)
// are cleared so equivalent requests share one program.
func NewKey(pass Pass, flags Flags) (Key, error) {
	if flags.InstancedColors && !flags.Instanced {
		return Key{}, fmt.Errorf("variant: pass %v: InstancedColors requires Instanced", pass)
	}
	switch pass {
	case EdgePass, OptionalEdgePass, PickPass:
		flags.BFCCertified = false
	}
	if pass == PickPass {
		flags.InstancedColors = false
	}
	return Key{Pass: pass, Flags: flags}, nil
}

func (k Key) String() string {
	s := k.Pass.String()
	if k.Flags.Instanced {
		s += "+instanced"
	}
	if k.Flags.InstancedColors {
		s += "+instancedcolors"
	}
	if k.Flags.BFCCertified {
		s += "+bfc"
	}
	return s
}
