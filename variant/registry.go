// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variant

import (
	"fmt"
	"log/slog"
	"sync"
)

// Source is assembled shader code for one variant. The GLSL assembler
// fills VertexCode and FragmentCode; the WGSL assembler fills Module
// with one text containing both entry points.
type Source struct {
	Label string

	// Key is the variant this source was assembled for, set by the
	// registry before compilation. Compilers use it to derive the
	// pipeline state the pass and flags imply.
	Key Key

	// Separate stage sources (GLSL dialects).
	VertexCode   string
	FragmentCode string

	// Single module plus entry point names (WGSL).
	Module        string
	VertexEntry   string
	FragmentEntry string
}

// Assembler produces the source for a variant key in one backend's
// dialect.
type Assembler interface {
	Assemble(key Key) (Source, error)
}

// Compiler turns assembled source into a backend program. Compile and
// link diagnostics must come back in the error text.
type Compiler interface {
	Compile(src Source) (Program, error)
}

// Program is a compiled, bindable program handle owned by a backend.
type Program interface {
	Release()
}

// Registry memoizes compiled programs by variant key. The same key
// always resolves to the same Program for the lifetime of the
// registry. A compile or link failure is fatal for that key and is
// reported with the flag combination and the backend diagnostics;
// no other variant is silently substituted, since that would render
// wrong output without signaling anything.
type Registry struct {
	assembler Assembler
	compiler  Compiler

	mu       sync.Mutex
	programs map[Key]Program
}

// NewRegistry returns a Registry compiling through the given
// assembler/compiler pair.
func NewRegistry(as Assembler, cp Compiler) *Registry {
	return &Registry{
		assembler: as,
		compiler:  cp,
		programs:  make(map[Key]Program),
	}
}

// GetOrCompile returns the cached program for key, assembling and
// compiling it on first request.
func (rg *Registry) GetOrCompile(key Key) (Program, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if pr, ok := rg.programs[key]; ok {
		return pr, nil
	}
	src, err := rg.assembler.Assemble(key)
	if err != nil {
		return nil, fmt.Errorf("variant %v: assemble: %w", key, err)
	}
	src.Key = key
	slog.Debug("variant: compiling", "key", key.String())
	pr, err := rg.compiler.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("variant %v: compile: %w", key, err)
	}
	rg.programs[key] = pr
	return pr, nil
}

// Precompile assembles and compiles all variants in keys, stopping at
// the first failure. Hosts that prefer startup-time failures over
// first-draw hitches call this once after creating the registry.
func (rg *Registry) Precompile(keys []Key) error {
	for _, key := range keys {
		if _, err := rg.GetOrCompile(key); err != nil {
			return err
		}
	}
	return nil
}

// AllKeys returns every valid variant key: each pass crossed with its
// meaningful flag combinations.
func AllKeys() []Key {
	var keys []Key
	seen := make(map[Key]bool)
	for _, pass := range []Pass{MeshPass, MeshPBRPass, EdgePass, OptionalEdgePass, PickPass} {
		for _, inst := range []bool{false, true} {
			for _, instClr := range []bool{false, true} {
				for _, bfc := range []bool{false, true} {
					key, err := NewKey(pass, Flags{Instanced: inst, InstancedColors: instClr, BFCCertified: bfc})
					if err != nil || seen[key] {
						continue
					}
					seen[key] = true
					keys = append(keys, key)
				}
			}
		}
	}
	return keys
}

// Release releases all compiled programs and clears the cache.
func (rg *Registry) Release() {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	for _, pr := range rg.programs {
		pr.Release()
	}
	rg.programs = make(map[Key]Program)
}
