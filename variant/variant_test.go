// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variant

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeProgram struct {
	label    string
	released bool
}

func (fp *fakeProgram) Release() { fp.released = true }

type fakeAssembler struct{}

func (fakeAssembler) Assemble(key Key) (Source, error) {
	return Source{Label: key.String()}, nil
}

type fakeCompiler struct {
	compiles int
	failOn   string
}

func (fc *fakeCompiler) Compile(src Source) (Program, error) {
	if fc.failOn != "" && src.Label == fc.failOn {
		return nil, errors.New("0:12: syntax error")
	}
	fc.compiles++
	return &fakeProgram{label: src.Label}, nil
}

func TestNewKeyRejectsOrphanInstancedColors(t *testing.T) {
	_, err := NewKey(MeshPass, Flags{InstancedColors: true})
	assert.Error(t, err)
}

func TestNewKeyNormalizes(t *testing.T) {
	a, err := NewKey(EdgePass, Flags{BFCCertified: true})
	assert.NoError(t, err)
	b, err := NewKey(EdgePass, Flags{})
	assert.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKey(PickPass, Flags{Instanced: true, InstancedColors: true, BFCCertified: true})
	assert.NoError(t, err)
	d, err := NewKey(PickPass, Flags{Instanced: true})
	assert.NoError(t, err)
	assert.Equal(t, c, d)
}

func TestRegistryMemoizes(t *testing.T) {
	fc := &fakeCompiler{}
	rg := NewRegistry(fakeAssembler{}, fc)

	key, err := NewKey(MeshPass, Flags{Instanced: true, BFCCertified: true})
	assert.NoError(t, err)

	p1, err := rg.GetOrCompile(key)
	assert.NoError(t, err)
	p2, err := rg.GetOrCompile(key)
	assert.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, fc.compiles)
}

func TestRegistryDistinctKeysDistinctPrograms(t *testing.T) {
	fc := &fakeCompiler{}
	rg := NewRegistry(fakeAssembler{}, fc)

	handles := make(map[Program]Key)
	for _, key := range AllKeys() {
		pr, err := rg.GetOrCompile(key)
		assert.NoError(t, err)
		if prev, dup := handles[pr]; dup {
			t.Fatalf("keys %v and %v share a program", prev, key)
		}
		handles[pr] = key
	}
	assert.Equal(t, len(AllKeys()), fc.compiles)
}

func TestRegistryCompileFailureIsFatalForKey(t *testing.T) {
	key, err := NewKey(MeshPass, Flags{BFCCertified: true})
	assert.NoError(t, err)

	fc := &fakeCompiler{failOn: key.String()}
	rg := NewRegistry(fakeAssembler{}, fc)

	_, err = rg.GetOrCompile(key)
	assert.Error(t, err)
	// the error names the flag combination and carries the diagnostic
	assert.Contains(t, err.Error(), "bfc")
	assert.Contains(t, err.Error(), "syntax error")

	// no silent fallback on retry either
	_, err = rg.GetOrCompile(key)
	assert.Error(t, err)
}

func TestAllKeysPrunesMeaninglessCombinations(t *testing.T) {
	for _, key := range AllKeys() {
		assert.False(t, key.Flags.InstancedColors && !key.Flags.Instanced, "key %v", key)
	}
	// mesh passes: 3 flag combos each (plain, inst, inst+clr) x bfc on/off = 6
	// edge passes: plain, inst, inst+clr = 3
	// pick pass: plain, inst = 2
	want := 6 + 6 + 3 + 3 + 2
	assert.Len(t, AllKeys(), want)
}

func TestRegistryRelease(t *testing.T) {
	fc := &fakeCompiler{}
	rg := NewRegistry(fakeAssembler{}, fc)
	key, _ := NewKey(EdgePass, Flags{})
	pr, err := rg.GetOrCompile(key)
	assert.NoError(t, err)
	rg.Release()
	assert.True(t, pr.(*fakeProgram).released)

	// a fresh compile after release
	_, err = rg.GetOrCompile(key)
	assert.NoError(t, err)
	assert.Equal(t, 2, fc.compiles)
}

func ExampleRegistry_GetOrCompile() {
	rg := NewRegistry(fakeAssembler{}, &fakeCompiler{})
	key, _ := NewKey(MeshPass, Flags{Instanced: true})
	_, err := rg.GetOrCompile(key)
	fmt.Println(err)
	// Output: <nil>
}
