// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/shaders"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

// Uniform buffer binding points, one per block. The modern dialects
// bind their std140 blocks here; the legacy dialect has no blocks and
// uploads loose uniforms instead.
const (
	ProjectionPoint = 0
	MaterialPoint   = 1
	LightPoint      = 2
)

// Program is one linked variant program. For the legacy dialect it
// also carries the loose uniform locations looked up after linking.
type Program struct {
	Key    variant.Key
	handle uint32
	legacy bool
	unis   map[string]int32
}

// Handle returns the GL program name.
func (pr *Program) Handle() uint32 { return pr.handle }

// Use makes this the active program.
func (pr *Program) Use() { gl.UseProgram(pr.handle) }

// Release deletes the program object.
func (pr *Program) Release() {
	if pr.handle != 0 {
		gl.DeleteProgram(pr.handle)
		pr.handle = 0
	}
}

// uniform returns the location of a loose uniform, or -1 when the
// compiler eliminated it.
func (pr *Program) uniform(name string) int32 {
	if loc, ok := pr.unis[name]; ok {
		return loc
	}
	return -1
}

// Compiler compiles assembled GLSL sources into linked programs. The
// dialect must match the one the assembler was built with; NewRenderer
// pairs them.
type Compiler struct {
	Dialect shaders.Dialect
}

// legacyUniforms are the loose uniform names the legacy dialect
// declares across all passes. Absent ones are simply not found.
var legacyUniforms = []string{
	"projection", "modelView", "normalMatrix", "isOrthographic",
	"baseColor", "edgeColor",
	"lightColor", "lightDirection",
}

// Compile implements [variant.Compiler]. Compile and link diagnostics
// come back verbatim in the error.
func (cp *Compiler) Compile(src variant.Source) (variant.Program, error) {
	vs, err := compileStage(gl.VERTEX_SHADER, src.VertexCode)
	if err != nil {
		return nil, fmt.Errorf("%s: vertex: %w", src.Label, err)
	}
	fs, err := compileStage(gl.FRAGMENT_SHADER, src.FragmentCode)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, fmt.Errorf("%s: fragment: %w", src.Label, err)
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)

	// attribute locations are fixed before linking so buffer setup
	// never depends on what the linker chose
	for _, at := range attributesFor(src.Key) {
		gl.BindAttribLocation(handle, at.Location, gl.Str(at.Name+"\x00"))
	}
	modern := cp.Dialect != shaders.GLSL100
	if modern {
		gl.BindFragDataLocation(handle, 0, gl.Str("fragColor\x00"))
	}

	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		lg := programLog(handle)
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("%s: link: %s", src.Label, lg)
	}

	pr := &Program{Key: src.Key, handle: handle, legacy: !modern}
	if modern {
		bindBlock(handle, binding.NameProjectionBlock, ProjectionPoint)
		bindBlock(handle, binding.NameMaterialBlock, MaterialPoint)
		bindBlock(handle, binding.NameLightBlock, LightPoint)
		if loc := gl.GetUniformLocation(handle, gl.Str(binding.NameEnvMap+"\x00")); loc >= 0 {
			gl.UseProgram(handle)
			gl.Uniform1i(loc, 0)
		}
	} else {
		pr.unis = make(map[string]int32, len(legacyUniforms))
		for _, name := range legacyUniforms {
			loc := gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
			if loc >= 0 {
				pr.unis[name] = loc
			}
		}
	}
	slog.Debug("glrender: program linked", "variant", src.Key.String(), "dialect", cp.Dialect.String())
	return pr, nil
}

func compileStage(typ uint32, src string) (uint32, error) {
	handle := gl.CreateShader(typ)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &n)
		lg := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(handle, n, nil, gl.Str(lg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("%s", strings.TrimRight(lg, "\x00"))
	}
	return handle, nil
}

func programLog(handle uint32) string {
	var n int32
	gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &n)
	lg := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(handle, n, nil, gl.Str(lg))
	return strings.TrimRight(lg, "\x00")
}

func bindBlock(handle uint32, name string, point uint32) {
	idx := gl.GetUniformBlockIndex(handle, gl.Str(name+"\x00"))
	if idx != gl.INVALID_INDEX {
		gl.UniformBlockBinding(handle, idx, point)
	}
}

// kindFor maps a pass to its geometry kind.
func kindFor(pass variant.Pass) vertex.Kind {
	switch pass {
	case variant.EdgePass:
		return vertex.EdgeKind
	case variant.OptionalEdgePass:
		return vertex.OptionalEdgeKind
	case variant.PickPass:
		return vertex.PickKind
	default:
		return vertex.MeshKind
	}
}

// attributesFor returns every attribute slot the variant declares:
// the per-vertex slots of its geometry kind plus, when instanced, the
// per-instance slots.
func attributesFor(key variant.Key) []vertex.Attribute {
	attrs := kindFor(key.Pass).Attributes()
	if !key.Flags.Instanced {
		return attrs
	}
	attrs = attrs[:len(attrs):len(attrs)]
	if key.Pass == variant.PickPass {
		return append(attrs, vertex.PickInstanceAttributes()...)
	}
	inst := vertex.InstanceAttributes()
	if !key.Flags.InstancedColors {
		inst = inst[:4]
	}
	return append(attrs, inst...)
}
