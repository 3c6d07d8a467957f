// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shaders

import (
	"fmt"
	"strings"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/lighting"
	"github.com/goldraw/renderer/variant"
)

// Dialect selects the GLSL flavor the assembler emits.
type Dialect int

const (
	// GLSL100 is GLSL ES 1.00: attribute/varying declarations, loose
	// uniforms, gl_FragColor. Attribute locations are bound by name
	// before linking.
	GLSL100 Dialect = iota

	// GLSL300ES is GLSL ES 3.00: in/out declarations, explicit
	// attribute locations, std140 uniform blocks.
	GLSL300ES

	// GLSL330 is desktop GLSL 3.30 core, otherwise identical to the
	// ES 3.00 output.
	GLSL330
)

func (d Dialect) String() string {
	switch d {
	case GLSL100:
		return "glsl100"
	case GLSL300ES:
		return "glsl300es"
	case GLSL330:
		return "glsl330"
	}
	return "invalid"
}

func (d Dialect) version() string {
	switch d {
	case GLSL100:
		return "#version 100"
	case GLSL300ES:
		return "#version 300 es"
	default:
		return "#version 330 core"
	}
}

func (d Dialect) modern() bool { return d != GLSL100 }

// GLSLAssembler assembles variant sources in one GLSL dialect. The
// capability flags of the key become #define lines prepended to a
// shared body, so all variants of a pass compile from one text.
type GLSLAssembler struct {
	Dialect Dialect
}

func (ga GLSLAssembler) Assemble(key variant.Key) (variant.Source, error) {
	if key.Pass == variant.MeshPBRPass && !ga.Dialect.modern() {
		return variant.Source{}, fmt.Errorf("dialect %v: physically-based pass needs textureLod", ga.Dialect)
	}

	var vert, frag func(*glslWriter, variant.Key)
	switch key.Pass {
	case variant.MeshPass, variant.MeshPBRPass:
		vert, frag = meshVertex, meshFragment
	case variant.EdgePass:
		vert, frag = edgeVertex, flatFragment
	case variant.OptionalEdgePass:
		vert, frag = optionalEdgeVertex, optionalEdgeFragment
	case variant.PickPass:
		vert, frag = pickVertex, flatFragment
	default:
		return variant.Source{}, fmt.Errorf("unknown pass %v", key.Pass)
	}

	src := variant.Source{Label: ga.Dialect.String() + ":" + key.String()}
	src.VertexCode = ga.stage(key, false, vert)
	src.FragmentCode = ga.stage(key, true, frag)
	return src, nil
}

func (ga GLSLAssembler) stage(key variant.Key, fragment bool, body func(*glslWriter, variant.Key)) string {
	w := &glslWriter{dialect: ga.Dialect, fragment: fragment}
	line(&w.b, "%s", ga.Dialect.version())
	if ga.Dialect != GLSL330 && fragment {
		line(&w.b, "precision mediump float;")
	}
	if key.Flags.Instanced {
		line(&w.b, "#define %s", DefInstanced)
	}
	if key.Flags.InstancedColors {
		line(&w.b, "#define %s", DefInstancedColors)
	}
	if key.Flags.BFCCertified {
		line(&w.b, "#define %s", DefBFCCertified)
	}
	body(w, key)
	return w.b.String()
}

// glslWriter carries the dialect differences the stage bodies need.
type glslWriter struct {
	b        strings.Builder
	dialect  Dialect
	fragment bool
}

func (w *glslWriter) attr(loc int, typ, name string) {
	if w.dialect.modern() {
		line(&w.b, "layout(location = %d) in %s %s;", loc, typ, name)
	} else {
		line(&w.b, "attribute %s %s;", typ, name)
	}
}

func (w *glslWriter) vary(typ, name string) {
	if !w.dialect.modern() {
		line(&w.b, "varying %s %s;", typ, name)
	} else if w.fragment {
		line(&w.b, "in %s %s;", typ, name)
	} else {
		line(&w.b, "out %s %s;", typ, name)
	}
}

func (w *glslWriter) fragOut() string {
	if w.dialect.modern() {
		line(&w.b, "out vec4 fragColor;")
		return "fragColor"
	}
	return "gl_FragColor"
}

// projectionUniforms declares the transform uniforms: a std140 block
// in the modern dialects, loose uniforms in ES 1.00. Member order in
// the block matches the packed byte layout.
func (w *glslWriter) projectionUniforms() {
	if w.dialect.modern() {
		line(&w.b, "layout(std140) uniform %s {", binding.NameProjectionBlock)
		line(&w.b, "    mat4 model;")
		line(&w.b, "    mat4 projection;")
		line(&w.b, "    mat4 modelView;")
		line(&w.b, "    mat3 normalMatrix;")
		line(&w.b, "    mat4 viewMatrix;")
		line(&w.b, "    int isOrthographic;")
		line(&w.b, "};")
		return
	}
	line(&w.b, "uniform mat4 projection;")
	line(&w.b, "uniform mat4 modelView;")
	line(&w.b, "uniform mat3 normalMatrix;")
	line(&w.b, "uniform int isOrthographic;")
}

func (w *glslWriter) colorUniforms() {
	if w.dialect.modern() {
		line(&w.b, "layout(std140) uniform %s {", binding.NameMaterialBlock)
		line(&w.b, "    vec4 baseColor;")
		line(&w.b, "    vec4 edgeColor;")
		line(&w.b, "    int useInstancedColor;")
		line(&w.b, "};")
		return
	}
	line(&w.b, "uniform vec4 baseColor;")
	line(&w.b, "uniform vec4 edgeColor;")
}

func (w *glslWriter) pbrUniforms() {
	line(&w.b, "layout(std140) uniform %s {", binding.NameMaterialBlock)
	line(&w.b, "    vec4 albedo;")
	line(&w.b, "    vec4 emissive;")
	line(&w.b, "    float roughness;")
	line(&w.b, "    float metalness;")
	line(&w.b, "};")
}

// lightUniforms declares the light block. The direction member is the
// view-space surface-to-light vector; hosts transform the configured
// world direction before packing.
func (w *glslWriter) lightUniforms() {
	if w.dialect.modern() {
		line(&w.b, "layout(std140) uniform %s {", binding.NameLightBlock)
		line(&w.b, "    vec4 lightColor;")
		line(&w.b, "    vec4 lightDirection;")
		line(&w.b, "};")
		return
	}
	line(&w.b, "uniform vec4 lightColor;")
	line(&w.b, "uniform vec4 lightDirection;")
}

func (w *glslWriter) resolveColorFn() {
	line(&w.b, "vec4 resolveColor(vec3 c, vec4 base, vec4 edge) {")
	line(&w.b, "    if (c.x < -1.0) {")
	line(&w.b, "        return edge;")
	line(&w.b, "    }")
	line(&w.b, "    if (c.x < 0.0) {")
	line(&w.b, "        return base;")
	line(&w.b, "    }")
	line(&w.b, "    return vec4(c, 1.0);")
	line(&w.b, "}")
}

// transformNormalFn emits the per-axis renormalizing normal transform
// used with instance matrices. Written without the transpose builtin
// so ES 1.00 compiles it too.
func (w *glslWriter) transformNormalFn() {
	line(&w.b, "vec3 transformNormal(mat4 m, vec3 n) {")
	line(&w.b, "    vec3 t = mat3(m) * n;")
	line(&w.b, "    vec3 r0 = vec3(m[0].x, m[1].x, m[2].x);")
	line(&w.b, "    vec3 r1 = vec3(m[0].y, m[1].y, m[2].y);")
	line(&w.b, "    vec3 r2 = vec3(m[0].z, m[1].z, m[2].z);")
	line(&w.b, "    vec3 sq = vec3(dot(r0, r0), dot(r1, r1), dot(r2, r2));")
	line(&w.b, "    if (sq.x > 0.0) { t.x /= sq.x; }")
	line(&w.b, "    if (sq.y > 0.0) { t.y /= sq.y; }")
	line(&w.b, "    if (sq.z > 0.0) { t.z /= sq.z; }")
	line(&w.b, "    return dot(t, t) > 0.0 ? normalize(t) : n;")
	line(&w.b, "}")
}

func (w *glslWriter) instanceModelAttrs() {
	line(&w.b, "#ifdef %s", DefInstanced)
	w.attr(binding.InstanceModel0Loc, "vec4", binding.NameInstanceModel+"0")
	w.attr(binding.InstanceModel1Loc, "vec4", binding.NameInstanceModel+"1")
	w.attr(binding.InstanceModel2Loc, "vec4", binding.NameInstanceModel+"2")
	w.attr(binding.InstanceModel3Loc, "vec4", binding.NameInstanceModel+"3")
	line(&w.b, "#ifdef %s", DefInstancedColors)
	w.attr(binding.InstanceColorLoc, "vec4", binding.NameInstanceColor)
	w.attr(binding.InstanceEdgeColorLoc, "vec4", binding.NameInstanceEdgeColor)
	line(&w.b, "#endif")
	line(&w.b, "#endif")
}

// instanceModelView emits the statements computing the model-view
// matrix, honoring the instance matrix when present, into a local
// called mv.
func (w *glslWriter) instanceModelView() {
	line(&w.b, "#ifdef %s", DefInstanced)
	line(&w.b, "    mat4 inst = mat4(%s0, %s1, %s2, %s3);",
		binding.NameInstanceModel, binding.NameInstanceModel,
		binding.NameInstanceModel, binding.NameInstanceModel)
	line(&w.b, "    mat4 mv = modelView * inst;")
	line(&w.b, "#else")
	line(&w.b, "    mat4 mv = modelView;")
	line(&w.b, "#endif")
}

func meshVertex(w *glslWriter, key variant.Key) {
	pbr := key.Pass == variant.MeshPBRPass
	w.projectionUniforms()
	if pbr {
		w.pbrUniforms()
	} else {
		w.colorUniforms()
	}
	w.attr(binding.PositionLoc, "vec3", binding.NamePosition)
	w.attr(binding.NormalLoc, "vec3", binding.NameNormal)
	w.instanceModelAttrs()
	w.vary("vec3", "vViewPosition")
	w.vary("vec3", "vNormal")
	w.vary("vec4", "vColor")
	w.resolveColorFn()
	w.transformNormalFn()
	line(&w.b, "void main() {")
	w.instanceModelView()
	line(&w.b, "    vec4 viewPos = mv * vec4(%s, 1.0);", binding.NamePosition)
	line(&w.b, "#ifdef %s", DefInstanced)
	line(&w.b, "    vNormal = transformNormal(mv, %s);", binding.NameNormal)
	line(&w.b, "#else")
	line(&w.b, "    vNormal = normalize(normalMatrix * %s);", binding.NameNormal)
	line(&w.b, "#endif")
	line(&w.b, "    vViewPosition = -viewPos.xyz;")
	base := "baseColor"
	edge := "edgeColor"
	if pbr {
		base, edge = "albedo", "albedo"
	}
	line(&w.b, "#ifdef %s", DefInstancedColors)
	line(&w.b, "    vColor = resolveColor(%s.xyz, %s, %s);", binding.NameInstanceColor, base, edge)
	line(&w.b, "#else")
	line(&w.b, "    vColor = %s;", base)
	line(&w.b, "#endif")
	line(&w.b, "    gl_Position = projection * viewPos;")
	line(&w.b, "}")
}

func meshFragment(w *glslWriter, key variant.Key) {
	pbr := key.Pass == variant.MeshPBRPass
	w.projectionUniforms()
	if pbr {
		w.pbrUniforms()
		line(&w.b, "uniform samplerCube %s;", binding.NameEnvMap)
	}
	w.lightUniforms()
	w.vary("vec3", "vViewPosition")
	w.vary("vec3", "vNormal")
	w.vary("vec4", "vColor")
	out := w.fragOut()

	line(&w.b, "#ifdef %s", DefBFCCertified)
	if pbr {
		pbrFunctions(w)
	}
	line(&w.b, "void main() {")
	line(&w.b, "    vec3 n = normalize(vNormal);")
	line(&w.b, "    vec3 viewDir = isOrthographic != 0 ? vec3(0.0, 0.0, 1.0) : normalize(vViewPosition);")
	line(&w.b, "    vec3 l = lightDirection.xyz;")
	if pbr {
		pbrMain(w, out)
	} else {
		blinnPhongMain(w, out)
	}
	line(&w.b, "}")
	line(&w.b, "#else")
	line(&w.b, "void main() {")
	line(&w.b, "    %s = vColor;", out)
	line(&w.b, "}")
	line(&w.b, "#endif")
}

func blinnPhongMain(w *glslWriter, out string) {
	line(&w.b, "    float nl = clamp(dot(n, l), 0.0, 1.0);")
	line(&w.b, "    vec3 h = normalize(l + viewDir);")
	line(&w.b, "    float nh = clamp(dot(n, h), 0.0, 1.0);")
	line(&w.b, "    vec3 diffuse = lightColor.rgb * nl;")
	line(&w.b, "    vec3 specular = lightColor.rgb * (%s * pow(nh, %s));",
		floatLit(lighting.SpecularStrength), floatLit(lighting.Shininess))
	line(&w.b, "    vec3 lit = vColor.rgb * (vec3(%s) + diffuse) + specular;",
		floatLit(lighting.AmbientStrength))
	line(&w.b, "    %s = vec4(pow(lit, vec3(1.0 / %s)), vColor.a);", out, floatLit(lighting.Gamma))
}

func pbrFunctions(w *glslWriter) {
	line(&w.b, "float distributionGGX(float nh, float rough) {")
	line(&w.b, "    float a = rough * rough;")
	line(&w.b, "    float a2 = a * a;")
	line(&w.b, "    float d = nh * nh * (a2 - 1.0) + 1.0;")
	line(&w.b, "    return a2 / (%s * d * d);", floatLit(3.1415927))
	line(&w.b, "}")
	line(&w.b, "float visibilitySmith(float nl, float nv, float rough) {")
	line(&w.b, "    float a = rough * rough;")
	line(&w.b, "    float a2 = a * a;")
	line(&w.b, "    float gv = nl * sqrt(nv * nv * (1.0 - a2) + a2);")
	line(&w.b, "    float gl = nv * sqrt(nl * nl * (1.0 - a2) + a2);")
	line(&w.b, "    float d = gv + gl;")
	line(&w.b, "    return d > 0.0 ? 0.5 / d : 0.0;")
	line(&w.b, "}")
	line(&w.b, "vec3 fresnelSchlick(vec3 f0, float vh) {")
	line(&w.b, "    return f0 + (vec3(1.0) - f0) * pow(1.0 - vh, 5.0);")
	line(&w.b, "}")
	line(&w.b, "vec2 envDFG(float nv, float rough) {")
	line(&w.b, "    vec4 r = rough * vec4(-1.0, -0.0275, -0.572, 0.022) + vec4(1.0, 0.0425, 1.04, -0.04);")
	line(&w.b, "    float a004 = min(r.x * r.x, exp2(-9.28 * nv)) * r.x + r.y;")
	line(&w.b, "    return vec2(a004 * -1.04 + r.z, a004 * 1.04 + r.w);")
	line(&w.b, "}")
	line(&w.b, "float roughnessToMip(float rough) {")
	line(&w.b, "    if (rough >= %s) {", floatLit(lighting.MipRough1))
	line(&w.b, "        return (%s - rough) * %s / %s + %s;",
		floatLit(lighting.MipRough0),
		floatLit(lighting.MipLevel1-lighting.MipLevel0),
		floatLit(lighting.MipRough0-lighting.MipRough1),
		floatLit(lighting.MipLevel0))
	line(&w.b, "    }")
	line(&w.b, "    if (rough >= %s) {", floatLit(lighting.MipRough2))
	line(&w.b, "        return (%s - rough) * %s / %s + %s;",
		floatLit(lighting.MipRough1),
		floatLit(lighting.MipLevel2-lighting.MipLevel1),
		floatLit(lighting.MipRough1-lighting.MipRough2),
		floatLit(lighting.MipLevel1))
	line(&w.b, "    }")
	line(&w.b, "    if (rough >= %s) {", floatLit(lighting.MipRough3))
	line(&w.b, "        return (%s - rough) * %s / %s + %s;",
		floatLit(lighting.MipRough2),
		floatLit(lighting.MipLevel3-lighting.MipLevel2),
		floatLit(lighting.MipRough2-lighting.MipRough3),
		floatLit(lighting.MipLevel2))
	line(&w.b, "    }")
	line(&w.b, "    if (rough >= %s) {", floatLit(lighting.MipRough4))
	line(&w.b, "        return (%s - rough) * %s / %s + %s;",
		floatLit(lighting.MipRough3),
		floatLit(lighting.MipLevel4-lighting.MipLevel3),
		floatLit(lighting.MipRough3-lighting.MipRough4),
		floatLit(lighting.MipLevel3))
	line(&w.b, "    }")
	line(&w.b, "    return -2.0 * log2(%s * rough);", floatLit(lighting.LowMipBias))
	line(&w.b, "}")
}

func pbrMain(w *glslWriter, out string) {
	line(&w.b, "    float nv = clamp(dot(n, viewDir), 0.0, 1.0);")
	line(&w.b, "    vec3 f0 = mix(vec3(%s), vColor.rgb, metalness);", floatLit(lighting.DielectricF0))
	line(&w.b, "    float nl = clamp(dot(n, l), 0.0, 1.0);")
	line(&w.b, "    vec3 h = normalize(l + viewDir);")
	line(&w.b, "    float nh = clamp(dot(n, h), 0.0, 1.0);")
	line(&w.b, "    float vh = clamp(dot(viewDir, h), 0.0, 1.0);")
	line(&w.b, "    vec3 direct = vec3(0.0);")
	line(&w.b, "    if (nl > 0.0) {")
	line(&w.b, "        vec3 spec = fresnelSchlick(f0, vh) * (distributionGGX(nh, roughness) * visibilitySmith(nl, nv, roughness) * nl);")
	line(&w.b, "        vec3 diff = vColor.rgb * (nl * (1.0 - metalness) / %s);", floatLit(3.1415927))
	line(&w.b, "        direct = lightColor.rgb * (diff + spec);")
	line(&w.b, "    }")
	line(&w.b, "    vec3 irradiance = textureLod(%s, n, %s).rgb;", binding.NameEnvMap, floatLit(lighting.IrradianceMip))
	line(&w.b, "    vec3 indirectDiff = irradiance * vColor.rgb * (1.0 - metalness);")
	line(&w.b, "    vec3 radiance = textureLod(%s, reflect(-viewDir, n), roughnessToMip(roughness)).rgb;", binding.NameEnvMap)
	line(&w.b, "    vec2 dfg = envDFG(nv, roughness);")
	line(&w.b, "    float ess = dfg.x + dfg.y;")
	line(&w.b, "    vec3 energy = ess > 0.0 ? vec3(1.0) + f0 * ((1.0 - ess) / ess) : vec3(1.0);")
	line(&w.b, "    vec3 indirectSpec = radiance * (f0 * dfg.x + vec3(dfg.y)) * energy;")
	line(&w.b, "    vec3 lit = direct + indirectDiff + indirectSpec + emissive.rgb;")
	line(&w.b, "    %s = vec4(pow(lit, vec3(1.0 / %s)), vColor.a);", out, floatLit(lighting.Gamma))
}

func edgeVertex(w *glslWriter, key variant.Key) {
	w.projectionUniforms()
	w.colorUniforms()
	w.attr(binding.PositionLoc, "vec3", binding.NamePosition)
	w.attr(binding.EdgeColorLoc, "vec3", binding.NameColor)
	w.instanceModelAttrs()
	w.vary("vec4", "vColor")
	w.resolveColorFn()
	line(&w.b, "void main() {")
	w.instanceModelView()
	resolveEdgeColor(w)
	line(&w.b, "    gl_Position = projection * mv * vec4(%s, 1.0);", binding.NamePosition)
	line(&w.b, "}")
}

// resolveEdgeColor resolves the sentinel vertex color against the
// instance pair when instanced colors are on, the material pair
// otherwise.
func resolveEdgeColor(w *glslWriter) {
	line(&w.b, "#ifdef %s", DefInstancedColors)
	line(&w.b, "    vColor = resolveColor(%s, %s, %s);",
		binding.NameColor, binding.NameInstanceColor, binding.NameInstanceEdgeColor)
	line(&w.b, "#else")
	line(&w.b, "    vColor = resolveColor(%s, baseColor, edgeColor);", binding.NameColor)
	line(&w.b, "#endif")
}

func optionalEdgeVertex(w *glslWriter, key variant.Key) {
	w.projectionUniforms()
	w.colorUniforms()
	w.attr(binding.PositionLoc, "vec3", binding.NamePosition)
	w.attr(binding.Control1Loc, "vec3", binding.NameControl1)
	w.attr(binding.Control2Loc, "vec3", binding.NameControl2)
	w.attr(binding.DirectionLoc, "vec3", binding.NameDirection)
	w.attr(binding.OptColorLoc, "vec3", binding.NameColor)
	w.instanceModelAttrs()
	w.vary("vec4", "vColor")
	w.vary("float", "vDiscard")
	w.resolveColorFn()
	line(&w.b, "void main() {")
	w.instanceModelView()
	line(&w.b, "    mat4 mvp = projection * mv;")
	line(&w.b, "    vec4 p1 = mvp * vec4(%s, 1.0);", binding.NamePosition)
	line(&w.b, "    vec4 p2 = mvp * vec4(%s + %s, 1.0);", binding.NamePosition, binding.NameDirection)
	line(&w.b, "    vec4 c1 = mvp * vec4(%s, 1.0);", binding.NameControl1)
	line(&w.b, "    vec4 c2 = mvp * vec4(%s, 1.0);", binding.NameControl2)
	line(&w.b, "    vec2 s2 = p2.xy / p2.w;")
	line(&w.b, "    vec2 dir = s2 - p1.xy / p1.w;")
	line(&w.b, "    vec2 d1 = c1.xy / c1.w - s2;")
	line(&w.b, "    vec2 d2 = c2.xy / c2.w - s2;")
	line(&w.b, "    vDiscard = 0.0;")
	line(&w.b, "    if (dot(dir, dir) > 0.0 && dot(d1, d1) > 0.0 && dot(d2, d2) > 0.0) {")
	line(&w.b, "        vec2 nrm = normalize(vec2(-dir.y, dir.x));")
	line(&w.b, "        if (dot(nrm, normalize(d1)) * dot(nrm, normalize(d2)) < 0.0) {")
	line(&w.b, "            vDiscard = 1.0;")
	line(&w.b, "        }")
	line(&w.b, "    }")
	resolveEdgeColor(w)
	line(&w.b, "    gl_Position = p1;")
	line(&w.b, "}")
}

func optionalEdgeFragment(w *glslWriter, key variant.Key) {
	w.vary("vec4", "vColor")
	w.vary("float", "vDiscard")
	out := w.fragOut()
	line(&w.b, "void main() {")
	line(&w.b, "    if (vDiscard > 0.5) {")
	line(&w.b, "        discard;")
	line(&w.b, "    }")
	line(&w.b, "    %s = vColor;", out)
	line(&w.b, "}")
}

// pickVertex outputs the instance identifier as a color. The id
// attribute arrives as four normalized bytes in memory order, least
// significant first; the swizzle restores the most-significant-first
// channel order the readback decoder expects. Non-instanced pick draws
// take the encoded id from the material base color.
func pickVertex(w *glslWriter, key variant.Key) {
	w.projectionUniforms()
	w.colorUniforms()
	w.attr(binding.PositionLoc, "vec3", binding.NamePosition)
	line(&w.b, "#ifdef %s", DefInstanced)
	w.attr(binding.InstanceModel0Loc, "vec4", binding.NameInstanceModel+"0")
	w.attr(binding.InstanceModel1Loc, "vec4", binding.NameInstanceModel+"1")
	w.attr(binding.InstanceModel2Loc, "vec4", binding.NameInstanceModel+"2")
	w.attr(binding.InstanceModel3Loc, "vec4", binding.NameInstanceModel+"3")
	w.attr(binding.InstancePickIDLoc, "vec4", binding.NameInstancePickID)
	line(&w.b, "#endif")
	w.vary("vec4", "vColor")
	line(&w.b, "void main() {")
	w.instanceModelView()
	line(&w.b, "#ifdef %s", DefInstanced)
	line(&w.b, "    vColor = %s.wzyx;", binding.NameInstancePickID)
	line(&w.b, "#else")
	line(&w.b, "    vColor = baseColor;")
	line(&w.b, "#endif")
	line(&w.b, "    gl_Position = projection * mv * vec4(%s, 1.0);", binding.NamePosition)
	line(&w.b, "}")
}

func flatFragment(w *glslWriter, key variant.Key) {
	w.vary("vec4", "vColor")
	out := w.fragOut()
	line(&w.b, "void main() {")
	line(&w.b, "    %s = vColor;", out)
	line(&w.b, "}")
}
