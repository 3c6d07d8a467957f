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

// WGSLAssembler assembles variant sources in WGSL. WGSL has no
// preprocessor, so every key yields its own module text with distinct
// entry points; shared pieces are emitted by the same Go code rather
// than shared at the source level.
type WGSLAssembler struct{}

func (wa WGSLAssembler) Assemble(key variant.Key) (variant.Source, error) {
	w := &wgslWriter{key: key}
	switch key.Pass {
	case variant.MeshPass, variant.MeshPBRPass:
		w.meshModule()
	case variant.EdgePass:
		w.edgeModule(false)
	case variant.OptionalEdgePass:
		w.edgeModule(true)
	case variant.PickPass:
		w.pickModule()
	default:
		return variant.Source{}, fmt.Errorf("unknown pass %v", key.Pass)
	}
	return variant.Source{
		Label:         "wgsl:" + key.String(),
		Module:        w.b.String(),
		VertexEntry:   entryName("vs", key),
		FragmentEntry: entryName("fs", key),
	}, nil
}

type wgslWriter struct {
	b   strings.Builder
	key variant.Key
}

func (w *wgslWriter) projectionStruct() {
	line(&w.b, "struct Projection {")
	line(&w.b, "    model: mat4x4<f32>,")
	line(&w.b, "    projection: mat4x4<f32>,")
	line(&w.b, "    modelView: mat4x4<f32>,")
	line(&w.b, "    normalMatrix: mat3x3<f32>,")
	line(&w.b, "    viewMatrix: mat4x4<f32>,")
	line(&w.b, "    isOrthographic: i32,")
	line(&w.b, "}")
	line(&w.b, "@group(%d) @binding(%d) var<uniform> proj: Projection;",
		binding.ProjectionGroup, binding.ProjectionBinding)
}

func (w *wgslWriter) colorStruct() {
	line(&w.b, "struct Material {")
	line(&w.b, "    color: vec4<f32>,")
	line(&w.b, "    edgeColor: vec4<f32>,")
	line(&w.b, "    useInstancedColor: i32,")
	line(&w.b, "}")
	line(&w.b, "@group(%d) @binding(%d) var<uniform> material: Material;",
		binding.MaterialGroup, binding.MaterialBinding)
}

func (w *wgslWriter) pbrStruct() {
	line(&w.b, "struct Material {")
	line(&w.b, "    albedo: vec4<f32>,")
	line(&w.b, "    emissive: vec4<f32>,")
	line(&w.b, "    roughness: f32,")
	line(&w.b, "    metalness: f32,")
	line(&w.b, "}")
	line(&w.b, "@group(%d) @binding(%d) var<uniform> material: Material;",
		binding.MaterialGroup, binding.MaterialBinding)
}

// lightStruct declares the light block; direction is the view-space
// surface-to-light vector packed by the host.
func (w *wgslWriter) lightStruct() {
	line(&w.b, "struct Light {")
	line(&w.b, "    color: vec4<f32>,")
	line(&w.b, "    direction: vec4<f32>,")
	line(&w.b, "}")
	line(&w.b, "@group(%d) @binding(%d) var<uniform> light: Light;",
		binding.MaterialGroup, binding.LightBinding)
}

func (w *wgslWriter) envBindings() {
	line(&w.b, "@group(%d) @binding(%d) var envMap: texture_cube<f32>;",
		binding.MaterialGroup, binding.EnvMapBinding)
	line(&w.b, "@group(%d) @binding(%d) var envSampler: sampler;",
		binding.MaterialGroup, binding.EnvSamplerBinding)
}

func (w *wgslWriter) resolveColorFn() {
	line(&w.b, "fn resolveColor(c: vec3<f32>, base: vec4<f32>, edge: vec4<f32>) -> vec4<f32> {")
	line(&w.b, "    if (c.x < -1.0) {")
	line(&w.b, "        return edge;")
	line(&w.b, "    }")
	line(&w.b, "    if (c.x < 0.0) {")
	line(&w.b, "        return base;")
	line(&w.b, "    }")
	line(&w.b, "    return vec4<f32>(c, 1.0);")
	line(&w.b, "}")
}

func (w *wgslWriter) transformNormalFn() {
	line(&w.b, "fn transformNormal(m: mat4x4<f32>, n: vec3<f32>) -> vec3<f32> {")
	line(&w.b, "    var t = mat3x3<f32>(m[0].xyz, m[1].xyz, m[2].xyz) * n;")
	line(&w.b, "    let r0 = vec3<f32>(m[0].x, m[1].x, m[2].x);")
	line(&w.b, "    let r1 = vec3<f32>(m[0].y, m[1].y, m[2].y);")
	line(&w.b, "    let r2 = vec3<f32>(m[0].z, m[1].z, m[2].z);")
	line(&w.b, "    let sq = vec3<f32>(dot(r0, r0), dot(r1, r1), dot(r2, r2));")
	line(&w.b, "    if (sq.x > 0.0) { t.x = t.x / sq.x; }")
	line(&w.b, "    if (sq.y > 0.0) { t.y = t.y / sq.y; }")
	line(&w.b, "    if (sq.z > 0.0) { t.z = t.z / sq.z; }")
	line(&w.b, "    if (dot(t, t) == 0.0) {")
	line(&w.b, "        return n;")
	line(&w.b, "    }")
	line(&w.b, "    return normalize(t);")
	line(&w.b, "}")
}

// vertexInput declares the VertexIn struct: the per-vertex attributes
// of the pass plus, when instanced, the instance matrix columns and
// optionally the instance color pair.
func (w *wgslWriter) vertexInput(attrs [][3]string, pickID bool) {
	line(&w.b, "struct VertexIn {")
	for _, a := range attrs {
		line(&w.b, "    @location(%s) %s: %s,", a[0], a[1], a[2])
	}
	if w.key.Flags.Instanced {
		line(&w.b, "    @location(%d) %s0: vec4<f32>,", binding.InstanceModel0Loc, binding.NameInstanceModel)
		line(&w.b, "    @location(%d) %s1: vec4<f32>,", binding.InstanceModel1Loc, binding.NameInstanceModel)
		line(&w.b, "    @location(%d) %s2: vec4<f32>,", binding.InstanceModel2Loc, binding.NameInstanceModel)
		line(&w.b, "    @location(%d) %s3: vec4<f32>,", binding.InstanceModel3Loc, binding.NameInstanceModel)
	}
	if w.key.Flags.InstancedColors {
		line(&w.b, "    @location(%d) %s: vec4<f32>,", binding.InstanceColorLoc, binding.NameInstanceColor)
		line(&w.b, "    @location(%d) %s: vec4<f32>,", binding.InstanceEdgeColorLoc, binding.NameInstanceEdgeColor)
	}
	if pickID && w.key.Flags.Instanced {
		line(&w.b, "    @location(%d) %s: vec4<f32>,", binding.InstancePickIDLoc, binding.NameInstancePickID)
	}
	line(&w.b, "}")
}

// modelView emits the statement computing the model-view matrix into
// mv, honoring the instance matrix when present.
func (w *wgslWriter) modelView() {
	if w.key.Flags.Instanced {
		line(&w.b, "    let inst = mat4x4<f32>(in.%s0, in.%s1, in.%s2, in.%s3);",
			binding.NameInstanceModel, binding.NameInstanceModel,
			binding.NameInstanceModel, binding.NameInstanceModel)
		line(&w.b, "    let mv = proj.modelView * inst;")
	} else {
		line(&w.b, "    let mv = proj.modelView;")
	}
}

func attr(loc int, name, typ string) [3]string {
	return [3]string{fmt.Sprint(loc), name, typ}
}

func (w *wgslWriter) meshModule() {
	pbr := w.key.Pass == variant.MeshPBRPass
	lit := w.key.Flags.BFCCertified

	w.projectionStruct()
	if pbr {
		w.pbrStruct()
	} else {
		w.colorStruct()
	}
	if lit {
		w.lightStruct()
	}
	if pbr && lit {
		w.envBindings()
	}
	w.vertexInput([][3]string{
		attr(binding.PositionLoc, binding.NamePosition, "vec3<f32>"),
		attr(binding.NormalLoc, binding.NameNormal, "vec3<f32>"),
	}, false)
	line(&w.b, "struct VertexOut {")
	line(&w.b, "    @builtin(position) position: vec4<f32>,")
	line(&w.b, "    @location(0) viewPosition: vec3<f32>,")
	line(&w.b, "    @location(1) normal: vec3<f32>,")
	line(&w.b, "    @location(2) color: vec4<f32>,")
	line(&w.b, "}")
	w.resolveColorFn()
	if w.key.Flags.Instanced {
		w.transformNormalFn()
	}

	base := "material.color"
	edge := "material.edgeColor"
	if pbr {
		base, edge = "material.albedo", "material.albedo"
	}
	line(&w.b, "@vertex")
	line(&w.b, "fn %s(in: VertexIn) -> VertexOut {", entryName("vs", w.key))
	w.modelView()
	line(&w.b, "    let viewPos = mv * vec4<f32>(in.%s, 1.0);", binding.NamePosition)
	line(&w.b, "    var out: VertexOut;")
	if w.key.Flags.Instanced {
		line(&w.b, "    out.normal = transformNormal(mv, in.%s);", binding.NameNormal)
	} else {
		line(&w.b, "    out.normal = normalize(proj.normalMatrix * in.%s);", binding.NameNormal)
	}
	line(&w.b, "    out.viewPosition = -viewPos.xyz;")
	if w.key.Flags.InstancedColors {
		line(&w.b, "    out.color = resolveColor(in.%s.xyz, %s, %s);", binding.NameInstanceColor, base, edge)
	} else {
		line(&w.b, "    out.color = %s;", base)
	}
	line(&w.b, "    out.position = proj.projection * viewPos;")
	line(&w.b, "    return out;")
	line(&w.b, "}")

	if lit && pbr {
		w.pbrFns()
	}
	line(&w.b, "@fragment")
	line(&w.b, "fn %s(in: VertexOut) -> @location(0) vec4<f32> {", entryName("fs", w.key))
	if !lit {
		line(&w.b, "    return in.color;")
		line(&w.b, "}")
		return
	}
	line(&w.b, "    let n = normalize(in.normal);")
	line(&w.b, "    let viewDir = select(normalize(in.viewPosition), vec3<f32>(0.0, 0.0, 1.0), proj.isOrthographic != 0);")
	line(&w.b, "    let l = light.direction.xyz;")
	if pbr {
		w.pbrMain()
	} else {
		w.blinnPhongMain()
	}
	line(&w.b, "}")
}

func (w *wgslWriter) blinnPhongMain() {
	line(&w.b, "    let nl = clamp(dot(n, l), 0.0, 1.0);")
	line(&w.b, "    let h = normalize(l + viewDir);")
	line(&w.b, "    let nh = clamp(dot(n, h), 0.0, 1.0);")
	line(&w.b, "    let diffuse = light.color.rgb * nl;")
	line(&w.b, "    let specular = light.color.rgb * (%s * pow(nh, %s));",
		floatLit(lighting.SpecularStrength), floatLit(lighting.Shininess))
	line(&w.b, "    let lit = in.color.rgb * (vec3<f32>(%s) + diffuse) + specular;",
		floatLit(lighting.AmbientStrength))
	line(&w.b, "    return vec4<f32>(pow(lit, vec3<f32>(1.0 / %s)), in.color.a);", floatLit(lighting.Gamma))
}

func (w *wgslWriter) pbrFns() {
	line(&w.b, "fn distributionGGX(nh: f32, rough: f32) -> f32 {")
	line(&w.b, "    let a = rough * rough;")
	line(&w.b, "    let a2 = a * a;")
	line(&w.b, "    let d = nh * nh * (a2 - 1.0) + 1.0;")
	line(&w.b, "    return a2 / (%s * d * d);", floatLit(3.1415927))
	line(&w.b, "}")
	line(&w.b, "fn visibilitySmith(nl: f32, nv: f32, rough: f32) -> f32 {")
	line(&w.b, "    let a = rough * rough;")
	line(&w.b, "    let a2 = a * a;")
	line(&w.b, "    let gv = nl * sqrt(nv * nv * (1.0 - a2) + a2);")
	line(&w.b, "    let gl = nv * sqrt(nl * nl * (1.0 - a2) + a2);")
	line(&w.b, "    let d = gv + gl;")
	line(&w.b, "    if (d <= 0.0) {")
	line(&w.b, "        return 0.0;")
	line(&w.b, "    }")
	line(&w.b, "    return 0.5 / d;")
	line(&w.b, "}")
	line(&w.b, "fn fresnelSchlick(f0: vec3<f32>, vh: f32) -> vec3<f32> {")
	line(&w.b, "    return f0 + (vec3<f32>(1.0) - f0) * pow(1.0 - vh, 5.0);")
	line(&w.b, "}")
	line(&w.b, "fn envDFG(nv: f32, rough: f32) -> vec2<f32> {")
	line(&w.b, "    let r = rough * vec4<f32>(-1.0, -0.0275, -0.572, 0.022) + vec4<f32>(1.0, 0.0425, 1.04, -0.04);")
	line(&w.b, "    let a004 = min(r.x * r.x, exp2(-9.28 * nv)) * r.x + r.y;")
	line(&w.b, "    return vec2<f32>(a004 * -1.04 + r.z, a004 * 1.04 + r.w);")
	line(&w.b, "}")
	line(&w.b, "fn roughnessToMip(rough: f32) -> f32 {")
	mipCase := func(hi, lo, hiMip, loMip float32) {
		line(&w.b, "    if (rough >= %s) {", floatLit(lo))
		line(&w.b, "        return (%s - rough) * %s / %s + %s;",
			floatLit(hi), floatLit(loMip-hiMip), floatLit(hi-lo), floatLit(hiMip))
		line(&w.b, "    }")
	}
	mipCase(lighting.MipRough0, lighting.MipRough1, lighting.MipLevel0, lighting.MipLevel1)
	mipCase(lighting.MipRough1, lighting.MipRough2, lighting.MipLevel1, lighting.MipLevel2)
	mipCase(lighting.MipRough2, lighting.MipRough3, lighting.MipLevel2, lighting.MipLevel3)
	mipCase(lighting.MipRough3, lighting.MipRough4, lighting.MipLevel3, lighting.MipLevel4)
	line(&w.b, "    return -2.0 * log2(%s * rough);", floatLit(lighting.LowMipBias))
	line(&w.b, "}")
}

func (w *wgslWriter) pbrMain() {
	line(&w.b, "    let nv = clamp(dot(n, viewDir), 0.0, 1.0);")
	line(&w.b, "    let f0 = mix(vec3<f32>(%s), in.color.rgb, material.metalness);", floatLit(lighting.DielectricF0))
	line(&w.b, "    let nl = clamp(dot(n, l), 0.0, 1.0);")
	line(&w.b, "    let h = normalize(l + viewDir);")
	line(&w.b, "    let nh = clamp(dot(n, h), 0.0, 1.0);")
	line(&w.b, "    let vh = clamp(dot(viewDir, h), 0.0, 1.0);")
	line(&w.b, "    var direct = vec3<f32>(0.0);")
	line(&w.b, "    if (nl > 0.0) {")
	line(&w.b, "        let spec = fresnelSchlick(f0, vh) * (distributionGGX(nh, material.roughness) * visibilitySmith(nl, nv, material.roughness) * nl);")
	line(&w.b, "        let diff = in.color.rgb * (nl * (1.0 - material.metalness) / %s);", floatLit(3.1415927))
	line(&w.b, "        direct = light.color.rgb * (diff + spec);")
	line(&w.b, "    }")
	line(&w.b, "    let irradiance = textureSampleLevel(envMap, envSampler, n, %s).rgb;", floatLit(lighting.IrradianceMip))
	line(&w.b, "    let indirectDiff = irradiance * in.color.rgb * (1.0 - material.metalness);")
	line(&w.b, "    let radiance = textureSampleLevel(envMap, envSampler, reflect(-viewDir, n), roughnessToMip(material.roughness)).rgb;")
	line(&w.b, "    let dfg = envDFG(nv, material.roughness);")
	line(&w.b, "    let ess = dfg.x + dfg.y;")
	line(&w.b, "    var energy = vec3<f32>(1.0);")
	line(&w.b, "    if (ess > 0.0) {")
	line(&w.b, "        energy = vec3<f32>(1.0) + f0 * ((1.0 - ess) / ess);")
	line(&w.b, "    }")
	line(&w.b, "    let indirectSpec = radiance * (f0 * dfg.x + vec3<f32>(dfg.y)) * energy;")
	line(&w.b, "    let lit = direct + indirectDiff + indirectSpec + material.emissive.rgb;")
	line(&w.b, "    return vec4<f32>(pow(lit, vec3<f32>(1.0 / %s)), in.color.a);", floatLit(lighting.Gamma))
}

// resolveEdgeColor emits the sentinel resolution statement for the
// edge passes, against the instance color pair when instanced colors
// are on, the material pair otherwise.
func (w *wgslWriter) resolveEdgeColor() {
	if w.key.Flags.InstancedColors {
		line(&w.b, "    out.color = resolveColor(in.%s, in.%s, in.%s);",
			binding.NameColor, binding.NameInstanceColor, binding.NameInstanceEdgeColor)
	} else {
		line(&w.b, "    out.color = resolveColor(in.%s, material.color, material.edgeColor);", binding.NameColor)
	}
}

func (w *wgslWriter) edgeModule(optional bool) {
	w.projectionStruct()
	w.colorStruct()
	attrs := [][3]string{attr(binding.PositionLoc, binding.NamePosition, "vec3<f32>")}
	if optional {
		attrs = append(attrs,
			attr(binding.Control1Loc, binding.NameControl1, "vec3<f32>"),
			attr(binding.Control2Loc, binding.NameControl2, "vec3<f32>"),
			attr(binding.DirectionLoc, binding.NameDirection, "vec3<f32>"),
			attr(binding.OptColorLoc, binding.NameColor, "vec3<f32>"))
	} else {
		attrs = append(attrs, attr(binding.EdgeColorLoc, binding.NameColor, "vec3<f32>"))
	}
	w.vertexInput(attrs, false)
	line(&w.b, "struct VertexOut {")
	line(&w.b, "    @builtin(position) position: vec4<f32>,")
	line(&w.b, "    @location(0) color: vec4<f32>,")
	if optional {
		line(&w.b, "    @location(1) visibility: f32,")
	}
	line(&w.b, "}")
	w.resolveColorFn()

	line(&w.b, "@vertex")
	line(&w.b, "fn %s(in: VertexIn) -> VertexOut {", entryName("vs", w.key))
	w.modelView()
	line(&w.b, "    var out: VertexOut;")
	if optional {
		line(&w.b, "    let mvp = proj.projection * mv;")
		line(&w.b, "    let p1 = mvp * vec4<f32>(in.%s, 1.0);", binding.NamePosition)
		line(&w.b, "    let p2 = mvp * vec4<f32>(in.%s + in.%s, 1.0);", binding.NamePosition, binding.NameDirection)
		line(&w.b, "    let c1 = mvp * vec4<f32>(in.%s, 1.0);", binding.NameControl1)
		line(&w.b, "    let c2 = mvp * vec4<f32>(in.%s, 1.0);", binding.NameControl2)
		line(&w.b, "    let s2 = p2.xy / p2.w;")
		line(&w.b, "    let dir = s2 - p1.xy / p1.w;")
		line(&w.b, "    let d1 = c1.xy / c1.w - s2;")
		line(&w.b, "    let d2 = c2.xy / c2.w - s2;")
		line(&w.b, "    out.visibility = 1.0;")
		line(&w.b, "    if (dot(dir, dir) > 0.0 && dot(d1, d1) > 0.0 && dot(d2, d2) > 0.0) {")
		line(&w.b, "        let nrm = normalize(vec2<f32>(-dir.y, dir.x));")
		line(&w.b, "        if (dot(nrm, normalize(d1)) * dot(nrm, normalize(d2)) < 0.0) {")
		line(&w.b, "            out.visibility = 0.0;")
		line(&w.b, "        }")
		line(&w.b, "    }")
		line(&w.b, "    out.position = p1;")
	} else {
		line(&w.b, "    out.position = proj.projection * mv * vec4<f32>(in.%s, 1.0);", binding.NamePosition)
	}
	w.resolveEdgeColor()
	line(&w.b, "    return out;")
	line(&w.b, "}")

	line(&w.b, "@fragment")
	line(&w.b, "fn %s(in: VertexOut) -> @location(0) vec4<f32> {", entryName("fs", w.key))
	if optional {
		line(&w.b, "    if (in.visibility < 0.5) {")
		line(&w.b, "        discard;")
		line(&w.b, "    }")
	}
	line(&w.b, "    return in.color;")
	line(&w.b, "}")
}

// pickModule outputs the instance identifier as a color. The id
// attribute is four normalized bytes in memory order, least
// significant first; the swizzle restores the most-significant-first
// channel order the readback decoder expects. Non-instanced pick draws
// take the encoded id from the material base color.
func (w *wgslWriter) pickModule() {
	w.projectionStruct()
	w.colorStruct()
	w.vertexInput([][3]string{
		attr(binding.PositionLoc, binding.NamePosition, "vec3<f32>"),
	}, true)
	line(&w.b, "struct VertexOut {")
	line(&w.b, "    @builtin(position) position: vec4<f32>,")
	line(&w.b, "    @location(0) color: vec4<f32>,")
	line(&w.b, "}")

	line(&w.b, "@vertex")
	line(&w.b, "fn %s(in: VertexIn) -> VertexOut {", entryName("vs", w.key))
	w.modelView()
	line(&w.b, "    var out: VertexOut;")
	if w.key.Flags.Instanced {
		line(&w.b, "    out.color = in.%s.wzyx;", binding.NameInstancePickID)
	} else {
		line(&w.b, "    out.color = material.color;")
	}
	line(&w.b, "    out.position = proj.projection * mv * vec4<f32>(in.%s, 1.0);", binding.NamePosition)
	line(&w.b, "    return out;")
	line(&w.b, "}")

	line(&w.b, "@fragment")
	line(&w.b, "fn %s(in: VertexOut) -> @location(0) vec4<f32> {", entryName("fs", w.key))
	line(&w.b, "    return in.color;")
	line(&w.b, "}")
}
