package surface

import "fmt"

// GLSL source emission for the interactive viewer. Sources target
// #version 330 core so the viewer runs on modest GL drivers; the
// emitted fragment shaders mirror the CPU ColorAt rules.

// VertexSource is the vertex stage shared by every material: it
// forwards mesh-local position for the procedural color rules and
// transforms by an orthographic view-projection, a per-instance world
// offset and a uniform inflation scale (1.0 for inner meshes,
// OutlineInflate for hulls).
func VertexSource() string {
	return `#version 330 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
uniform mat4 uViewProj;
uniform vec3 uOffset;
uniform float uScale;
out vec3 vLocal;
out vec3 vNormal;
void main() {
	vLocal = aPos;
	vNormal = aNormal;
	vec3 world = aPos * uScale + uOffset;
	gl_Position = uViewProj * vec4(world, 1.0);
}
` + "\x00"
}

const fragPreamble = `#version 330 core
in vec3 vLocal;
in vec3 vNormal;
out vec4 fragColor;
float hash12(vec2 p) {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}
`

// Fixed key light of the scene; a wrap term keeps unlit faces readable
// without pretending to be physical.
const fragLighting = `
float lambert(vec3 n) {
	float dif = clamp(dot(normalize(n), normalize(vec3(0.5, 0.8, 0.4))), 0.0, 1.0);
	return 0.75 + 0.25 * dif;
}
`

func appendVec3Color(b []byte, name string, r, g, bl uint8) []byte {
	return fmt.Appendf(b, "const vec3 %s = vec3(%.6f, %.6f, %.6f);\n",
		name, float32(r)/255, float32(g)/255, float32(bl)/255)
}

// AppendFragSource emits the gradient fragment shader: smoothstep
// blend of bottom to top color over the fixed transition bounds plus
// hashed grain on the horizontal local coordinates.
func (g Gradient) AppendFragSource(b []byte) []byte {
	b = append(b, fragPreamble...)
	b = append(b, fragLighting...)
	b = appendVec3Color(b, "cTop", g.Top.R, g.Top.G, g.Top.B)
	b = appendVec3Color(b, "cBottom", g.Bottom.R, g.Bottom.G, g.Bottom.B)
	b = fmt.Appendf(b, "const float noiseScale = %.6f;\nconst float noiseAmp = %.6f;\n", g.NoiseScale, g.NoiseAmp)
	b = fmt.Appendf(b, `void main() {
	float blend = smoothstep(%.6f, %.6f, vLocal.y);
	vec3 col = mix(cBottom, cTop, blend);
	col += (hash12(vLocal.xz * noiseScale) - 0.5) * noiseAmp;
	fragColor = vec4(col * lambert(vNormal), 1.0);
}
`, float32(gradientLo), float32(gradientHi))
	b = append(b, 0)
	return b
}

// AppendFragSource emits the flat fragment shader with hashed grain.
func (f Flat) AppendFragSource(b []byte) []byte {
	b = append(b, fragPreamble...)
	b = append(b, fragLighting...)
	b = appendVec3Color(b, "cBase", f.Base.R, f.Base.G, f.Base.B)
	b = fmt.Appendf(b, "const float noiseScale = %.6f;\nconst float noiseAmp = %.6f;\n", f.NoiseScale, f.NoiseAmp)
	b = append(b, `void main() {
	vec3 col = cBase + (hash12(vLocal.xz * noiseScale) - 0.5) * noiseAmp;
	fragColor = vec4(col * lambert(vNormal), 1.0);
}
`...)
	b = append(b, 0)
	return b
}

// AppendFragSource emits the unlit outline shader. The back-face-only
// behavior is face culling state, not shader logic.
func (o Outline) AppendFragSource(b []byte) []byte {
	b = append(b, fragPreamble...)
	b = appendVec3Color(b, "cOutline", o.Color.R, o.Color.G, o.Color.B)
	b = append(b, `void main() {
	fragColor = vec4(cOutline, 1.0);
}
`...)
	b = append(b, 0)
	return b
}

// TextureFragSource is the fragment stage of the ground plane: plain
// texture lookup, no lighting.
func TextureFragSource() string {
	return `#version 330 core
in vec2 vUV;
out vec4 fragColor;
uniform sampler2D uTex;
void main() {
	fragColor = texture(uTex, vUV);
}
` + "\x00"
}

// TextureVertexSource is the vertex stage of the ground plane quad.
func TextureVertexSource() string {
	return `#version 330 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aUV;
uniform mat4 uViewProj;
out vec2 vUV;
void main() {
	vUV = aUV;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
` + "\x00"
}
