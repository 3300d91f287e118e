package renderer

// Shaders are the sources for the scene and present programs.
type Shaders struct {
	SceneVertex     string
	SceneFragment   string
	PresentVertex   string
	PresentFragment string
}

// DesktopShaders target OpenGL 4.1 core.
var DesktopShaders = Shaders{
	SceneVertex: `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uProjection;
uniform mat4 uView;
uniform vec4 uTime;

out vec2 vUV;

void main() {
	vec3 p = aPos;
	p.y += 0.05 * sin(uTime.x * 2.0 + p.x + p.z);
	vUV = aUV;
	gl_Position = uProjection * uView * vec4(p, 1.0);
}
`,
	SceneFragment: `#version 410 core
in vec2 vUV;
uniform sampler2D uTexture;
out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vUV);
}
`,
	PresentVertex: `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;
out vec2 vUV;

void main() {
	vUV = aUV;
	gl_Position = vec4(aPos.xy, 0.0, 1.0);
}
`,
	PresentFragment: `#version 410 core
in vec2 vUV;
uniform sampler2D uColor;
uniform sampler2D uDepth;
uniform vec4 uClip;
uniform vec4 uFog;
uniform vec3 uFogColor;
out vec4 FragColor;

float linearDepth(float d) {
	float z = d * 2.0 - 1.0;
	return (2.0 * uClip.x * uClip.y) / (uClip.y + uClip.x - z * (uClip.y - uClip.x));
}

void main() {
	vec4 color = texture(uColor, vUV);
	float dist = linearDepth(texture(uDepth, vUV).r);
	float fog = uFog.w * clamp((dist - uFog.x) / max(uFog.y - uFog.x, 0.0001), 0.0, 1.0) * uFog.z;
	FragColor = vec4(mix(color.rgb, uFogColor, fog), 1.0);
}
`,
}

// WebShaders target WebGL 1 (GLSL ES 1.00).
var WebShaders = Shaders{
	SceneVertex: `attribute vec3 aPos;
attribute vec2 aUV;
uniform mat4 uProjection;
uniform mat4 uView;
uniform vec4 uTime;
varying vec2 vUV;

void main() {
	vec3 p = aPos;
	p.y += 0.05 * sin(uTime.x * 2.0 + p.x + p.z);
	vUV = aUV;
	gl_Position = uProjection * uView * vec4(p, 1.0);
}
`,
	SceneFragment: `precision mediump float;
varying vec2 vUV;
uniform sampler2D uTexture;

void main() {
	gl_FragColor = texture2D(uTexture, vUV);
}
`,
	PresentVertex: `attribute vec3 aPos;
attribute vec2 aUV;
varying vec2 vUV;

void main() {
	vUV = aUV;
	gl_Position = vec4(aPos.xy, 0.0, 1.0);
}
`,
	PresentFragment: `precision mediump float;
varying vec2 vUV;
uniform sampler2D uColor;
uniform sampler2D uDepth;
uniform vec4 uClip;
uniform vec4 uFog;
uniform vec3 uFogColor;

float linearDepth(float d) {
	float z = d * 2.0 - 1.0;
	return (2.0 * uClip.x * uClip.y) / (uClip.y + uClip.x - z * (uClip.y - uClip.x));
}

void main() {
	vec4 color = texture2D(uColor, vUV);
	float dist = linearDepth(texture2D(uDepth, vUV).r);
	float fog = uFog.w * clamp((dist - uFog.x) / max(uFog.y - uFog.x, 0.0001), 0.0, 1.0) * uFog.z;
	gl_FragColor = vec4(mix(color.rgb, uFogColor, fog), 1.0);
}
`,
}
