package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const passthroughVertexSourceGL = `#version 330 core
layout (location = 0) in vec3 aPos;
void main() {
    gl_Position = vec4(aPos, 1.0);
}
`

const passthroughFragmentSourceGL = `#version 330 core
out vec4 FragColor;
uniform vec3 color;
void main() {
    FragColor = vec4(color, 1.0);
}
`

const texturedVertexSourceGL = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in vec2 aTexCoord;

out vec3 ourColor;
out vec2 TexCoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * model * vec4(aPos, 1.0);
    ourColor = aColor;
    TexCoord = vec2(aTexCoord.x, aTexCoord.y);
}
`

const texturedFragmentSourceGL = `#version 330 core
out vec4 FragColor;

in vec3 ourColor;
in vec2 TexCoord;

uniform sampler2D texture1;
uniform vec3 tint;

void main() {
    FragColor = texture(texture1, TexCoord) * vec4(tint, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

// The ES variants are what gets handed to a Translator.

const texturedVertexSourceGLES = `#version 300 es
precision highp float;
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in vec2 aTexCoord;

out vec3 ourColor;
out vec2 TexCoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * model * vec4(aPos, 1.0);
    ourColor = aColor;
    TexCoord = aTexCoord;
}
`

const texturedFragmentSourceGLES = `#version 300 es
precision mediump float;
out vec4 FragColor;

in vec3 ourColor;
in vec2 TexCoord;

uniform sampler2D texture1;
uniform vec3 tint;

void main() {
    FragColor = texture(texture1, TexCoord) * vec4(tint, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// PassthroughSources returns a vertex/fragment pair that forwards positions
// and fills with a uniform color.
func PassthroughSources() (vertex, fragment string) {
	return passthroughVertexSourceGL, passthroughFragmentSourceGL
}

// TexturedSources returns the textured, transformed quad pair. The ES
// variant is meant to be run through a Translator.
func TexturedSources(isGLES bool) (vertex, fragment string) {
	if isGLES {
		return texturedVertexSourceGLES, texturedFragmentSourceGLES
	}
	return texturedVertexSourceGL, texturedFragmentSourceGL
}
