package gpu

// Lighting matches render.LightSource: ambient is normal independent,
// directional is max(0, -dir·n), point falls off with 1/d² and cones fade
// linearly between half and full opening.
const sceneVertexShader = `
#version 410
in vec3 position;
in vec3 normal;
in vec3 albedo;

uniform mat4 model;
uniform mat3 normalMat;
uniform mat4 viewProj;

uniform int lightCount;
uniform int lightKind[8];
uniform vec3 lightPos[8];
uniform vec3 lightDir[8];
uniform vec3 lightColor[8];
uniform float lightOpening[8];

out vec3 color;

void main() {
	vec4 world = model * vec4(position, 1.0);
	vec3 n = normalize(normalMat * normal);
	vec3 light = vec3(0.0);
	for (int i = 0; i < lightCount; i++) {
		int kind = lightKind[i];
		if (kind == 0) {
			light += lightColor[i];
		} else if (kind == 1) {
			light += lightColor[i] * max(0.0, -dot(lightDir[i], n));
		} else {
			vec3 d = world.xyz - lightPos[i];
			float d2 = dot(d, d);
			if (d2 == 0.0) {
				continue;
			}
			vec3 u = d / sqrt(d2);
			float k = max(0.0, -dot(u, n)) / d2;
			if (kind == 3) {
				float theta = acos(clamp(dot(lightDir[i], u), -1.0, 1.0));
				float open = lightOpening[i];
				float halfOpen = open * 0.5;
				if (theta >= open) {
					k = 0.0;
				} else if (theta > halfOpen) {
					k *= (open - theta) / halfOpen;
				}
			}
			light += lightColor[i] * k;
		}
	}
	color = light * albedo;
	gl_Position = viewProj * world;
}
` + "\x00"

const sceneFragmentShader = `
#version 410
in vec3 color;
out vec4 fragColor;

void main() {
	fragColor = vec4(min(color, vec3(1.0)), 1.0);
}
` + "\x00"

// The blit pass draws one oversized triangle and samples the software
// framebuffer, whose first row is the top of the image.
const blitVertexShader = `
#version 410
out vec2 uv;

void main() {
	vec2 p = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	uv = vec2(p.x, 1.0 - p.y);
	gl_Position = vec4(p * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

const blitFragmentShader = `
#version 410
in vec2 uv;
uniform sampler2D frame;
out vec4 fragColor;

void main() {
	fragColor = texture(frame, uv);
}
` + "\x00"
