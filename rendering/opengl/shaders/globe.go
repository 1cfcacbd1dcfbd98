package shaders

// Material selects the lighting model in the globe fragment shader.
type Material int32

const (
	MaterialBasic Material = iota
	MaterialLambert
	MaterialStandard
	MaterialPhong
)

// ParseMaterial maps a settings material name to a shader material.
func ParseMaterial(name string) (Material, bool) {
	switch name {
	case "basic":
		return MaterialBasic, true
	case "lambert":
		return MaterialLambert, true
	case "standard":
		return MaterialStandard, true
	}
	return 0, false
}

// GlobeVertexShader passes world-space position, normal, and vertex color
// through to the fragment stage. Vertex layout matches mesh.Interleave.
const GlobeVertexShader = `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec4 color;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 worldPos;
out vec3 worldNormal;
out vec4 vertexColor;

void main() {
    vec4 world = model * vec4(position, 1.0);
    worldPos = world.xyz;
    worldNormal = mat3(model) * normal;
    vertexColor = color;
    gl_Position = projection * view * world;
}
`

// GlobeFragmentShader lights with an ambient term, a directional sun and a
// point light riding on the camera.
const GlobeFragmentShader = `
#version 410 core

in vec3 worldPos;
in vec3 worldNormal;
in vec4 vertexColor;

uniform int material;
uniform float ambientIntensity;
uniform float sunIntensity;
uniform vec3 sunDirection;
uniform float cameraLightIntensity;
uniform vec3 cameraLight;
uniform vec3 cameraPos;

out vec4 outColor;

void main() {
    if (material == 0) {
        outColor = vertexColor;
        return;
    }

    vec3 n = normalize(worldNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    vec3 toLight = normalize(cameraLight - worldPos);
    vec3 toSun = normalize(sunDirection);

    float diffuse = sunIntensity * max(dot(n, toSun), 0.0)
                  + cameraLightIntensity * max(dot(n, toLight), 0.0);
    vec3 lit = vertexColor.rgb * (ambientIntensity + diffuse);

    if (material >= 2) {
        vec3 toEye = normalize(cameraPos - worldPos);
        float shininess = material == 2 ? 8.0 : 30.0;
        float strength = material == 2 ? 0.15 : 0.35;
        float spec = pow(max(dot(n, normalize(toSun + toEye)), 0.0), shininess) * sunIntensity
                   + pow(max(dot(n, normalize(toLight + toEye)), 0.0), shininess) * cameraLightIntensity;
        lit += vec3(strength * spec);
    }

    outColor = vec4(lit, vertexColor.a);
}
`
