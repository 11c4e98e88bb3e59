package renderer

// Attribute and uniform names shared by the globe shaders and ProgramInfo.
const (
	attribPosition = "aVertexPosition"
	attribNormal   = "aVertexNormal"
	attribTexCoord = "aTextureCoord"
	attribColor    = "aVertexColor"

	uniformProjection  = "uProjectionMatrix"
	uniformModelView   = "uModelViewMatrix"
	uniformNormal      = "uNormalMatrix"
	uniformDirectional = "uDirectionalLighting"
	uniformUseTexture  = "uUseTexture"
	uniformSampler     = "uSampler"
)

// GlobeVertexShader applies either flat lighting or a single white directional
// light with a small ambient term.
var GlobeVertexShader = `#version 330 core

in vec3 aVertexPosition;
in vec3 aVertexNormal;
in vec2 aTextureCoord;
in vec4 aVertexColor;

uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;
uniform mat4 uNormalMatrix;
uniform float uDirectionalLighting;

out vec3 vLighting;
out vec2 vTextureCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjectionMatrix * uModelViewMatrix * vec4(aVertexPosition, 1.0);

    if (uDirectionalLighting > 0.0) {
        vec3 ambientLight = vec3(0.1, 0.1, 0.1);
        vec3 directionalLightColor = vec3(1.0, 1.0, 1.0);
        vec3 directionalVector = normalize(vec3(1.0, 0.3, 0.5));

        vec3 transformedNormal = normalize((uNormalMatrix * vec4(aVertexNormal, 0.0)).xyz);
        float directional = max(dot(transformedNormal, directionalVector), 0.0);
        vLighting = ambientLight + directionalLightColor * directional;
    } else {
        vLighting = vec3(1.0, 1.0, 1.0);
    }

    vTextureCoord = aTextureCoord;
    vColor = aVertexColor;
}
`

// GlobeFragmentShader picks the texture or the per-vertex color.
var GlobeFragmentShader = `#version 330 core

in vec3 vLighting;
in vec2 vTextureCoord;
in vec4 vColor;

uniform sampler2D uSampler;
uniform float uUseTexture;

out vec4 FragColor;

void main() {
    vec4 color;
    if (uUseTexture > 0.0) {
        color = texture(uSampler, vTextureCoord);
    } else {
        color = vColor;
    }
    FragColor = vec4(color.rgb * vLighting, color.a);
}
`
