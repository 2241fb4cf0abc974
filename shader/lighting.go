package shader

// Uniforms pushed by LoadLightArgs.
const (
	uLightViewProj  = "u_LightViewProj"
	uSunDirection   = "u_SunDirection"
	uSunColor       = "u_SunColor"
	uAmbient        = "u_Ambient"
	uEye            = "u_Eye"
	uFlashEnable    = "u_FlashEnable"
	uFlashPosition  = "u_FlashPosition"
	uFlashDirection = "u_FlashDirection"
	uFlashCutoff    = "u_FlashCutoff"
	uFlashColor     = "u_FlashColor"
	uShadowMap      = "u_ShadowMap"
)

var (
	shadowLightUniforms = []string{uLightViewProj}
	normalLightUniforms = []string{
		uLightViewProj, uSunDirection, uSunColor, uAmbient, uEye,
		uFlashEnable, uFlashPosition, uFlashDirection, uFlashCutoff, uFlashColor,
		uShadowMap,
	}
)

const versionHeader = "#version 410 core\n"

// fragmentOut is the colour output every fragment stage declares.
const fragmentOut = "out vec4 fragColor;\n"

// In the shadow variant init_light replaces the clip position with the light
// space position, and calc_light writes nothing so only depth reaches the
// shadow target.
const shadowVertexPrelude = `
uniform mat4 u_LightViewProj;

void init_light(vec4 worldPos, vec3 normal) {
  gl_Position = u_LightViewProj * worldPos;
}
`

const shadowFragmentPrelude = `
void calc_light(vec4 base) {
}
`

const normalVertexPrelude = `
uniform mat4 u_LightViewProj;

out vec3 v_WorldPos;
out vec3 v_Normal;
out vec4 v_LightPos;

void init_light(vec4 worldPos, vec3 normal) {
  v_WorldPos = worldPos.xyz;
  v_Normal = normal;
  v_LightPos = u_LightViewProj * worldPos;
}
`

const normalFragmentPrelude = `
uniform vec3 u_SunDirection;
uniform vec3 u_SunColor;
uniform vec3 u_Ambient;
uniform vec3 u_Eye;

uniform int u_FlashEnable;
uniform vec3 u_FlashPosition;
uniform vec3 u_FlashDirection;
uniform float u_FlashCutoff;
uniform vec3 u_FlashColor;

uniform sampler2DShadow u_ShadowMap;

in vec3 v_WorldPos;
in vec3 v_Normal;
in vec4 v_LightPos;

float shadow_factor(vec3 n, vec3 l) {
  vec3 p = v_LightPos.xyz / v_LightPos.w * 0.5 + 0.5;
  if (p.z > 1.0) {
    return 1.0;
  }
  float bias = max(0.005 * (1.0 - dot(n, l)), 0.0005);
  vec2 texel = 1.0 / vec2(textureSize(u_ShadowMap, 0));
  float sum = 0.0;
  for (int x = -1; x <= 1; ++x) {
    for (int y = -1; y <= 1; ++y) {
      sum += texture(u_ShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z - bias));
    }
  }
  return sum / 9.0;
}

void calc_light(vec4 base) {
  vec3 n = normalize(v_Normal);
  vec3 l = normalize(-u_SunDirection);
  vec3 v = normalize(u_Eye - v_WorldPos);

  float diff = max(dot(n, l), 0.0);
  float spec = pow(max(dot(n, normalize(l + v)), 0.0), 32.0) * 0.3;
  vec3 color = u_Ambient + shadow_factor(n, l) * (diff + spec) * u_SunColor;

  if (u_FlashEnable != 0) {
    vec3 toFrag = v_WorldPos - u_FlashPosition;
    float dist = length(toFrag);
    toFrag /= dist;
    float outer = cos(radians(u_FlashCutoff));
    float inner = cos(radians(u_FlashCutoff * 0.8));
    float theta = dot(toFrag, normalize(u_FlashDirection));
    float cone = clamp((theta - outer) / max(inner - outer, 1e-4), 0.0, 1.0);
    float atten = 1.0 / (1.0 + 0.09 * dist + 0.032 * dist * dist);
    color += u_FlashColor * max(dot(n, -toFrag), 0.0) * cone * atten;
  }

  fragColor = vec4(base.rgb * color, base.a);
}
`
