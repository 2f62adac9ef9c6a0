package sdlvideo

import "github.com/phanxgames/palvideo"

// --- GLSL sprite programs ---
// Positions arrive in logical pixels and uScreen maps them to clip space.
// Unit 0 holds the sprite (RGBA8 for truecolor, R8 indices for paletted),
// unit 1 the 256x1 palette and unit 2 the optional mask. Colors are
// premultiplied throughout.

const vertexShaderSrc = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aTex;
uniform vec2 uScreen;
out vec2 vTex;
void main() {
    vTex = aTex;
    gl_Position = vec4(aPos.x / uScreen.x * 2.0 - 1.0, 1.0 - aPos.y / uScreen.y * 2.0, 0.0, 1.0);
}
` + "\x00"

const fragmentHeader = `
#version 330 core
in vec2 vTex;
out vec4 fragColor;
uniform sampler2D uSprite;
uniform sampler2D uPalette;
uniform sampler2D uMask;
uniform float uHasMask;
uniform float uColorKey;
uniform vec4 uTint;

vec4 masked(vec4 c) {
    if (uHasMask > 0.0) {
        c *= texture(uMask, vTex).a;
    }
    return c;
}
`

const fragmentPalette = `
vec4 lookup() {
    float idx = floor(texture(uSprite, vTex).r * 255.0 + 0.5);
    if (idx == uColorKey) {
        return vec4(0.0);
    }
    return texelFetch(uPalette, ivec2(int(idx), 0), 0);
}

float luminance(vec4 c) {
    if (c.a == 0.0) {
        return 0.0;
    }
    vec3 rgb = c.rgb / c.a;
    return dot(rgb, vec3(0.299, 0.587, 0.114));
}
`

const truecolorFragmentSrc = fragmentHeader + `
void main() {
    fragColor = masked(texture(uSprite, vTex) * uTint);
}
` + "\x00"

const palettedFragmentSrc = fragmentHeader + fragmentPalette + `
void main() {
    fragColor = masked(lookup() * uTint);
}
` + "\x00"

const grayscaleFragmentSrc = fragmentHeader + fragmentPalette + `
void main() {
    vec4 p = lookup();
    float l = luminance(p);
    fragColor = masked(vec4(vec3(l) * p.a, p.a) * uTint);
}
` + "\x00"

const sepiaFragmentSrc = fragmentHeader + fragmentPalette + `
void main() {
    vec4 p = lookup();
    float l = luminance(p);
    vec3 tone = vec3(clamp(l + 21.0 / 255.0, 0.0, 1.0), l, clamp(l - 32.0 / 255.0, 0.0, 1.0));
    fragColor = masked(vec4(tone * p.a, p.a) * uTint);
}
` + "\x00"

const rectFragmentSrc = `
#version 330 core
out vec4 fragColor;
uniform vec4 uTint;
void main() {
    fragColor = uTint;
}
` + "\x00"

var fragmentSources = map[palvideo.ProgramKind]string{
	palvideo.ProgramTruecolor:         truecolorFragmentSrc,
	palvideo.ProgramPaletted:          palettedFragmentSrc,
	palvideo.ProgramPalettedGrayscale: grayscaleFragmentSrc,
	palvideo.ProgramPalettedSepia:     sepiaFragmentSrc,
	palvideo.ProgramRect:              rectFragmentSrc,
}
