package ebitenvideo

import "github.com/phanxgames/palvideo"

// --- Kage sprite programs ---
// All programs use //kage:unit pixels. Images[0] holds the sprite (RGBA for
// truecolor, the index in R for paletted), Images[1] the palette laid out
// as a 16x16 grid of Cell-sized blocks, Images[2] the optional mask.
// Ebitengine works in premultiplied alpha throughout; the color argument
// is the premultiplied tint.

const kageMask = `
var HasMask float

func masked(src vec2, c vec4) vec4 {
	if HasMask > 0 {
		c *= imageSrc2At(src).a
	}
	return c
}
`

const kagePalette = `
var Cell vec2
var ColorKey float

func lookup(src vec2) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	idx := floor(c.r*255 + 0.5)
	if idx == ColorKey {
		return vec4(0)
	}
	cell := vec2(mod(idx, 16), floor(idx/16))
	return imageSrc1At(imageSrc0Origin() + (cell+0.5)*Cell)
}

func luminance(c vec4) float {
	if c.a == 0 {
		return 0
	}
	rgb := c.rgb / c.a
	return 0.299*rgb.r + 0.587*rgb.g + 0.114*rgb.b
}
`

const truecolorShaderSrc = `//kage:unit pixels
package main
` + kageMask + `
func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return masked(src, imageSrc0At(src)*color)
}
`

const palettedShaderSrc = `//kage:unit pixels
package main
` + kageMask + kagePalette + `
func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return masked(src, lookup(src)*color)
}
`

const grayscaleShaderSrc = `//kage:unit pixels
package main
` + kageMask + kagePalette + `
func Fragment(dst vec4, src vec2, color vec4) vec4 {
	p := lookup(src)
	l := luminance(p)
	return masked(src, vec4(l*p.a, l*p.a, l*p.a, p.a)*color)
}
`

const sepiaShaderSrc = `//kage:unit pixels
package main
` + kageMask + kagePalette + `
func Fragment(dst vec4, src vec2, color vec4) vec4 {
	p := lookup(src)
	l := luminance(p)
	tone := vec3(clamp(l+21.0/255.0, 0, 1), l, clamp(l-32.0/255.0, 0, 1))
	return masked(src, vec4(tone*p.a, p.a)*color)
}
`

const rectShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return color
}
`

// shaderSources maps every program to its Kage source.
var shaderSources = map[palvideo.ProgramKind]string{
	palvideo.ProgramTruecolor:         truecolorShaderSrc,
	palvideo.ProgramPaletted:          palettedShaderSrc,
	palvideo.ProgramPalettedGrayscale: grayscaleShaderSrc,
	palvideo.ProgramPalettedSepia:     sepiaShaderSrc,
	palvideo.ProgramRect:              rectShaderSrc,
}
