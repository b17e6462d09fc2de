// Package colorutil provides shared color utilities for board rendering.
package colorutil

import "image/color"

// Dim scales a color toward black. factor 1 keeps the color, 0 yields black.
func Dim(c color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten blends a color toward white. factor 0 keeps the color, 1 yields
// white.
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return Blend(c, color.RGBA{R: 255, G: 255, B: 255, A: c.A}, factor)
}

// Blend linearly interpolates between two colors. t 0 yields a, 1 yields b.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

// Luminance returns the perceptual brightness of a color in 0-255.
func Luminance(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
