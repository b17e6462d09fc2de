// Package render draws board primitives into a software RGBA image for the
// CLI's render command and the viewer window.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/colornames"

	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/colorutil"
	"pcb-polish/pkg/geometry"
)

// Options configures rendering.
type Options struct {
	Width      int
	Height     int
	Margin     float64 // board units kept clear around the content
	Background color.Color
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     768,
		Margin:     20,
		Background: color.RGBA{R: 24, G: 36, B: 24, A: 255},
	}
}

// layerPalette maps common layer names to copper colors; unknown layers
// cycle through fallbackColors.
var layerPalette = map[string]color.RGBA{
	"top":    colornames.Crimson,
	"bottom": colornames.Royalblue,
	"inner1": colornames.Goldenrod,
	"inner2": colornames.Mediumseagreen,
}

var fallbackColors = []color.RGBA{
	colornames.Orchid,
	colornames.Darkorange,
	colornames.Teal,
	colornames.Slategray,
}

// Board renders every primitive on the host board. Any board renders at
// any canvas size of at least 1x1; an empty board yields the background.
func Board(h host.Host, opts Options) (*image.RGBA, error) {
	if opts.Width < 1 {
		opts.Width = 1
	}
	if opts.Height < 1 {
		opts.Height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	tracks, err := h.Tracks()
	if err != nil {
		return nil, err
	}
	arcs, err := h.Arcs()
	if err != nil {
		return nil, err
	}
	pads, err := h.Pads()
	if err != nil {
		return nil, err
	}
	vias, err := h.Vias()
	if err != nil {
		return nil, err
	}
	regions, err := h.Regions()
	if err != nil {
		return nil, err
	}

	var pts []geometry.Point2D
	for _, t := range tracks {
		pts = append(pts, t.Points()...)
	}
	for _, a := range arcs {
		pts = append(pts, a.Start(), a.End())
	}
	for _, p := range pads {
		pts = append(pts, p.Center())
	}
	for _, v := range vias {
		pts = append(pts, v.Center())
	}
	for _, r := range regions {
		pts = append(pts, r.Polygon...)
	}
	if len(pts) == 0 {
		return img, nil
	}

	view := newViewport(geometry.BoundingBox(pts).Expand(opts.Margin), opts.Width, opts.Height)
	palette := buildPalette(tracks, arcs, pads, regions)

	for _, r := range regions {
		fillPolygon(img, view, r.Polygon, colorutil.Dim(palette(r.Layer), 0.5))
	}
	for _, t := range tracks {
		p := t.Points()
		for i := 1; i < len(p); i++ {
			strokeLine(img, view, p[i-1], p[i], t.Width(), palette(t.Layer()))
		}
	}
	for _, a := range arcs {
		samples := geometry.SampleArc(a.Start(), a.End(), a.Sweep, 24)
		for i := 1; i < len(samples); i++ {
			strokeLine(img, view, samples[i-1], samples[i], a.Width, palette(a.Layer))
		}
	}
	for _, p := range pads {
		fillDisc(img, view, p.Center(), p.Diameter/2, palette(p.Layer))
	}
	for _, v := range vias {
		fillDisc(img, view, v.Center(), v.Diameter/2, colornames.Silver)
	}
	return img, nil
}

// viewport maps board coordinates to pixels, preserving aspect ratio and
// flipping Y so board up is image up.
type viewport struct {
	bounds geometry.Rect
	scale  float64
	offX   float64
	offY   float64
	height int
}

func newViewport(bounds geometry.Rect, w, h int) viewport {
	sx := float64(w) / math.Max(bounds.Width, 1e-9)
	sy := float64(h) / math.Max(bounds.Height, 1e-9)
	scale := math.Min(sx, sy)
	// Center the content.
	offX := (float64(w) - bounds.Width*scale) / 2
	offY := (float64(h) - bounds.Height*scale) / 2
	return viewport{bounds: bounds, scale: scale, offX: offX, offY: offY, height: h}
}

func (v viewport) toPixel(p geometry.Point2D) (float64, float64) {
	x := (p.X-v.bounds.X)*v.scale + v.offX
	y := float64(v.height) - ((p.Y-v.bounds.Y)*v.scale + v.offY)
	return x, y
}

// buildPalette assigns each layer a stable color.
func buildPalette(tracks []host.Track, arcs []board.ArcRecord, pads []board.PadRecord, regions []board.RegionRecord) func(string) color.RGBA {
	names := make(map[string]bool)
	for _, t := range tracks {
		names[t.Layer()] = true
	}
	for _, a := range arcs {
		names[a.Layer] = true
	}
	for _, p := range pads {
		names[p.Layer] = true
	}
	for _, r := range regions {
		names[r.Layer] = true
	}
	var unknown []string
	for n := range names {
		if _, ok := layerPalette[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	sort.Strings(unknown)
	assigned := make(map[string]color.RGBA)
	for i, n := range unknown {
		assigned[n] = fallbackColors[i%len(fallbackColors)]
	}
	return func(layer string) color.RGBA {
		if c, ok := layerPalette[layer]; ok {
			return c
		}
		if c, ok := assigned[layer]; ok {
			return c
		}
		return colornames.Gray
	}
}

// strokeLine draws a thick segment by stamping discs along its length.
func strokeLine(img *image.RGBA, v viewport, a, b geometry.Point2D, width float64, c color.RGBA) {
	x1, y1 := v.toPixel(a)
	x2, y2 := v.toPixel(b)
	r := math.Max(width*v.scale/2, 0.75)
	length := math.Hypot(x2-x1, y2-y1)
	steps := int(length) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(img, x1+(x2-x1)*t, y1+(y2-y1)*t, r, c)
	}
}

func fillDisc(img *image.RGBA, v viewport, center geometry.Point2D, radius float64, c color.RGBA) {
	x, y := v.toPixel(center)
	stampDisc(img, x, y, math.Max(radius*v.scale, 1), c)
}

func stampDisc(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	bounds := img.Bounds()
	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))
	for y := y0; y <= y1; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// fillPolygon rasterizes a polygon by point-in-polygon testing each pixel
// center inside its pixel-space bounding box.
func fillPolygon(img *image.RGBA, v viewport, poly []geometry.Point2D, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	pix := make([]geometry.Point2D, len(poly))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range poly {
		x, y := v.toPixel(p)
		pix[i] = geometry.Point2D{X: x, Y: y}
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	bounds := img.Bounds()
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			center := geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if geometry.PointInPolygon(center, pix) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
