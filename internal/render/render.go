// Package render rasterizes overlay collections into preview images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/overlay"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// Rendering is done on a 2x supersampled canvas and downscaled, which keeps
// the naive scanline/stamp drawing acceptably smooth.
const superSample = 2

// edge padding as a fraction of the canvas
const padFraction = 0.05

type pointF struct {
	X, Y float64
}

// Layer draws the engine's overlay collections onto a width x height canvas,
// fitting the collections' bounding box with an equirectangular projection.
// Draw order: polygons, polylines, circles, markers.
func Layer(e *overlay.Engine, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid canvas size %dx%d", width, height)
	}

	proj, ok := newProjection(e, width*superSample, height*superSample)
	if !ok {
		return nil, fmt.Errorf("render: no overlays to draw")
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width*superSample, height*superSample))

	for _, p := range e.Polygons {
		rings := make([][]pointF, 0, len(p.Holes)+1)
		rings = append(rings, proj.ring(p.Outer))
		for _, h := range p.Holes {
			rings = append(rings, proj.ring(h))
		}
		if p.Fill {
			fillPolygon(canvas, rings, parseColor(p.FillColor))
		}
		border := parseColor(p.BorderColor)
		for _, r := range rings {
			strokeRing(canvas, r, p.BorderWidth*superSample, border)
		}
	}

	for _, l := range e.Polylines {
		strokePath(canvas, proj.ring(l.Points), l.Width*superSample, parseColor(l.Color))
	}

	for _, c := range e.Circles {
		center := proj.point(c.Center)
		radius := proj.pixels(c.Radius)
		if c.Fill {
			fillDisc(canvas, center, radius, parseColor(c.Color))
		}
		strokeCircle(canvas, center, radius, c.BorderWidth*superSample, parseColor(c.BorderColor))
	}

	for _, m := range e.Markers {
		fillDisc(canvas, proj.point(m.Anchor), 4*superSample, parseColor(m.Color))
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Over, nil)

	log.Debug().
		Int("width", width).
		Int("height", height).
		Msg("Layer rendered")

	return out, nil
}

// WriteWebP encodes the rendered image as lossy webp.
func WriteWebP(w io.Writer, img image.Image, quality float32) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: quality})
}

// projection maps (lat, lon) onto canvas pixels with a uniform scale.
type projection struct {
	minLon, maxLat float64
	scale          float64 // pixels per degree of latitude
	offX, offY     float64
}

func (p *projection) point(c geo.Coordinate) pointF {
	return pointF{
		X: (c.Lon-p.minLon)*p.scale + p.offX,
		Y: (p.maxLat-c.Lat)*p.scale + p.offY,
	}
}

func (p *projection) ring(r geo.Ring) []pointF {
	pts := make([]pointF, 0, len(r))
	for _, c := range r {
		pts = append(pts, p.point(c))
	}

	return pts
}

// pixels converts a distance in meters to canvas pixels.
func (p *projection) pixels(meters float64) float64 {
	return meters / geo.MetersPerLatDegree * p.scale
}

func newProjection(e *overlay.Engine, w, h int) (*projection, bool) {
	b, ok := bounds(e)
	if !ok {
		return nil, false
	}

	padX := float64(w) * padFraction
	padY := float64(h) * padFraction
	spanLon := b.maxLon - b.minLon
	spanLat := b.maxLat - b.minLat

	scale := math.Inf(1)
	if spanLon > 0 {
		scale = (float64(w) - 2*padX) / spanLon
	}
	if spanLat > 0 {
		scale = math.Min(scale, (float64(h)-2*padY)/spanLat)
	}
	if math.IsInf(scale, 1) {
		// single point, any positive scale will do
		scale = 1
	}

	// center the drawing
	offX := (float64(w) - spanLon*scale) / 2
	offY := (float64(h) - spanLat*scale) / 2

	return &projection{
		minLon: b.minLon,
		maxLat: b.maxLat,
		scale:  scale,
		offX:   offX,
		offY:   offY,
	}, true
}

type bbox struct {
	minLat, maxLat, minLon, maxLon float64
}

func bounds(e *overlay.Engine) (bbox, bool) {
	b := bbox{
		minLat: math.Inf(1), maxLat: math.Inf(-1),
		minLon: math.Inf(1), maxLon: math.Inf(-1),
	}
	seen := false

	grow := func(c geo.Coordinate) {
		seen = true
		b.minLat = math.Min(b.minLat, c.Lat)
		b.maxLat = math.Max(b.maxLat, c.Lat)
		b.minLon = math.Min(b.minLon, c.Lon)
		b.maxLon = math.Max(b.maxLon, c.Lon)
	}

	for _, m := range e.Markers {
		grow(m.Anchor)
	}
	for _, c := range e.Circles {
		latPad := c.Radius / geo.MetersPerLatDegree
		lonPad := latPad
		if mpd := geo.MetersPerLonDegree(c.Center.Lat); mpd > 0 {
			lonPad = c.Radius / mpd
		}
		grow(geo.Coordinate{Lat: c.Center.Lat - latPad, Lon: c.Center.Lon - lonPad})
		grow(geo.Coordinate{Lat: c.Center.Lat + latPad, Lon: c.Center.Lon + lonPad})
	}
	for _, l := range e.Polylines {
		for _, c := range l.Points {
			grow(c)
		}
	}
	for _, p := range e.Polygons {
		for _, c := range p.Outer {
			grow(c)
		}
	}

	return b, seen
}

// fillPolygon paints the even-odd interior of the ring set, so holes drop
// out without special casing.
func fillPolygon(img *image.NRGBA, rings [][]pointF, col color.NRGBA) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range rings {
		for _, p := range r {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minY, 1) {
		return
	}

	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	var xs []float64

	for y := y0; y <= y1; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]

		for _, ring := range rings {
			n := len(ring)
			if n < 3 {
				continue
			}
			for i := 0; i < n; i++ {
				a, b := ring[i], ring[(i+1)%n]
				if (a.Y <= yc && b.Y > yc) || (b.Y <= yc && a.Y > yc) {
					xs = append(xs, a.X+(yc-a.Y)/(b.Y-a.Y)*(b.X-a.X))
				}
			}
		}

		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); float64(x)+0.5 <= xs[i+1]; x++ {
				blend(img, x, y, col)
			}
		}
	}
}

// strokePath stamps discs along each segment of an open path.
func strokePath(img *image.NRGBA, pts []pointF, width float64, col color.NRGBA) {
	if width < 1 {
		width = 1
	}
	r := width / 2

	for i := 0; i+1 < len(pts); i++ {
		stampSegment(img, pts[i], pts[i+1], r, col)
	}
}

// strokeRing is strokePath with the closing segment included.
func strokeRing(img *image.NRGBA, pts []pointF, width float64, col color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	strokePath(img, pts, width, col)
	if width < 1 {
		width = 1
	}
	stampSegment(img, pts[len(pts)-1], pts[0], width/2, col)
}

func strokeCircle(img *image.NRGBA, center pointF, radius, width float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	if width < 1 {
		width = 1
	}

	steps := int(math.Max(32, radius*2*math.Pi))
	prev := pointF{X: center.X + radius, Y: center.Y}
	for i := 1; i <= steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		cur := pointF{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		stampSegment(img, prev, cur, width/2, col)
		prev = cur
	}
}

func stampSegment(img *image.NRGBA, a, b pointF, r float64, col color.NRGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	steps := int(dist) + 1

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillDisc(img, pointF{X: a.X + dx*t, Y: a.Y + dy*t}, r, col)
	}
}

func fillDisc(img *image.NRGBA, c pointF, r float64, col color.NRGBA) {
	if r < 0.5 {
		r = 0.5
	}
	x0, x1 := int(math.Floor(c.X-r)), int(math.Ceil(c.X+r))
	y0, y1 := int(math.Floor(c.Y-r)), int(math.Ceil(c.Y+r))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ddx := float64(x) + 0.5 - c.X
			ddy := float64(y) + 0.5 - c.Y
			if ddx*ddx+ddy*ddy <= r*r {
				blend(img, x, y, col)
			}
		}
	}
}

// blend does a src-over composite of col onto the pixel.
func blend(img *image.NRGBA, x, y int, col color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	if col.A == 0xff {
		img.SetNRGBA(x, y, col)
		return
	}

	dst := img.NRGBAAt(x, y)
	sa := float64(col.A) / 255
	da := float64(dst.A) / 255 * (1 - sa)
	outA := sa + da
	if outA == 0 {
		return
	}

	mix := func(s, d uint8) uint8 {
		return uint8((float64(s)*sa + float64(d)*da) / outA)
	}
	img.SetNRGBA(x, y, color.NRGBA{
		R: mix(col.R, dst.R),
		G: mix(col.G, dst.G),
		B: mix(col.B, dst.B),
		A: uint8(outA * 255),
	})
}

// parseColor understands #rgb, #rrggbb and #rrggbbaa. Anything else renders
// as opaque gray.
func parseColor(s string) color.NRGBA {
	gray := color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return gray
	}

	hex := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}

	pair := func(i int) (uint8, bool) {
		hi, ok1 := hex(s[i])
		lo, ok2 := hex(s[i+1])
		return hi<<4 | lo, ok1 && ok2
	}

	switch len(s) {
	case 4: // #rgb
		r, ok1 := hex(s[1])
		g, ok2 := hex(s[2])
		b, ok3 := hex(s[3])
		if !ok1 || !ok2 || !ok3 {
			return gray
		}
		return color.NRGBA{R: r * 17, G: g * 17, B: b * 17, A: 0xff}
	case 7: // #rrggbb
		r, ok1 := pair(1)
		g, ok2 := pair(3)
		b, ok3 := pair(5)
		if !ok1 || !ok2 || !ok3 {
			return gray
		}
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}
	case 9: // #rrggbbaa
		r, ok1 := pair(1)
		g, ok2 := pair(3)
		b, ok3 := pair(5)
		a, ok4 := pair(7)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return gray
		}
		return color.NRGBA{R: r, G: g, B: b, A: a}
	default:
		return gray
	}
}
