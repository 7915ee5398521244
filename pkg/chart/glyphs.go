package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// polygonGlyph is a filled regular polygon. rotation is the angle of the
// first vertex, 0 pointing right.
type polygonGlyph struct {
	sides    int
	rotation float64
	scale    float64
}

func (g polygonGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := float64(sty.Radius)
	if g.scale > 0 {
		r *= g.scale
	}
	pts := make([]vg.Point, g.sides)
	for k := range pts {
		a := g.rotation + 2*math.Pi*float64(k)/float64(g.sides)
		pts[k] = vg.Point{
			X: pt.X + vg.Length(r*math.Cos(a)),
			Y: pt.Y + vg.Length(r*math.Sin(a)),
		}
	}
	c.FillPolygon(sty.Color, pts)
}

// starGlyph is a filled five pointed star.
type starGlyph struct{}

func (starGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	const points = 5
	outer := float64(sty.Radius)
	inner := outer * 0.381966
	pts := make([]vg.Point, 2*points)
	for k := range pts {
		r := outer
		if k%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + math.Pi*float64(k)/points
		pts[k] = vg.Point{
			X: pt.X + vg.Length(r*math.Cos(a)),
			Y: pt.Y + vg.Length(r*math.Sin(a)),
		}
	}
	c.FillPolygon(sty.Color, pts)
}

// markers in the order series cycle through them:
// circle, square, triangle up, diamond, triangle down, triangle left,
// triangle right, pentagon, star, hexagon.
var markers = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.BoxGlyph{},
	polygonGlyph{sides: 3, rotation: math.Pi / 2},
	polygonGlyph{sides: 4, rotation: math.Pi / 2, scale: 0.9},
	polygonGlyph{sides: 3, rotation: -math.Pi / 2},
	polygonGlyph{sides: 3, rotation: math.Pi},
	polygonGlyph{sides: 3, rotation: 0},
	polygonGlyph{sides: 5, rotation: math.Pi / 2},
	starGlyph{},
	polygonGlyph{sides: 6, rotation: math.Pi / 2},
}

// Marker returns the glyph of the i-th series, wrapping around.
func Marker(i int) draw.GlyphDrawer {
	return markers[i%len(markers)]
}

// tab10 colour cycle
var palette = []color.Color{
	rgb(0x1f, 0x77, 0xb4),
	rgb(0xff, 0x7f, 0x0e),
	rgb(0x2c, 0xa0, 0x2c),
	rgb(0xd6, 0x27, 0x28),
	rgb(0x94, 0x67, 0xbd),
	rgb(0x8c, 0x56, 0x4b),
	rgb(0xe3, 0x77, 0xc2),
	rgb(0x7f, 0x7f, 0x7f),
	rgb(0xbc, 0xbd, 0x22),
	rgb(0x17, 0xbe, 0xcf),
}

func Color(i int) color.Color {
	return palette[i%len(palette)]
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
