// Package chart renders ';' separated tables as line charts: the first
// column is the x axis, every other column becomes a series.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"qperf/pkg/data"
)

const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
	DPI    = 300

	Delimiter = ';'
	YLabel    = "Values"
)

var gridColor = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 77}

// New builds the line chart of t. The y axis is fixed to [0, 1].
func New(t *data.Table, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = t.XLabel()
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Legend.Top = false
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(10)
	p.Legend.XOffs = vg.Points(6)
	p.Legend.YOffs = vg.Points(6)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Width = vg.Points(0.8)
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Width = vg.Points(0.8)
	p.Add(grid)

	xs := t.X()
	for i, name := range t.SeriesNames() {
		ys := t.Series(i)
		pts := make(plotter.XYs, len(xs))
		for k := range xs {
			pts[k].X = xs[k]
			pts[k].Y = ys[k]
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", name, err)
		}
		c := Color(i)
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = c
		points.GlyphStyle.Shape = Marker(i)
		points.GlyphStyle.Radius = vg.Points(4)
		points.GlyphStyle.Color = c
		p.Add(line, points)
		p.Legend.Add(name, line, points)
	}
	p.Y.Min = 0
	p.Y.Max = 1
	return p, nil
}

// Save renders p into path. The format follows the file extension; a
// path without extension gets ".png". The returned path is the file
// actually written. Nothing is written if rendering fails.
func Save(p *plot.Plot, path string, dpi int) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		path += ".png"
		ext = ".png"
	}
	var buf bytes.Buffer
	var wt io.WriterTo
	switch format := ext[1:]; format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		c := vgimg.NewWith(vgimg.UseWH(Width, Height), vgimg.UseDPI(dpi))
		p.Draw(draw.New(c))
		switch format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: c}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: c}
		default:
			wt = vgimg.TiffCanvas{Canvas: c}
		}
	case "svg", "pdf", "eps":
		var err error
		wt, err = p.WriterTo(Width, Height, format)
		if err != nil {
			return "", fmt.Errorf("failed to render chart: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}
	return path, nil
}

// Render reads the table from in and writes the chart described by args.
func Render(in io.Reader, args Args) (string, error) {
	t, err := data.ReadTable(in, Delimiter)
	if err != nil {
		return "", err
	}
	p, err := New(t, args.Title)
	if err != nil {
		return "", err
	}
	return Save(p, args.Output, DPI)
}
