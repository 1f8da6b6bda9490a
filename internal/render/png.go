/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

var (
	canvasBase     = color.NRGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xff}
	textShadow     = color.NRGBA{A: 0x4d}
	selectionColor = color.NRGBA{R: 0x88, G: 0xA2, B: 0xF2, A: 0xff}
	guideColor     = color.NRGBA{R: 0xDC, G: 0x3C, B: 0x22, A: 0xff}
)

// Raster paints scenes into RGBA images.
type Raster struct {
	Fonts *Fonts
}

// NewRaster returns a raster backed by the bundled fonts.
func NewRaster() (*Raster, error) {
	fs, err := NewFonts()
	if err != nil {
		return nil, err
	}
	return &Raster{Fonts: fs}, nil
}

// Render paints sc over bg. bg may be nil, leaving the dark base visible.
func (r *Raster) Render(sc Scene, bg image.Image) (*image.RGBA, error) {
	w := int(math.Round(sc.Size.W))
	h := int(math.Round(sc.Size.H))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(canvasBase), image.Point{}, draw.Src)

	if bg != nil {
		drawCover(img, bg, sc.BackgroundScale)
	}
	if sc.Overlay > 0 {
		a := uint8(math.Round(math.Min(sc.Overlay, 1) * 255))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: a}), image.Point{}, draw.Over)
	}
	for _, ly := range sc.Layers {
		if err := r.drawLayer(img, ly); err != nil {
			return nil, err
		}
	}
	if sc.Guide != nil {
		x := int(math.Round(sc.Guide.X))
		for y := int(sc.Guide.Top); y < int(sc.Guide.Bottom); y++ {
			img.Set(x, y, guideColor)
		}
	}
	return img, nil
}

// WritePNG renders and encodes sc.
func (r *Raster) WritePNG(w io.Writer, sc Scene, bg image.Image) error {
	img, err := r.Render(sc, bg)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawCover scales src to cover dst, then zooms about the center by zoom.
func drawCover(dst *image.RGBA, src image.Image, zoom float64) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	db := dst.Bounds()
	s := math.Max(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	if zoom > 1 {
		s *= zoom
	}
	dw := float64(sb.Dx()) * s
	dh := float64(sb.Dy()) * s
	x0 := (float64(db.Dx()) - dw) / 2
	y0 := (float64(db.Dy()) - dh) / 2
	dr := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x0+dw)), int(math.Ceil(y0+dh)))
	xdraw.ApproxBiLinear.Scale(dst, dr, src, sb, draw.Over, nil)
}

func (r *Raster) drawLayer(dst *image.RGBA, ly Layer) error {
	face, err := r.Fonts.Face(ly.FontFamily, ly.Size)
	if err != nil {
		return err
	}
	b := layout(face, ly)
	bw := int(math.Ceil(b.W)) + 2
	bh := int(math.Ceil(b.H)) + 2
	if bw <= 2 || bh <= 2 {
		return nil
	}
	tile := image.NewRGBA(image.Rect(0, 0, bw, bh))
	for _, pl := range b.Lines {
		drawText(tile, face, pl, ly.Tracking, 0, 1, textShadow)
		drawText(tile, face, pl, ly.Tracking, 0, 0, ly.Color)
	}
	if ly.Selected {
		dashedRect(tile, tile.Bounds(), selectionColor)
	}

	if ly.Rotation == 0 {
		at := image.Pt(int(math.Round(ly.X)), int(math.Round(ly.Y)))
		draw.Draw(dst, tile.Bounds().Add(at), tile, image.Point{}, draw.Over)
		return nil
	}
	// rotate about the box center
	th := ly.Rotation * math.Pi / 180
	cos, sin := math.Cos(th), math.Sin(th)
	hw, hh := float64(bw)/2, float64(bh)/2
	cx, cy := ly.X+hw, ly.Y+hh
	m := f64.Aff3{
		cos, -sin, cx - cos*hw + sin*hh,
		sin, cos, cy - sin*hw - cos*hh,
	}
	xdraw.BiLinear.Transform(dst, m, tile, tile.Bounds(), draw.Over, nil)
	return nil
}

func drawText(dst *image.RGBA, face font.Face, pl placedLine, tracking, dx, dy float64, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(1 + pl.Left + dx), Y: toFixed(1 + pl.Baseline + dy)},
	}
	if tracking == 0 {
		d.DrawString(pl.Text)
		return
	}
	for _, ch := range pl.Text {
		d.DrawString(string(ch))
		d.Dot.X += toFixed(tracking)
	}
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func dashedRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	const dash = 4
	for x := r.Min.X; x < r.Max.X; x++ {
		if (x/dash)%2 == 0 {
			img.Set(x, r.Min.Y, c)
			img.Set(x, r.Max.Y-1, c)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if (y/dash)%2 == 0 {
			img.Set(r.Min.X, y, c)
			img.Set(r.Max.X-1, y, c)
		}
	}
}
