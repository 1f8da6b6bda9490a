/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"invitecanvas/internal/geom"
	"invitecanvas/internal/manifest"
)

// WriteSVG serializes sc. Line breaks are computed with the same faces as the
// raster surface so both agree on wrapping; the viewer supplies the glyphs.
func WriteSVG(w io.Writer, sc Scene, fs *Fonts) error {
	var buf bytes.Buffer
	wd, ht := num(sc.Size.W), num(sc.Size.H)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n", wd, ht, wd, ht)
	fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", wd, ht, hex(canvasBase))
	if sc.Background != "" {
		cx, cy := num(sc.Size.W/2), num(sc.Size.H/2)
		zoom := sc.BackgroundScale
		if zoom < 1 {
			zoom = 1
		}
		fmt.Fprintf(&buf, `  <image href="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" transform="translate(%s %s) scale(%s) translate(-%s -%s)"/>`+"\n",
			attr(sc.Background), wd, ht, cx, cy, num(zoom), cx, cy)
	}
	if sc.Overlay > 0 {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="#000000" fill-opacity="%s"/>`+"\n", wd, ht, num(sc.Overlay))
	}
	for _, ly := range sc.Layers {
		face, err := fs.Face(ly.FontFamily, ly.Size)
		if err != nil {
			return err
		}
		b := layout(face, ly)
		fmt.Fprintf(&buf, `  <g id="%s"`, attr(string(ly.Key)))
		if ly.Rotation != 0 {
			fmt.Fprintf(&buf, ` transform="rotate(%s %s %s)"`, num(ly.Rotation), num(ly.X+b.W/2), num(ly.Y+b.H/2))
		}
		buf.WriteString(">\n")
		anchor, ax := "start", ly.X
		switch ly.Align {
		case manifest.AlignCenter:
			anchor, ax = "middle", ly.X+b.W/2
		case manifest.AlignRight:
			anchor, ax = "end", ly.X+b.W
		}
		for _, pl := range b.Lines {
			fmt.Fprintf(&buf, `    <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="%s"`,
				num(ax), num(ly.Y+pl.Baseline), attr(ly.FontFamily), num(ly.Size), hex(ly.Color), anchor)
			if ly.Tracking != 0 {
				fmt.Fprintf(&buf, ` letter-spacing="%s"`, num(ly.Tracking))
			}
			buf.WriteString(">")
			_ = xml.EscapeText(&buf, []byte(pl.Text))
			buf.WriteString("</text>\n")
		}
		if ly.Selected {
			fmt.Fprintf(&buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
				num(ly.X), num(ly.Y), num(b.W), num(b.H), hex(selectionColor))
		}
		buf.WriteString("  </g>\n")
	}
	if g := sc.Guide; g != nil {
		fmt.Fprintf(&buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(g.X), num(g.Top), num(g.X), num(g.Bottom), hex(guideColor))
	}
	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func num(v float64) string { return strconv.FormatFloat(geom.Round(v, 3), 'f', -1, 64) }

func hex(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

func attr(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
