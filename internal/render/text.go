/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"invitecanvas/internal/manifest"
)

// placedLine is one wrapped line, positioned relative to the layer origin.
type placedLine struct {
	Text     string
	Left     float64
	Baseline float64
	Width    float64
}

type block struct {
	Lines []placedLine
	W, H  float64
}

// measure returns the advance of s in pixels including tracking between glyphs.
func measure(face font.Face, s string, tracking float64) float64 {
	w := float64(font.MeasureString(face, s)) / 64
	if n := utf8.RuneCountInString(s); n > 1 {
		w += tracking * float64(n-1)
	}
	return w
}

// wrap breaks text on spaces so each line fits maxWidth. Explicit newlines are
// kept. A single word wider than the box gets a line of its own.
func wrap(face font.Face, text string, maxWidth, tracking float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if maxWidth > 0 && measure(face, next, tracking) > maxWidth {
				out = append(out, cur)
				cur = w
				continue
			}
			cur = next
		}
		out = append(out, cur)
	}
	return out
}

// layout wraps ly into its box and computes per-line positions.
func layout(face font.Face, ly Layer) block {
	lines := wrap(face, ly.Text, ly.Width, ly.Tracking)
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	glyphH := ascent + float64(m.Descent)/64
	lh := ly.LineHeight
	if lh <= 0 {
		lh = glyphH
	}
	b := block{W: ly.Width, H: lh * float64(len(lines))}
	for i, s := range lines {
		w := measure(face, s, ly.Tracking)
		if w > b.W {
			b.W = w
		}
		b.Lines = append(b.Lines, placedLine{
			Text:     s,
			Width:    w,
			Baseline: float64(i)*lh + (lh-glyphH)/2 + ascent,
		})
	}
	for i := range b.Lines {
		b.Lines[i].Left = alignOffset(ly.Align, b.W, b.Lines[i].Width)
	}
	return b
}

func alignOffset(a manifest.Align, boxW, lineW float64) float64 {
	switch a {
	case manifest.AlignCenter:
		return (boxW - lineW) / 2
	case manifest.AlignRight:
		return boxW - lineW
	}
	return 0
}

// LineCount wraps el with its real font metrics at reference size.
func (fs *Fonts) LineCount(el manifest.ElementSpec) int {
	face, err := fs.Face(el.EffectiveFont(), el.Size)
	if err != nil {
		return 1
	}
	text := el.Text
	if el.Uppercase {
		text = cases.Upper(language.Und).String(text)
	}
	return len(wrap(face, text, el.Width, el.Tracking))
}
