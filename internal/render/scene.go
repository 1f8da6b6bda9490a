/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render composes a design into a device-space scene and rasterizes
// or serializes it. Compose is pure; the surfaces only read the scene.
package render

import (
	"image/color"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"invitecanvas/internal/design"
	"invitecanvas/internal/geom"
	"invitecanvas/internal/manifest"
)

// Layer is one visible text element in device units.
type Layer struct {
	Key        manifest.ElementKey
	Text       string
	X, Y       float64
	Width      float64
	Size       float64
	LineHeight float64 // absolute, in device pixels
	Tracking   float64
	Align      manifest.Align
	FontFamily string
	Color      color.NRGBA
	Rotation   float64
	Selected   bool
}

// Scene is everything a surface needs to paint one frame.
type Scene struct {
	Size            geom.Size
	Background      string
	BackgroundScale float64
	Overlay         float64
	Layers          []Layer
	// Guide is set while a dragged element is locked onto the center line.
	Guide *geom.Guide
}

// Options tweak composition for the edit surface.
type Options struct {
	Selected manifest.ElementKey
	// Rotations overrides element rotation, e.g. with a live spring value.
	Rotations map[manifest.ElementKey]float64
	// Offsets replaces the position of an element being dragged, in device units.
	Offsets   map[manifest.ElementKey]geom.Pt
	ShowGuide bool
}

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Compose maps s through tr. ok is false while tr is unusable, which happens
// until the container has been laid out.
func Compose(s *design.State, tr geom.Transform, opt Options) (Scene, bool) {
	if s == nil || !tr.Valid() {
		return Scene{}, false
	}
	sc := Scene{
		Size:            tr.Canvas,
		Background:      s.Background,
		BackgroundScale: s.BackgroundScale,
		Overlay:         s.OverlayOpacity,
	}
	if sc.BackgroundScale < 1 {
		sc.BackgroundScale = 1
	}
	upper := cases.Upper(language.Und)

	var selected *Layer
	for _, k := range manifest.Keys() {
		el, ok := s.Elements[k]
		if !ok || !el.Visible {
			continue
		}
		text := el.Text
		if el.Uppercase {
			text = upper.String(text)
		}
		c, err := design.ParseColor(el.Color)
		if err != nil {
			c = white
		}
		pos := tr.ToDevice(geom.Pt{X: el.X, Y: el.Y})
		if p, ok := opt.Offsets[k]; ok {
			pos = p
		}
		rot := el.Rotation
		if r, ok := opt.Rotations[k]; ok {
			rot = r
		}
		ly := Layer{
			Key:        k,
			Text:       text,
			X:          pos.X,
			Y:          pos.Y,
			Width:      tr.Len(el.Width),
			Size:       tr.Len(el.Size),
			LineHeight: tr.Len(el.Size * el.EffectiveLineHeight()),
			Tracking:   tr.Len(el.Tracking),
			Align:      el.Align,
			FontFamily: el.EffectiveFont(),
			Color:      c,
			Rotation:   rot,
			Selected:   k == opt.Selected,
		}
		if ly.Selected {
			selected = &ly
			continue
		}
		sc.Layers = append(sc.Layers, ly)
	}
	if selected != nil {
		sc.Layers = append(sc.Layers, *selected)
	}
	if opt.ShowGuide {
		g := geom.CenterGuide(sc.Size)
		sc.Guide = &g
	}
	return sc, true
}
