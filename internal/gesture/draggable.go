/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"strings"
	"unicode/utf8"

	"invitecanvas/internal/geom"
	"invitecanvas/internal/manifest"
)

// Phase of a draggable element.
type Phase int

const (
	Idle Phase = iota
	Selected
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

const defaultElementWidth = 100.0

// avgAdvance approximates a glyph advance as a fraction of the font size.
const avgAdvance = 0.55

// LineCounter returns how many lines an element wraps to in its box.
type LineCounter func(el manifest.ElementSpec) int

// EstimateLines wraps on spaces with an average glyph advance. It stands in
// for real font metrics when none are loaded.
func EstimateLines(el manifest.ElementSpec) int {
	adv := func(s string) float64 {
		n := utf8.RuneCountInString(s)
		if n == 0 {
			return 0
		}
		return float64(n)*el.Size*avgAdvance + el.Tracking*float64(n-1)
	}
	lines := 0
	for _, para := range strings.Split(el.Text, "\n") {
		words := strings.Fields(para)
		lines++
		if len(words) == 0 {
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if el.Width > 0 && adv(next) > el.Width {
				lines++
				cur = w
				continue
			}
			cur = next
		}
	}
	return lines
}

// Draggable tracks the device-space translation of one text element while it
// is being moved. The committed position lives in reference units; the
// translation is derived from it and the current transform.
type Draggable struct {
	Key manifest.ElementKey

	phase     Phase
	ref       geom.Pt // committed reference position
	width     float64 // reference width
	height    float64 // reference height of the wrapped text block
	visible   bool
	tr        geom.Transform
	pending   *geom.Transform // unusable layout seen mid-drag
	lines     LineCounter
	origin    geom.Pt
	trans     geom.Pt
	snapped   bool
	threshold float64
	fb        Feedback
}

// NewDraggable binds an element to a transform. A nil fb discards pulses.
func NewDraggable(key manifest.ElementKey, el manifest.ElementSpec, tr geom.Transform, fb Feedback) *Draggable {
	if fb == nil {
		fb = nopFeedback{}
	}
	d := &Draggable{Key: key, tr: tr, fb: fb, threshold: geom.DefaultSnapThreshold, lines: EstimateLines}
	d.Sync(el)
	return d
}

// SetSnapThreshold overrides the center guide distance in device pixels.
func (d *Draggable) SetSnapThreshold(px float64) {
	if px > 0 {
		d.threshold = px
	}
}

// SetLineCounter replaces the line estimate used for the hit box, typically
// with one backed by loaded fonts. Call Sync afterwards.
func (d *Draggable) SetLineCounter(fn LineCounter) {
	if fn != nil {
		d.lines = fn
	}
}

// Sync refreshes the element geometry after an external change. A drag in
// progress keeps its own translation.
func (d *Draggable) Sync(el manifest.ElementSpec) {
	d.ref = geom.Pt{X: el.X, Y: el.Y}
	d.width = el.Width
	if d.width <= 0 {
		d.width = defaultElementWidth
	}
	d.height = el.Size * el.EffectiveLineHeight() * float64(max(d.lines(el), 1))
	d.visible = el.Visible
	if !d.visible && d.phase == Dragging {
		d.phase = Selected
	}
	if d.phase != Dragging {
		d.trans = d.tr.ToDevice(d.ref)
	}
}

// SetTransform rebinds the element after a container resize. A running drag
// is carried over into the new scale. An unusable transform seen mid-drag is
// deferred until the drag ends so the commit goes through the last valid one.
func (d *Draggable) SetTransform(tr geom.Transform) {
	if d.phase == Dragging {
		if !tr.Valid() {
			d.pending = &tr
			return
		}
		d.origin = tr.ToDevice(d.tr.ToReference(d.origin))
		d.trans = tr.ToDevice(d.tr.ToReference(d.trans))
		d.tr = tr
		d.pending = nil
		return
	}
	d.tr = tr
	d.trans = d.tr.ToDevice(d.ref)
}

// settle applies a transform deferred during the drag.
func (d *Draggable) settle() {
	if d.pending != nil {
		d.tr = *d.pending
		d.pending = nil
	}
	d.trans = d.tr.ToDevice(d.ref)
}

func (d *Draggable) Phase() Phase { return d.phase }

// Translation is the current device-space offset of the element box.
func (d *Draggable) Translation() geom.Pt { return d.trans }

// Snapped reports whether the element is locked onto the center guide.
func (d *Draggable) Snapped() bool { return d.phase == Dragging && d.snapped }

// Bounds returns the element box in device space.
func (d *Draggable) Bounds() geom.Rect {
	return geom.Rect{X: d.trans.X, Y: d.trans.Y, W: d.tr.Len(d.width), H: d.tr.Len(d.height)}
}

// HitTest reports whether a device point lands on the element. Hidden
// elements never hit.
func (d *Draggable) HitTest(p geom.Pt) bool {
	return d.visible && d.Bounds().Contains(p)
}

// Tap selects the element and returns its key. A tap that lands during a drag
// leaves the drag running since the pan already selected it.
func (d *Draggable) Tap() (manifest.ElementKey, bool) {
	if !d.visible {
		return "", false
	}
	if d.phase != Dragging {
		d.phase = Selected
	}
	return d.Key, true
}

// Deselect returns the element to Idle. A drag in progress is abandoned and
// the translation snaps back to the committed position.
func (d *Draggable) Deselect() {
	d.phase = Idle
	d.snapped = false
	d.settle()
}

// PanStart begins a drag from the current translation. Pan and tap compose,
// so starting from Idle selects as well.
func (d *Draggable) PanStart() bool {
	if !d.visible || !d.tr.Valid() {
		return false
	}
	d.phase = Dragging
	d.origin = d.trans
	d.snapped = false
	d.fb.Pulse(PulseGrab)
	return true
}

// PanUpdate moves the element by the total device delta since PanStart.
// The horizontal position locks onto the canvas center when close enough and
// a snap pulse fires only when the lock engages.
func (d *Draggable) PanUpdate(dx, dy float64) geom.Pt {
	if d.phase != Dragging {
		return d.trans
	}
	next := d.origin.Add(geom.Pt{X: dx, Y: dy})
	x, snapped := geom.SnapCenter(next.X, d.tr.Len(d.width), d.tr.Canvas.W, d.threshold)
	if snapped && !d.snapped {
		d.fb.Pulse(PulseSnap)
	}
	d.snapped = snapped
	d.trans = geom.Pt{X: x, Y: next.Y}
	return d.trans
}

// PanEnd finishes the drag and returns the new reference position: the device
// translation divided by the scale.
func (d *Draggable) PanEnd() (geom.Pt, bool) {
	if d.phase != Dragging {
		return d.ref, false
	}
	d.phase = Selected
	d.snapped = false
	d.ref = d.tr.ToReference(d.trans)
	d.settle()
	return d.ref, true
}
