/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor binds selection, tool panel and canvas. A Stage owns one
// design and is mutated only through Apply; a Loop runs it on one goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"invitecanvas/internal/design"
	"invitecanvas/internal/geom"
	"invitecanvas/internal/gesture"
	applog "invitecanvas/internal/log"
	"invitecanvas/internal/manifest"
	"invitecanvas/internal/render"
)

// Size slider bounds.
const (
	MinTextSize = 10.0
	MaxTextSize = 100.0
)

var (
	ErrDragInProgress = errors.New("another element is being dragged")
	ErrNotDragging    = errors.New("element is not being dragged")
	ErrNotDraggable   = errors.New("element cannot be dragged")
	ErrClosed         = errors.New("editor session is closed")
	ErrUnknownEvent   = errors.New("unknown event")
)

// Options configure a stage. Zero values take the defaults.
type Options struct {
	SnapThreshold float64
	MaxZoom       float64
	Feedback      gesture.Feedback
	// Lines measures wrapped text for hit boxes. Nil uses an estimate.
	Lines gesture.LineCounter
}

// Snapshot is an immutable view of the stage for subscribers.
type Snapshot struct {
	State    *design.State
	Fields   design.EventFields
	Selected manifest.ElementKey
	Dragging manifest.ElementKey
	Tool     ToolMode
	Scene    render.Scene
	// Ready is false until a Resize with a real size has arrived.
	Ready bool
}

// Stage is the single reducer owning a DesignState.
type Stage struct {
	state    *design.State
	fields   design.EventFields
	tr       geom.Transform
	ready    bool
	selected manifest.ElementKey
	dragging manifest.ElementKey
	tool     ToolMode
	drags    map[manifest.ElementKey]*gesture.Draggable
	springs  map[manifest.ElementKey]*gesture.RotationSpring
	pinch    *gesture.Pinch
	opt      Options
	closed   bool
	log      *slog.Logger
}

// NewStage creates the design from m, hydrates it with fields and selects
// the main title.
func NewStage(m manifest.Manifest, background string, overlay float64, fields design.EventFields, opt Options) *Stage {
	if opt.SnapThreshold <= 0 {
		opt.SnapThreshold = geom.DefaultSnapThreshold
	}
	if opt.MaxZoom < gesture.MinBackgroundScale {
		opt.MaxZoom = gesture.DefaultMaxBackgroundScale
	}
	st := design.New(m, background, overlay)
	design.Hydrate(st, fields)
	s := &Stage{
		state:    st,
		fields:   fields,
		selected: manifest.Main,
		tool:     ToolStyle,
		pinch:    gesture.NewPinch(st.BackgroundScale, opt.MaxZoom),
		opt:      opt,
		log:      applog.WithComponent("editor").With(slog.String("design_id", st.ID)),
	}
	s.rebuild()
	return s
}

// rebuild recreates gesture trackers after the element set or layout changed.
func (s *Stage) rebuild() {
	s.dragging = ""
	s.drags = make(map[manifest.ElementKey]*gesture.Draggable, len(s.state.Elements))
	prev := s.springs
	s.springs = make(map[manifest.ElementKey]*gesture.RotationSpring, len(s.state.Elements))
	for k, el := range s.state.Elements {
		d := gesture.NewDraggable(k, el, s.tr, s.opt.Feedback)
		d.SetSnapThreshold(s.opt.SnapThreshold)
		if s.opt.Lines != nil {
			d.SetLineCounter(s.opt.Lines)
			d.Sync(el)
		}
		s.drags[k] = d
		if sp, ok := prev[k]; ok {
			sp.SetTarget(el.Rotation)
			s.springs[k] = sp
		} else {
			s.springs[k] = gesture.NewRotationSpring(el.Rotation)
		}
	}
	if _, ok := s.state.Elements[s.selected]; !ok {
		s.selected = ""
	}
	if d, ok := s.drags[s.selected]; ok {
		d.Tap()
	}
}

func (s *Stage) element(k manifest.ElementKey) (manifest.ElementSpec, error) {
	return s.state.Element(k)
}

// edit updates k and refreshes its draggable.
func (s *Stage) edit(k manifest.ElementKey, fn func(*manifest.ElementSpec)) error {
	if err := s.state.Update(k, fn); err != nil {
		return err
	}
	s.drags[k].Sync(s.state.Elements[k])
	if s.dragging == k && s.drags[k].Phase() != gesture.Dragging {
		s.dragging = ""
	}
	return nil
}

// Apply reduces one event into the stage.
func (s *Stage) Apply(ev Event) error {
	if s.closed {
		return ErrClosed
	}
	switch e := ev.(type) {
	case SelectElement:
		return s.selectKey(e.Key)
	case ClearSelection:
		for _, d := range s.drags {
			if d.Phase() != gesture.Dragging {
				d.Deselect()
			}
		}
		if s.dragging == "" {
			s.selected = ""
		}
	case TapAt:
		if k, ok := s.hit(e.Point); ok {
			return s.selectKey(k)
		}
		return s.Apply(ClearSelection{})
	case BeginDrag:
		return s.beginDrag(e.Key)
	case UpdateDrag:
		if s.dragging == "" || s.dragging != e.Key {
			return fmt.Errorf("%w: %s", ErrNotDragging, e.Key)
		}
		s.drags[e.Key].PanUpdate(e.DX, e.DY)
	case EndDrag:
		return s.endDrag(e.Key)
	case PinchUpdate:
		s.state.BackgroundScale = s.pinch.Update(e.Scale)
	case PinchEnd:
		s.state.BackgroundScale = s.pinch.End()
	case SetRotation:
		if err := s.edit(e.Key, func(el *manifest.ElementSpec) { el.Rotation = clampRotation(e.Degrees) }); err != nil {
			return err
		}
		s.springs[e.Key].SetTarget(s.state.Elements[e.Key].Rotation)
	case Tick:
		for _, sp := range s.springs {
			sp.Tick(e.DT)
		}
	case Resize:
		s.tr, s.ready = geom.Fit(e.Size, e.Bounded, e.Padding)
		for _, d := range s.drags {
			d.SetTransform(s.tr)
		}
	case SetText:
		if err := s.edit(e.Key, func(el *manifest.ElementSpec) { el.Text = e.Text }); err != nil {
			return err
		}
		s.state.MarkEdited(e.Key)
	case SetSize:
		return s.edit(e.Key, func(el *manifest.ElementSpec) { el.Size = geom.Clamp(math.Round(e.Size), MinTextSize, MaxTextSize) })
	case SetFont:
		return s.edit(e.Key, func(el *manifest.ElementSpec) { el.FontFamily = e.Family })
	case SetColor:
		c, err := design.NormalizeColor(e.Color)
		if err != nil {
			return err
		}
		if err := s.edit(e.Key, func(el *manifest.ElementSpec) { el.Color = c }); err != nil {
			return err
		}
		s.state.MarkEdited(e.Key)
	case SetAlign:
		return s.edit(e.Key, func(el *manifest.ElementSpec) { el.Align = manifest.ParseAlign(string(e.Align)) })
	case SetVisible:
		return s.edit(e.Key, func(el *manifest.ElementSpec) { el.Visible = e.Visible })
	case SetOverlay:
		s.state.OverlayOpacity = geom.Clamp(e.Opacity, 0, 1)
	case SetBackground:
		s.state.Background = e.URI
		if e.Custom {
			s.state.OverlayOpacity = 0
		}
		s.state.BackgroundScale = gesture.MinBackgroundScale
		s.pinch = gesture.NewPinch(s.state.BackgroundScale, s.opt.MaxZoom)
	case ApplyTemplate:
		if err := e.Manifest.Validate(); err != nil {
			return err
		}
		s.state.ApplyManifest(e.Manifest)
		if e.Background != "" {
			s.state.Background = e.Background
			s.state.BackgroundScale = gesture.MinBackgroundScale
			s.pinch = gesture.NewPinch(s.state.BackgroundScale, s.opt.MaxZoom)
		}
		design.Hydrate(s.state, s.fields)
		s.rebuild()
		s.log.Info("template applied", slog.String("manifest", e.Manifest.ID))
	case UpdateEventFields:
		s.fields = e.Fields
		design.Hydrate(s.state, s.fields)
		for k, d := range s.drags {
			d.Sync(s.state.Elements[k])
		}
	case SetTool:
		if !e.Mode.Valid() {
			return fmt.Errorf("unknown tool %q", string(e.Mode))
		}
		s.tool = e.Mode
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return nil
}

func (s *Stage) selectKey(k manifest.ElementKey) error {
	if _, err := s.element(k); err != nil {
		return err
	}
	for key, d := range s.drags {
		if key != k && d.Phase() == gesture.Selected {
			d.Deselect()
		}
	}
	s.drags[k].Tap()
	s.selected = k
	return nil
}

// hit returns the topmost visible element under p. The selected element
// paints last, so it wins over the others.
func (s *Stage) hit(p geom.Pt) (manifest.ElementKey, bool) {
	if d, ok := s.drags[s.selected]; ok && d.HitTest(p) {
		return s.selected, true
	}
	keys := manifest.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if d, ok := s.drags[keys[i]]; ok && d.HitTest(p) {
			return keys[i], true
		}
	}
	return "", false
}

func (s *Stage) beginDrag(k manifest.ElementKey) error {
	if _, err := s.element(k); err != nil {
		return err
	}
	if s.dragging != "" && s.dragging != k {
		return fmt.Errorf("%w: %s", ErrDragInProgress, s.dragging)
	}
	if !s.drags[k].PanStart() {
		return fmt.Errorf("%w: %s", ErrNotDraggable, k)
	}
	s.dragging = k
	for key, d := range s.drags {
		if key != k && d.Phase() == gesture.Selected {
			d.Deselect()
		}
	}
	s.selected = k
	return nil
}

func (s *Stage) endDrag(k manifest.ElementKey) error {
	if s.dragging == "" || s.dragging != k {
		return fmt.Errorf("%w: %s", ErrNotDragging, k)
	}
	ref, ok := s.drags[k].PanEnd()
	s.dragging = ""
	if !ok {
		return nil
	}
	return s.state.Update(k, func(el *manifest.ElementSpec) {
		el.X, el.Y = ref.X, ref.Y
	})
}

// Snapshot returns a deep copy of the stage and the composed scene.
func (s *Stage) Snapshot() Snapshot {
	snap := Snapshot{
		State:    s.state.Clone(),
		Fields:   s.fields,
		Selected: s.selected,
		Dragging: s.dragging,
		Tool:     s.tool,
	}
	opt := render.Options{Selected: s.selected, Rotations: make(map[manifest.ElementKey]float64, len(s.springs))}
	for k, sp := range s.springs {
		opt.Rotations[k] = sp.Value()
	}
	if s.dragging != "" {
		d := s.drags[s.dragging]
		opt.Offsets = map[manifest.ElementKey]geom.Pt{s.dragging: d.Translation()}
		opt.ShowGuide = d.Snapped()
	}
	snap.Scene, snap.Ready = render.Compose(snap.State, s.tr, opt)
	snap.Ready = snap.Ready && s.ready
	return snap
}

// State returns a copy of the current design.
func (s *Stage) State() *design.State { return s.state.Clone() }

// Finish hands a copy of the design to sink and closes the stage. A sink
// error leaves the stage open so the caller can retry.
func (s *Stage) Finish(ctx context.Context, sink Sink) error {
	if s.closed {
		return ErrClosed
	}
	if s.dragging != "" {
		_ = s.endDrag(s.dragging)
	}
	out := s.state.Clone()
	if err := sink.Save(ctx, out); err != nil {
		s.log.Error("hand-off failed", slog.Any("err", err))
		return fmt.Errorf("finish design: %w", err)
	}
	s.closed = true
	s.log.Info("design finished", slog.String("manifest", out.ManifestID))
	return nil
}

// Cancel discards the design.
func (s *Stage) Cancel() {
	if !s.closed {
		s.closed = true
		s.log.Info("design discarded")
	}
}

// Closed reports whether Finish or Cancel ended the session.
func (s *Stage) Closed() bool { return s.closed }

func clampRotation(deg float64) float64 { return geom.Clamp(deg, -180, 180) }
