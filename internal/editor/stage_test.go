/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"invitecanvas/internal/design"
	"invitecanvas/internal/geom"
	"invitecanvas/internal/gesture"
	"invitecanvas/internal/manifest"
)

func builtin(t *testing.T, id string) manifest.Manifest {
	t.Helper()
	m, ok := manifest.NewRegistry().ByID(id)
	if !ok {
		t.Fatalf("manifest %q missing", id)
	}
	return m
}

func birthday() design.EventFields {
	return design.EventFields{
		Name:     "Sarah's 30th",
		Type:     "Birthday",
		Date:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Time:     time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC),
		Location: "The Rooftop",
	}
}

func newStage(t *testing.T) *Stage {
	t.Helper()
	return NewStage(builtin(t, "impact"), "file://bg.jpg", 0.2, birthday(), Options{})
}

func apply(t *testing.T, s *Stage, evs ...Event) {
	t.Helper()
	for _, ev := range evs {
		if err := s.Apply(ev); err != nil {
			t.Fatalf("Apply(%T): %v", ev, err)
		}
	}
}

func TestNewStageHydratesAndSelectsMain(t *testing.T) {
	s := newStage(t)
	snap := s.Snapshot()
	if snap.Selected != manifest.Main || snap.Tool != ToolStyle {
		t.Fatalf("selected=%q tool=%q", snap.Selected, snap.Tool)
	}
	if got := snap.State.Elements[manifest.Main].Text; got != "Sarah's 30th" {
		t.Fatalf("main text = %q", got)
	}
	if snap.Ready {
		t.Fatalf("snapshot ready before first layout")
	}
}

func TestDragCommitsThroughScale(t *testing.T) {
	s := newStage(t)
	apply(t, s,
		Resize{Size: geom.Size{W: 300, H: 800}},
		BeginDrag{Key: manifest.Main},
		UpdateDrag{Key: manifest.Main, DX: 10, DY: -5},
		UpdateDrag{Key: manifest.Main, DX: 40, DY: -20},
	)
	mid := s.Snapshot()
	if mid.Dragging != manifest.Main || !mid.Ready {
		t.Fatalf("dragging=%q ready=%v", mid.Dragging, mid.Ready)
	}
	if el := mid.State.Elements[manifest.Main]; el.X != 20 || el.Y != 60 {
		t.Fatalf("state moved before drag end: %+v", el)
	}
	apply(t, s, EndDrag{Key: manifest.Main})
	el := s.State().Elements[manifest.Main]
	if !geom.NearlyEqual(el.X, 70, 1e-9) || !geom.NearlyEqual(el.Y, 35, 1e-9) {
		t.Fatalf("committed (%v,%v), want (70,35)", el.X, el.Y)
	}
}

func TestOnlyOneDragAtATime(t *testing.T) {
	s := newStage(t)
	apply(t, s, Resize{Size: geom.Size{W: 375}}, BeginDrag{Key: manifest.Main})
	if err := s.Apply(BeginDrag{Key: manifest.Header}); !errors.Is(err, ErrDragInProgress) {
		t.Fatalf("second drag err = %v", err)
	}
	if err := s.Apply(UpdateDrag{Key: manifest.Header, DX: 5}); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("update of idle element err = %v", err)
	}
	if err := s.Apply(EndDrag{Key: manifest.Header}); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("end of idle element err = %v", err)
	}
	apply(t, s, EndDrag{Key: manifest.Main}, BeginDrag{Key: manifest.Header})
	if s.Snapshot().Selected != manifest.Header {
		t.Fatalf("drag should select the dragged element")
	}
}

func TestSelectDuringDragKeepsDragging(t *testing.T) {
	s := newStage(t)
	apply(t, s, Resize{Size: geom.Size{W: 375}}, BeginDrag{Key: manifest.Main}, SelectElement{Key: manifest.Main})
	if s.Snapshot().Dragging != manifest.Main {
		t.Fatalf("tap interrupted the drag")
	}
}

func TestDragBeforeLayoutIsRefused(t *testing.T) {
	s := newStage(t)
	if err := s.Apply(BeginDrag{Key: manifest.Main}); !errors.Is(err, ErrNotDraggable) {
		t.Fatalf("err = %v", err)
	}
}

func TestHiddenElementCannotBeDragged(t *testing.T) {
	s := newStage(t)
	apply(t, s, Resize{Size: geom.Size{W: 375}})
	if err := s.Apply(BeginDrag{Key: manifest.TimeLabel}); !errors.Is(err, ErrNotDraggable) {
		t.Fatalf("hidden timeLabel err = %v", err)
	}
}

func TestSnapShowsGuide(t *testing.T) {
	var pulses []gesture.Pulse
	fb := gesture.FeedbackFunc(func(p gesture.Pulse) { pulses = append(pulses, p) })
	s := NewStage(builtin(t, "impact"), "", 0.2, birthday(), Options{Feedback: fb})
	apply(t, s, Resize{Size: geom.Size{W: 375}}, BeginDrag{Key: manifest.Main}, UpdateDrag{Key: manifest.Main, DX: 3})
	sc := s.Snapshot().Scene
	if sc.Guide == nil {
		t.Fatalf("guide missing while snapped")
	}
	top := sc.Layers[len(sc.Layers)-1]
	if top.Key != manifest.Main || !geom.NearlyEqual(top.X, 20, 1e-9) {
		t.Fatalf("top layer = %q at x=%v", top.Key, top.X)
	}
	if len(pulses) != 2 || pulses[0] != gesture.PulseGrab || pulses[1] != gesture.PulseSnap {
		t.Fatalf("pulses = %v", pulses)
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	s := newStage(t)
	err := s.Apply(SetText{Key: "subtitle", Text: "x"})
	if !errors.Is(err, manifest.ErrUnknownKey) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyTemplateRehydratesAndKeepsEdits(t *testing.T) {
	s := newStage(t)
	apply(t, s,
		SetText{Key: manifest.Main, Text: "Custom Title"},
		ApplyTemplate{Manifest: builtin(t, "vogue"), Background: "file://vogue.jpg"},
	)
	st := s.State()
	if st.ManifestID != "vogue" || st.Background != "file://vogue.jpg" {
		t.Fatalf("template not applied: %s %s", st.ManifestID, st.Background)
	}
	if got := st.Elements[manifest.Main].Text; got != "Custom Title" {
		t.Fatalf("edited main = %q", got)
	}
	if got := st.Elements[manifest.Header].Text; got != "Birthday" {
		t.Fatalf("header not hydrated: %q", got)
	}
	if got, want := st.Elements[manifest.Main].X, builtin(t, "vogue").Elements[manifest.Main].X; got != want {
		t.Fatalf("main x = %v, want layout %v", got, want)
	}
}

func TestUpdateEventFieldsIsSeedOnly(t *testing.T) {
	s := newStage(t)
	f := birthday()
	f.Name = "Bob"
	f.Type = "Party"
	apply(t, s, SetText{Key: manifest.Header, Text: "Hello"}, UpdateEventFields{Fields: f})
	st := s.State()
	if st.Elements[manifest.Main].Text != "Bob" || st.Elements[manifest.Header].Text != "Hello" {
		t.Fatalf("main=%q header=%q", st.Elements[manifest.Main].Text, st.Elements[manifest.Header].Text)
	}
}

func TestSetSizeClamps(t *testing.T) {
	s := newStage(t)
	apply(t, s, SetSize{Key: manifest.Main, Size: 500})
	if got := s.State().Elements[manifest.Main].Size; got != MaxTextSize {
		t.Fatalf("size = %v", got)
	}
	apply(t, s, SetSize{Key: manifest.Main, Size: 2})
	if got := s.State().Elements[manifest.Main].Size; got != MinTextSize {
		t.Fatalf("size = %v", got)
	}
}

func TestSetColorNormalizesAndMarksEdited(t *testing.T) {
	s := newStage(t)
	apply(t, s, SetColor{Key: manifest.Location, Color: "#f0a"})
	st := s.State()
	if got := st.Elements[manifest.Location].Color; got != "#FF00AA" {
		t.Fatalf("color = %q", got)
	}
	if !st.Edited[manifest.Location] {
		t.Fatalf("color change not marked edited")
	}
	if err := s.Apply(SetColor{Key: manifest.Location, Color: "pink"}); err == nil {
		t.Fatalf("expected error for bad color")
	}
}

func TestCustomBackgroundDropsOverlay(t *testing.T) {
	s := newStage(t)
	apply(t, s, PinchUpdate{Scale: 2}, PinchEnd{}, SetBackground{URI: "file://mine.jpg", Custom: true})
	st := s.State()
	if st.OverlayOpacity != 0 || st.BackgroundScale != 1 || st.Background != "file://mine.jpg" {
		t.Fatalf("state = overlay %v scale %v bg %q", st.OverlayOpacity, st.BackgroundScale, st.Background)
	}
}

func TestSetOverlayClamps(t *testing.T) {
	s := newStage(t)
	apply(t, s, SetOverlay{Opacity: 1.7})
	if got := s.State().OverlayOpacity; got != 1 {
		t.Fatalf("overlay = %v", got)
	}
}

func TestPinchThroughEvents(t *testing.T) {
	s := newStage(t)
	apply(t, s, PinchUpdate{Scale: 2}, PinchEnd{}, PinchUpdate{Scale: 2})
	if got := s.State().BackgroundScale; got != gesture.DefaultMaxBackgroundScale {
		t.Fatalf("scale = %v, want clamp at max", got)
	}
	apply(t, s, PinchEnd{}, PinchUpdate{Scale: 0.1}, PinchEnd{})
	if got := s.State().BackgroundScale; got != 1 {
		t.Fatalf("scale = %v, want floor 1", got)
	}
}

func TestRotationAnimatesOnTick(t *testing.T) {
	s := newStage(t)
	apply(t, s, Resize{Size: geom.Size{W: 375}}, SetRotation{Key: manifest.Main, Degrees: 12})
	if got := s.State().Elements[manifest.Main].Rotation; got != 12 {
		t.Fatalf("stored rotation = %v", got)
	}
	layer := func() float64 {
		for _, ly := range s.Snapshot().Scene.Layers {
			if ly.Key == manifest.Main {
				return ly.Rotation
			}
		}
		t.Fatalf("main layer missing")
		return 0
	}
	if got := layer(); got != 0 {
		t.Fatalf("rotation before tick = %v", got)
	}
	apply(t, s, Tick{DT: 1})
	if got := layer(); got != 12 {
		t.Fatalf("rotation after settle = %v", got)
	}
}

func TestSetToolValidates(t *testing.T) {
	s := newStage(t)
	apply(t, s, SetTool{Mode: ToolLayers})
	if s.Snapshot().Tool != ToolLayers {
		t.Fatalf("tool not switched")
	}
	if err := s.Apply(SetTool{Mode: "brush"}); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}

func TestFinishHandsOffCopy(t *testing.T) {
	s := newStage(t)
	var got *design.State
	sink := SinkFunc(func(_ context.Context, st *design.State) error {
		got = st
		return nil
	})
	if err := s.Finish(context.Background(), sink); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if got == nil || got.Elements[manifest.Main].Text != "Sarah's 30th" {
		t.Fatalf("sink received %+v", got)
	}
	if err := s.Apply(SetOverlay{Opacity: 0.5}); !errors.Is(err, ErrClosed) {
		t.Fatalf("apply after finish err = %v", err)
	}
}

func TestFinishErrorKeepsSessionOpen(t *testing.T) {
	s := newStage(t)
	boom := errors.New("disk full")
	err := s.Finish(context.Background(), SinkFunc(func(context.Context, *design.State) error { return boom }))
	if !errors.Is(err, boom) || s.Closed() {
		t.Fatalf("err=%v closed=%v", err, s.Closed())
	}
}

func TestCancelDiscards(t *testing.T) {
	s := newStage(t)
	s.Cancel()
	if !s.Closed() {
		t.Fatalf("not closed")
	}
	called := false
	err := s.Finish(context.Background(), SinkFunc(func(context.Context, *design.State) error {
		called = true
		return nil
	}))
	if !errors.Is(err, ErrClosed) || called {
		t.Fatalf("finish after cancel: err=%v called=%v", err, called)
	}
}

func TestTapAtHitTestsElements(t *testing.T) {
	s := newStage(t)
	apply(t, s, Resize{Size: geom.Size{W: 375}}, TapAt{Point: geom.Pt{X: 100, Y: 45}})
	if got := s.Snapshot().Selected; got != manifest.Header {
		t.Fatalf("tap on header selected %q", got)
	}
	apply(t, s, TapAt{Point: geom.Pt{X: 100, Y: 80}})
	if got := s.Snapshot().Selected; got != manifest.Main {
		t.Fatalf("tap on main selected %q", got)
	}
	apply(t, s, TapAt{Point: geom.Pt{X: 5, Y: 5}})
	if got := s.Snapshot().Selected; got != "" {
		t.Fatalf("tap on empty canvas kept %q", got)
	}
}

func TestResizeDuringDragKeepsReferenceDelta(t *testing.T) {
	for _, size := range []geom.Size{{W: 375}, {}} {
		s := newStage(t)
		apply(t, s,
			Resize{Size: geom.Size{W: 300}},
			BeginDrag{Key: manifest.Main},
			UpdateDrag{Key: manifest.Main, DX: 40, DY: -20},
			Resize{Size: size},
			EndDrag{Key: manifest.Main},
		)
		el := s.State().Elements[manifest.Main]
		if !geom.NearlyEqual(el.X, 70, 1e-9) || !geom.NearlyEqual(el.Y, 35, 1e-9) {
			t.Fatalf("resize to %v: committed (%.2f,%.2f), want (70,35)", size, el.X, el.Y)
		}
	}
}

func TestTapAtHitsWrappedLines(t *testing.T) {
	s := newStage(t)
	apply(t, s,
		Resize{Size: geom.Size{W: 375}},
		SetText{Key: manifest.Main, Text: "Celebrate with us all night long at the rooftop"},
		TapAt{Point: geom.Pt{X: 100, Y: 45}},
		TapAt{Point: geom.Pt{X: 100, Y: 150}},
	)
	if got := s.Snapshot().Selected; got != manifest.Main {
		t.Fatalf("tap on third line selected %q", got)
	}
}
