/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"invitecanvas/internal/design"
	"invitecanvas/internal/geom"
	"invitecanvas/internal/manifest"
)

// Event is a typed input to the stage reducer. Gesture recognizers and tool
// panels emit events; only Stage.Apply mutates the design.
type Event interface{ event() }

type (
	// SelectElement selects key, as a tap or a layers panel pick would.
	SelectElement struct{ Key manifest.ElementKey }
	// ClearSelection taps the empty canvas.
	ClearSelection struct{}
	// TapAt is a raw tap in device space; it selects the topmost element
	// under the point or clears the selection.
	TapAt     struct{ Point geom.Pt }
	BeginDrag struct{ Key manifest.ElementKey }
	// UpdateDrag carries the total device delta since BeginDrag.
	UpdateDrag struct {
		Key    manifest.ElementKey
		DX, DY float64
	}
	EndDrag struct{ Key manifest.ElementKey }
	// PinchUpdate carries the cumulative pinch factor of the running gesture.
	PinchUpdate struct{ Scale float64 }
	PinchEnd    struct{}
	SetRotation struct {
		Key     manifest.ElementKey
		Degrees float64
	}
	// Resize reports a new container size from the layout pass.
	Resize struct {
		Size    geom.Size
		Bounded bool
		Padding float64
	}
	SetText struct {
		Key  manifest.ElementKey
		Text string
	}
	SetSize struct {
		Key  manifest.ElementKey
		Size float64
	}
	SetFont struct {
		Key    manifest.ElementKey
		Family string
	}
	SetColor struct {
		Key   manifest.ElementKey
		Color string
	}
	SetAlign struct {
		Key   manifest.ElementKey
		Align manifest.Align
	}
	SetVisible struct {
		Key     manifest.ElementKey
		Visible bool
	}
	SetOverlay struct{ Opacity float64 }
	// SetBackground swaps the photo. Custom marks a user-picked image, which
	// drops the overlay.
	SetBackground struct {
		URI    string
		Custom bool
	}
	// ApplyTemplate switches to a manifest, typically from a gallery tile.
	ApplyTemplate struct {
		Manifest   manifest.Manifest
		Background string
	}
	UpdateEventFields struct{ Fields design.EventFields }
	SetTool           struct{ Mode ToolMode }
	// Tick advances animations by DT seconds.
	Tick struct{ DT float32 }
)

func (SelectElement) event()     {}
func (ClearSelection) event()    {}
func (TapAt) event()             {}
func (BeginDrag) event()         {}
func (UpdateDrag) event()        {}
func (EndDrag) event()           {}
func (PinchUpdate) event()       {}
func (PinchEnd) event()          {}
func (SetRotation) event()       {}
func (Resize) event()            {}
func (SetText) event()           {}
func (SetSize) event()           {}
func (SetFont) event()           {}
func (SetColor) event()          {}
func (SetAlign) event()          {}
func (SetVisible) event()        {}
func (SetOverlay) event()        {}
func (SetBackground) event()     {}
func (ApplyTemplate) event()     {}
func (UpdateEventFields) event() {}
func (SetTool) event()           {}
func (Tick) event()              {}

// ToolMode is the active tool panel tab.
type ToolMode string

const (
	ToolStyle  ToolMode = "style"
	ToolFont   ToolMode = "font"
	ToolColor  ToolMode = "color"
	ToolLayers ToolMode = "layers"
)

func (m ToolMode) Valid() bool {
	switch m {
	case ToolStyle, ToolFont, ToolColor, ToolLayers:
		return true
	}
	return false
}
