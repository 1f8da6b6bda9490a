/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package design owns the mutable working copy of an invitation and the
// hydration step that seeds it from event fields.
package design

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"invitecanvas/internal/manifest"
)

// EventFields is supplied read-only by the event form.
type EventFields struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
	TimeTBD  bool      `json:"timeTBD"`
}

// State is the working copy of one invitation.
type State struct {
	ID              string                                       `json:"id"`
	ManifestID      string                                       `json:"manifestId"`
	Background      string                                       `json:"background"`
	OverlayOpacity  float64                                      `json:"overlayOpacity"`
	BackgroundScale float64                                      `json:"backgroundScale"`
	Elements        map[manifest.ElementKey]manifest.ElementSpec `json:"elements"`
	// Edited holds keys whose text or color the user changed by hand.
	Edited    map[manifest.ElementKey]bool `json:"edited,omitempty"`
	CreatedAt time.Time                    `json:"createdAt"`
}

// New creates a state from m with a fresh id.
func New(m manifest.Manifest, background string, overlay float64) *State {
	s := &State{
		ID:              ulid.Make().String(),
		ManifestID:      m.ID,
		Background:      background,
		OverlayOpacity:  clampUnit(overlay),
		BackgroundScale: 1,
		Elements:        m.Clone().Elements,
		Edited:          make(map[manifest.ElementKey]bool),
		CreatedAt:       time.Now().UTC(),
	}
	SeedColors(s)
	return s
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Elements = make(map[manifest.ElementKey]manifest.ElementSpec, len(s.Elements))
	for k, v := range s.Elements {
		c.Elements[k] = v
	}
	c.Edited = make(map[manifest.ElementKey]bool, len(s.Edited))
	for k, v := range s.Edited {
		c.Edited[k] = v
	}
	return &c
}

// Element returns the spec for k or ErrUnknownKey when the state has no such slot.
func (s *State) Element(k manifest.ElementKey) (manifest.ElementSpec, error) {
	el, ok := s.Elements[k]
	if !ok {
		return manifest.ElementSpec{}, fmt.Errorf("%w: %q", manifest.ErrUnknownKey, string(k))
	}
	return el, nil
}

// Update applies fn to the spec for k. Keys absent from the state are rejected
// so a state never gains slots its manifest did not define.
func (s *State) Update(k manifest.ElementKey, fn func(*manifest.ElementSpec)) error {
	el, err := s.Element(k)
	if err != nil {
		return err
	}
	fn(&el)
	s.Elements[k] = el
	return nil
}

// MarkEdited records that the user changed k by hand.
func (s *State) MarkEdited(k manifest.ElementKey) {
	if s.Edited == nil {
		s.Edited = make(map[manifest.ElementKey]bool)
	}
	s.Edited[k] = true
}

// ApplyManifest swaps in the layout of m. Text and color of edited keys carry
// over onto the new layout; everything else comes from m.
func (s *State) ApplyManifest(m manifest.Manifest) {
	next := m.Clone().Elements
	for k := range s.Edited {
		old, had := s.Elements[k]
		el, ok := next[k]
		if !had || !ok {
			continue
		}
		el.Text = old.Text
		if old.Color != "" {
			el.Color = old.Color
		}
		next[k] = el
	}
	s.Elements = next
	s.ManifestID = m.ID
	SeedColors(s)
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
