/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import (
	"strings"
	"time"

	"invitecanvas/internal/manifest"
)

// DefaultColor keeps text readable over arbitrary photos.
const DefaultColor = "#FFFFFF"

// TBD stands in for an unknown date or time.
const TBD = "TBD"

const (
	dateLayout = "Jan 2"
	timeLayout = "3:04 PM"
)

// Hydrate seeds element text from f. Only text and color change, and keys the
// user edited are left alone, so calling it again after edits is safe.
func Hydrate(s *State, f EventFields) {
	for k, el := range s.Elements {
		if s.Edited[k] {
			continue
		}
		if text, ok := hydratedText(k, f); ok {
			el.Text = text
		}
		s.Elements[k] = el
	}
	SeedColors(s)
}

func hydratedText(k manifest.ElementKey, f EventFields) (string, bool) {
	switch {
	case k == manifest.Main:
		return orDefault(f.Name, manifest.PlaceholderMain), true
	case k == manifest.Header:
		return orDefault(f.Type, manifest.PlaceholderHeader), true
	case k == manifest.TimeLabel:
		return TimeText(f), true
	case k == manifest.Location:
		return orDefault(f.Location, manifest.PlaceholderLocation), true
	case k.IsDate():
		return DateText(f), true
	}
	return "", false
}

// DateText formats the date line, e.g. "Jun 15 • 6:30 PM". The clock part is
// "TBD" when the time is flagged unknown; with no date at all it is just "TBD".
func DateText(f EventFields) string {
	if f.Date.IsZero() {
		return TBD
	}
	d := f.Date.Format(dateLayout)
	if f.TimeTBD {
		return d + " • " + TBD
	}
	return d + " • " + clock(f).Format(timeLayout)
}

// TimeText formats the separate time line.
func TimeText(f EventFields) string {
	if f.TimeTBD || (f.Time.IsZero() && f.Date.IsZero()) {
		return "Time: " + TBD
	}
	return clock(f).Format(timeLayout)
}

// clock prefers the explicit time field and falls back to the date's clock.
func clock(f EventFields) time.Time {
	if !f.Time.IsZero() {
		return f.Time
	}
	return f.Date
}

// SeedColors gives every element without a color the default.
func SeedColors(s *State) {
	for k, el := range s.Elements {
		if strings.TrimSpace(el.Color) == "" {
			el.Color = DefaultColor
			s.Elements[k] = el
		}
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
