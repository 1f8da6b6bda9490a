/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package manifest holds the catalog of layout manifests. A manifest is a
// complete set of text element descriptors authored in reference space.
package manifest

import (
	"fmt"
	"strings"
)

// Align is the horizontal alignment of a text box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign is lenient: anything unknown becomes left.
func ParseAlign(s string) Align {
	switch Align(strings.ToLower(strings.TrimSpace(s))) {
	case AlignCenter:
		return AlignCenter
	case AlignRight:
		return AlignRight
	}
	return AlignLeft
}

// DefaultFontFamily is used when an element has no family set.
const DefaultFontFamily = "Poppins-Bold"

// DefaultLineHeight is the multiplier applied when LineHeight is zero.
const DefaultLineHeight = 1.2

// ElementSpec describes one text element. Geometry is in reference units.
type ElementSpec struct {
	Text       string  `json:"text" yaml:"text"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Width      float64 `json:"width" yaml:"width"`
	Align      Align   `json:"align" yaml:"align"`
	FontFamily string  `json:"fontFamily" yaml:"fontFamily"`
	Size       float64 `json:"size" yaml:"size"`
	// Color is #RGB or #RRGGBB. Empty means unset.
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
	Tracking   float64 `json:"tracking,omitempty" yaml:"tracking,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	Uppercase  bool    `json:"uppercase,omitempty" yaml:"uppercase,omitempty"`
	Visible    bool    `json:"visible" yaml:"visible"`
	// Rotation in degrees; zero means upright.
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// EffectiveLineHeight returns LineHeight or the default multiplier.
func (e ElementSpec) EffectiveLineHeight() float64 {
	if e.LineHeight <= 0 {
		return DefaultLineHeight
	}
	return e.LineHeight
}

// EffectiveFont returns FontFamily or the default family.
func (e ElementSpec) EffectiveFont() string {
	if strings.TrimSpace(e.FontFamily) == "" {
		return DefaultFontFamily
	}
	return e.FontFamily
}

// Manifest is a named visual look.
type Manifest struct {
	ID       string                     `json:"id" yaml:"id"`
	Label    string                     `json:"label" yaml:"label"`
	Elements map[ElementKey]ElementSpec `json:"elements" yaml:"elements"`
}

// Clone returns a deep copy so callers can mutate the elements freely.
func (m Manifest) Clone() Manifest {
	c := Manifest{ID: m.ID, Label: m.Label, Elements: make(map[ElementKey]ElementSpec, len(m.Elements))}
	for k, v := range m.Elements {
		c.Elements[k] = v
	}
	return c
}

// Validate checks that the manifest has an id and covers exactly the
// canonical key set.
func (m Manifest) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("manifest id is required")
	}
	for k := range m.Elements {
		if !k.Valid() {
			return fmt.Errorf("manifest %s: %w: %q", m.ID, ErrUnknownKey, string(k))
		}
	}
	var missing []string
	for _, k := range Keys() {
		if _, ok := m.Elements[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("manifest %s: %w: %s", m.ID, ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
