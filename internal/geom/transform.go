/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Manifests are authored on a 375 unit wide canvas with a 2:3 portrait aspect.
const (
	ReferenceWidth  = 375.0
	ReferenceAspect = 1.5
)

// ReferenceSize is the full design canvas in reference units.
var ReferenceSize = Size{W: ReferenceWidth, H: ReferenceWidth * ReferenceAspect}

// Transform maps reference space to device space with a single uniform scale.
// The zero value is not usable; obtain one from Fit or FitWidth.
type Transform struct {
	Scale float64
	// Canvas is the reference canvas expressed in device units.
	Canvas Size
}

// FitWidth derives the transform for a preview surface whose width is fixed and
// whose height follows the reference aspect. ok is false for a zero width.
func FitWidth(width float64) (Transform, bool) {
	if width <= 0 {
		return Transform{}, false
	}
	return newTransform(width / ReferenceWidth), true
}

// Fit derives the transform for a container. When bounded, the canvas must fit
// both dimensions and the scale is min(widthScale, heightScale). padding is
// subtracted from every side first. ok is false until the container has a real
// size, so callers can skip rendering on the first layout pass.
func Fit(container Size, bounded bool, padding float64) (Transform, bool) {
	w := container.W - 2*padding
	h := container.H - 2*padding
	if w <= 0 || (bounded && h <= 0) {
		return Transform{}, false
	}
	s := w / ReferenceWidth
	if bounded {
		s = min(s, h/ReferenceSize.H)
	}
	return newTransform(s), true
}

func newTransform(s float64) Transform {
	return Transform{Scale: s, Canvas: Size{W: ReferenceSize.W * s, H: ReferenceSize.H * s}}
}

// Valid reports whether the transform can be used for conversion.
func (t Transform) Valid() bool { return t.Scale > 0 }

// ToDevice maps a reference point to device space.
func (t Transform) ToDevice(p Pt) Pt { return p.Scale(t.Scale) }

// ToReference maps a device point back to reference space.
func (t Transform) ToReference(p Pt) Pt {
	if !t.Valid() {
		return p
	}
	return p.Scale(1 / t.Scale)
}

// Len scales a reference length (width, font size, tracking) to device units.
func (t Transform) Len(v float64) float64 { return v * t.Scale }

// RefLen maps a device length back to reference units.
func (t Transform) RefLen(v float64) float64 {
	if !t.Valid() {
		return v
	}
	return v / t.Scale
}
