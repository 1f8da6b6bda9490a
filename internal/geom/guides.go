/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Snapping helpers for dragged text boxes. These are UI-agnostic and operate in
// device pixels so the threshold feels the same at every zoom level.

import "math"

// DefaultSnapThreshold is the distance in device pixels at which a dragged
// element locks onto the vertical center guide.
const DefaultSnapThreshold = 5.0

// Guide is a vertical line rendered while an element is locked onto it.
type Guide struct {
	X      float64
	Top    float64
	Bottom float64
}

// SnapCenter compares the left edge x of a box of the given width with the
// position that would center it on a canvas of canvasWidth. When the distance
// is strictly below threshold the centered left edge is returned with
// snapped=true; otherwise x is returned unchanged.
func SnapCenter(x, width, canvasWidth, threshold float64) (float64, bool) {
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	centered := canvasWidth/2 - width/2
	if math.Abs(x-centered) < threshold {
		return centered, true
	}
	return x, false
}

// CenterGuide returns the guide line for a canvas of the given device size.
func CenterGuide(canvas Size) Guide {
	return Guide{X: Round(canvas.W/2, 3), Top: 0, Bottom: canvas.H}
}
