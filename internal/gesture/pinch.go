/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import "math"

// MinBackgroundScale keeps the background covering the canvas.
const MinBackgroundScale = 1.0

// DefaultMaxBackgroundScale caps pinch zoom. Zoomed backgrounds are not panned
// or re-centered; they scale about the canvas center.
const DefaultMaxBackgroundScale = 3.0

// Pinch scales the background layer. Text layers are not affected.
type Pinch struct {
	saved   float64
	current float64
	max     float64
	active  bool
}

// NewPinch starts from a previously persisted scale. max below the floor
// falls back to DefaultMaxBackgroundScale.
func NewPinch(saved, max float64) *Pinch {
	if max < MinBackgroundScale {
		max = DefaultMaxBackgroundScale
	}
	p := &Pinch{max: max}
	p.saved = p.clamp(saved)
	p.current = p.saved
	return p
}

// Update applies the cumulative gesture factor to the scale saved at the end
// of the previous gesture.
func (p *Pinch) Update(factor float64) float64 {
	if factor <= 0 {
		return p.current
	}
	p.active = true
	p.current = p.clamp(p.saved * factor)
	return p.current
}

// End persists the current scale for the next gesture.
func (p *Pinch) End() float64 {
	p.saved = p.current
	p.active = false
	return p.saved
}

// Scale is the live background scale.
func (p *Pinch) Scale() float64 { return p.current }

// Active reports whether a gesture is in progress.
func (p *Pinch) Active() bool { return p.active }

func (p *Pinch) clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinBackgroundScale {
		return MinBackgroundScale
	}
	if v > p.max {
		return p.max
	}
	return v
}
