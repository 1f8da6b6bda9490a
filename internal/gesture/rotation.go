/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RotationDuration is how long the spring takes to settle, in seconds.
const RotationDuration float32 = 0.45

// RotationSpring animates an element's rotation toward a slider target with a
// slight overshoot. The host calls Tick once per frame.
type RotationSpring struct {
	current float64
	target  float64
	tween   *gween.Tween
}

// NewRotationSpring starts at rest on deg.
func NewRotationSpring(deg float64) *RotationSpring {
	return &RotationSpring{current: deg, target: deg}
}

// SetTarget retargets the spring from wherever it currently is.
func (r *RotationSpring) SetTarget(deg float64) {
	if deg == r.target && r.tween == nil {
		return
	}
	r.target = deg
	r.tween = gween.New(float32(r.current), float32(deg), RotationDuration, ease.OutBack)
}

// Tick advances the animation by dt seconds and returns the current angle and
// whether the spring has settled.
func (r *RotationSpring) Tick(dt float32) (float64, bool) {
	if r.tween == nil {
		return r.current, true
	}
	v, done := r.tween.Update(dt)
	r.current = float64(v)
	if done {
		r.current = r.target
		r.tween = nil
	}
	return r.current, done
}

func (r *RotationSpring) Value() float64  { return r.current }
func (r *RotationSpring) Target() float64 { return r.target }
func (r *RotationSpring) Settled() bool   { return r.tween == nil }
