/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw pointer gestures into element and background
// state. Everything here works in device pixels and hands committed values back
// in reference units; nothing touches design state directly.
package gesture

// Pulse is a discrete feedback cue a host can map to haptics.
type Pulse int

const (
	PulseGrab Pulse = iota
	PulseSnap
)

func (p Pulse) String() string {
	switch p {
	case PulseGrab:
		return "grab"
	case PulseSnap:
		return "snap"
	}
	return "unknown"
}

// Feedback receives pulses. Implementations must not block.
type Feedback interface {
	Pulse(p Pulse)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(Pulse)

func (f FeedbackFunc) Pulse(p Pulse) { f(p) }

type nopFeedback struct{}

func (nopFeedback) Pulse(Pulse) {}
