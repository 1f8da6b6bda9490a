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

	"invitecanvas/internal/design"
)

// Sink receives the finished design. The editor core does not persist
// anything itself.
type Sink interface {
	Save(ctx context.Context, s *design.State) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s *design.State) error

func (f SinkFunc) Save(ctx context.Context, s *design.State) error { return f(ctx, s) }
