/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manifest

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is the catalog of manifests. Order is insertion order, builtins
// first, and is what gallery cycling indexes into.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Manifest
}

// NewRegistry returns a registry holding the builtin manifests.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Manifest)}
	for _, m := range builtins() {
		if err := r.Register(m); err != nil {
			panic(fmt.Sprintf("builtin manifest %s: %v", m.ID, err))
		}
	}
	return r
}

// Register adds m or replaces an existing manifest with the same id in place.
func (r *Registry) Register(m Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	id := normID(m.ID)
	m = m.Clone()
	m.ID = id
	if strings.TrimSpace(m.Label) == "" {
		m.Label = id
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = m
	return nil
}

// All returns copies of every manifest in stable order.
func (r *Registry) All() []Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Manifest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Len returns the number of registered manifests.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// ByID looks up a manifest case-insensitively.
func (r *Registry) ByID(id string) (Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[normID(id)]
	if !ok {
		return Manifest{}, false
	}
	return m.Clone(), true
}

// Cycle returns the manifest for a gallery position: index mod count.
func (r *Registry) Cycle(globalIndex int) Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.order)
	if n == 0 {
		return Manifest{}
	}
	i := globalIndex % n
	if i < 0 {
		i += n
	}
	return r.byID[r.order[i]].Clone()
}

func normID(id string) string { return strings.ToLower(strings.TrimSpace(id)) }
