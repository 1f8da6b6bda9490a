/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gallery fetches candidate backgrounds page by page, deduplicates
// them per category and lays them out as a bento grid with cycled manifests.
package gallery

import (
	"slices"
	"strings"
	"sync"

	"invitecanvas/internal/manifest"
)

// Item is a gallery tile.
type Item struct {
	ID          string
	Background  string
	Color       string
	Manifest    manifest.Manifest
	Span        int
	Height      int
	GlobalIndex int
}

// Hero reports whether the item fills a full row.
func (it Item) Hero() bool { return it.Span == HeroSpan }

// Page is a read-only view of one category.
type Page struct {
	Category string
	Items    []Item
	NextPage int
	IsEnd    bool
	Loading  bool
}

type categoryState struct {
	items    []Item
	seen     map[string]struct{}
	nextPage int
	isEnd    bool
	loading  bool
	gen      uint64
}

func newCategoryState(gen uint64) *categoryState {
	return &categoryState{seen: make(map[string]struct{}), nextPage: 1, gen: gen}
}

// Cache holds gallery pages for the session, keyed by category. It is owned
// by a Fetcher; other code only reads snapshots.
type Cache struct {
	mu   sync.Mutex
	cats map[string]*categoryState
}

func NewCache() *Cache { return &Cache{cats: make(map[string]*categoryState)} }

func cacheKey(category string) string { return strings.ToLower(strings.TrimSpace(category)) }

// state returns the entry for category, creating it. Caller holds mu.
func (c *Cache) state(category string) *categoryState {
	k := cacheKey(category)
	st, ok := c.cats[k]
	if !ok {
		st = newCategoryState(0)
		c.cats[k] = st
	}
	return st
}

// Snapshot returns a copy of the category's current page state.
func (c *Cache) Snapshot(category string) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.cats[cacheKey(category)]
	if !ok {
		return Page{Category: category, NextPage: 1}
	}
	return st.page(category)
}

// Has reports whether anything was fetched for category.
func (c *Cache) Has(category string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.cats[cacheKey(category)]
	return ok && len(st.items) > 0
}

// Reset drops the category's items and seen ids and invalidates any request
// still in flight for it. Other categories are untouched.
func (c *Cache) Reset(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey(category)
	var gen uint64
	if st, ok := c.cats[k]; ok {
		gen = st.gen + 1
	}
	c.cats[k] = newCategoryState(gen)
}

// Categories lists cached categories.
func (c *Cache) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.cats))
	for k := range c.cats {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (st *categoryState) page(category string) Page {
	return Page{
		Category: category,
		Items:    slices.Clone(st.items),
		NextPage: st.nextPage,
		IsEnd:    st.isEnd,
		Loading:  st.loading,
	}
}
