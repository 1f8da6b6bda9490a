/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gallery

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	applog "invitecanvas/internal/log"
	"invitecanvas/internal/manifest"
)

// DefaultItemCap bounds how many items a category accumulates.
const DefaultItemCap = 100

// Fetcher is the only writer of its Cache. Fetch may be called from any
// goroutine; at most one request per category is in flight.
type Fetcher struct {
	api       Searcher
	cache     *Cache
	manifests *manifest.Registry
	itemCap   int
	group     singleflight.Group
	onFailure func(category string, page int, err error)
	log       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithItemCap overrides DefaultItemCap.
func WithItemCap(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.itemCap = n
		}
	}
}

// WithFailureHook is called after a transport failure has been logged.
func WithFailureHook(fn func(category string, page int, err error)) Option {
	return func(f *Fetcher) { f.onFailure = fn }
}

// NewFetcher wires a fetcher. A nil cache gets a fresh one.
func NewFetcher(api Searcher, cache *Cache, reg *manifest.Registry, opts ...Option) *Fetcher {
	if cache == nil {
		cache = NewCache()
	}
	if reg == nil {
		reg = manifest.NewRegistry()
	}
	f := &Fetcher{
		api:       api,
		cache:     cache,
		manifests: reg,
		itemCap:   DefaultItemCap,
		log:       applog.WithComponent("gallery"),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Cache exposes the fetcher's cache for read access.
func (f *Fetcher) Cache() *Cache { return f.cache }

// Select switches to category. Cached items are returned as they are;
// an unseen category fetches its first page.
func (f *Fetcher) Select(ctx context.Context, category string) (Page, error) {
	if f.cache.Has(category) {
		return f.cache.Snapshot(category), nil
	}
	f.cache.Reset(category)
	_, err := f.Fetch(ctx, category, 1)
	return f.cache.Snapshot(category), err
}

// Reset clears category so the next Fetch starts again from page one.
func (f *Fetcher) Reset(category string) { f.cache.Reset(category) }

// Next fetches the page after the last merged one.
func (f *Fetcher) Next(ctx context.Context, category string) ([]Item, error) {
	return f.Fetch(ctx, category, f.cache.Snapshot(category).NextPage)
}

// Fetch requests one page and merges the new items. It returns the full
// visible list for the category. Once the category has ended, or a request
// is already running for it, the list is returned without a network call.
//
// A malformed response ends the category without error. A transport failure
// is logged, keeps the items merged so far and is returned for diagnostics.
func (f *Fetcher) Fetch(ctx context.Context, category string, page int) ([]Item, error) {
	if page < 1 {
		page = 1
	}
	l := applog.WithOperation(f.log, "fetch").With(slog.String("category", category), slog.Int("page", page))

	f.cache.mu.Lock()
	st := f.cache.state(category)
	if st.isEnd || st.loading || len(st.items) >= f.itemCap {
		if len(st.items) >= f.itemCap {
			st.isEnd = true
		}
		items := st.page(category).Items
		f.cache.mu.Unlock()
		return items, nil
	}
	st.loading = true
	gen := st.gen
	f.cache.mu.Unlock()

	// a reset category never joins a call started under an older generation
	key := cacheKey(category) + "\x00" + strconv.Itoa(page) + "\x00" + strconv.FormatUint(gen, 10)
	v, err, shared := f.group.Do(key, func() (any, error) {
		return f.api.Search(ctx, strings.TrimSpace(category), page)
	})

	f.cache.mu.Lock()
	defer f.cache.mu.Unlock()
	st = f.cache.state(category)
	if st.gen != gen {
		l.Debug("discarding response for reset category")
		return st.page(category).Items, nil
	}
	st.loading = false

	if err != nil {
		if errors.Is(err, ErrMalformed) {
			st.isEnd = true
			l.Warn("malformed response, ending category", slog.Any("err", err))
			return st.page(category).Items, nil
		}
		l.Error("gallery fetch failed", slog.Any("err", err), slog.Int("kept", len(st.items)))
		if f.onFailure != nil {
			f.onFailure(category, page, err)
		}
		return st.page(category).Items, err
	}

	raw, _ := v.([]Template)
	if len(raw) == 0 {
		st.isEnd = true
		l.Info("end of gallery")
		return st.page(category).Items, nil
	}
	added := f.merge(st, raw)
	if page >= st.nextPage {
		st.nextPage = page + 1
	}
	if added == 0 || len(st.items) >= f.itemCap {
		st.isEnd = true
	}
	l.Debug("page merged", slog.Int("received", len(raw)), slog.Int("added", added),
		slog.Int("total", len(st.items)), slog.Bool("shared", shared), slog.Bool("end", st.isEnd))
	return st.page(category).Items, nil
}

// merge appends unseen templates. Caller holds the cache lock.
func (f *Fetcher) merge(st *categoryState, raw []Template) int {
	added := 0
	for _, t := range raw {
		id := strings.TrimSpace(t.ID)
		if id == "" || strings.TrimSpace(t.Background) == "" {
			continue
		}
		if _, dup := st.seen[id]; dup {
			continue
		}
		if len(st.items) >= f.itemCap {
			break
		}
		st.seen[id] = struct{}{}
		gi := len(st.items)
		span, height := slotFor(gi)
		st.items = append(st.items, Item{
			ID:          id,
			Background:  t.Background,
			Color:       t.Color,
			Manifest:    f.manifests.Cycle(gi),
			Span:        span,
			Height:      height,
			GlobalIndex: gi,
		})
		added++
	}
	return added
}
