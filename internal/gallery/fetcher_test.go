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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeBackend serves pages from a table keyed by category and page.
type fakeBackend struct {
	mu     sync.Mutex
	pages  map[string]map[int][]Template
	status int
	raw    string
	calls  atomic.Int32
	last   searchRequest
	header http.Header
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls.Add(1)
	var req searchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	b.last = req
	b.header = r.Header.Clone()
	status, raw := b.status, b.raw
	tpl := b.pages[req.Category][req.Page]
	b.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if raw != "" {
		_, _ = w.Write([]byte(raw))
		return
	}
	_ = json.NewEncoder(w).Encode(searchResponse{Templates: tpl})
}

func (b *fakeBackend) lastRequest() (searchRequest, http.Header) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.header
}

func (b *fakeBackend) setStatus(code int) {
	b.mu.Lock()
	b.status = code
	b.mu.Unlock()
}

func ids(prefix string, from, to int) []Template {
	var out []Template
	for i := from; i <= to; i++ {
		out = append(out, Template{ID: fmt.Sprintf("%s%d", prefix, i), Background: fmt.Sprintf("https://img.test/%s%d.jpg", prefix, i), Color: "#FFFFFF"})
	}
	return out
}

func newTestFetcher(t *testing.T, b *fakeBackend, opts ...Option) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return NewFetcher(NewClient(srv.URL, "anon-key", 2*time.Second), NewCache(), nil, opts...)
}

func assertUnique(t *testing.T, items []Item) {
	t.Helper()
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it.ID] {
			t.Fatalf("duplicate id %s", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestWeddingPagesDedup(t *testing.T) {
	b := &fakeBackend{pages: map[string]map[int][]Template{
		"Wedding": {1: ids("w", 1, 12), 2: append(ids("w", 10, 12), ids("w", 13, 21)...)},
	}}
	f := newTestFetcher(t, b)
	ctx := context.Background()

	items, err := f.Fetch(ctx, "Wedding", 1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(items) != 12 {
		t.Fatalf("page 1 items = %d, want 12", len(items))
	}
	last, hdr := b.lastRequest()
	if last.Category != "Wedding" || last.Page != 1 {
		t.Fatalf("request body = %+v", last)
	}
	if hdr.Get("apikey") != "anon-key" || hdr.Get("Authorization") != "Bearer anon-key" {
		t.Fatalf("api key headers missing: %v", hdr)
	}

	items, err = f.Next(ctx, "Wedding")
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if last, _ = b.lastRequest(); last.Page != 2 {
		t.Fatalf("Next requested page %d", last.Page)
	}
	if len(items) != 21 {
		t.Fatalf("after page 2 items = %d, want 21 (9 new)", len(items))
	}
	assertUnique(t, items)
	for i, it := range items {
		if it.GlobalIndex != i {
			t.Fatalf("item %d has global index %d", i, it.GlobalIndex)
		}
		if want := f.manifests.Cycle(i).ID; it.Manifest.ID != want {
			t.Fatalf("item %d manifest = %s, want %s", i, it.Manifest.ID, want)
		}
		if (i%3 == 0) != it.Hero() {
			t.Fatalf("item %d hero = %v", i, it.Hero())
		}
	}
	if f.Cache().Snapshot("Wedding").IsEnd {
		t.Fatalf("category should not have ended yet")
	}
}

func TestRefetchNeverDuplicates(t *testing.T) {
	b := &fakeBackend{pages: map[string]map[int][]Template{"Brunch": {1: ids("b", 1, 6)}}}
	f := newTestFetcher(t, b)
	_, _ = f.Fetch(context.Background(), "Brunch", 1)
	items, err := f.Fetch(context.Background(), "Brunch", 1)
	if err != nil {
		t.Fatal(err)
	}
	assertUnique(t, items)
	if len(items) != 6 || !f.Cache().Snapshot("Brunch").IsEnd {
		t.Fatalf("a page with no new ids should end the category")
	}
}

func TestEndStopsNetwork(t *testing.T) {
	b := &fakeBackend{pages: map[string]map[int][]Template{"Trip": {1: ids("t", 1, 4)}}}
	f := newTestFetcher(t, b)
	ctx := context.Background()
	_, _ = f.Fetch(ctx, "Trip", 1)
	items, _ := f.Fetch(ctx, "Trip", 2) // empty
	if !f.Cache().Snapshot("Trip").IsEnd {
		t.Fatalf("empty page should end the category")
	}
	calls := b.calls.Load()
	for p := 3; p < 6; p++ {
		again, err := f.Fetch(ctx, "Trip", p)
		if err != nil || len(again) != len(items) {
			t.Fatalf("ended fetch changed the list: %d, %v", len(again), err)
		}
	}
	if b.calls.Load() != calls {
		t.Fatalf("network used after end: %d -> %d", calls, b.calls.Load())
	}
}

func TestItemCap(t *testing.T) {
	b := &fakeBackend{pages: map[string]map[int][]Template{"Concert": {1: ids("c", 1, 12)}}}
	f := newTestFetcher(t, b, WithItemCap(5))
	items, _ := f.Fetch(context.Background(), "Concert", 1)
	if len(items) != 5 || !f.Cache().Snapshot("Concert").IsEnd {
		t.Fatalf("cap not applied: %d", len(items))
	}
	calls := b.calls.Load()
	_, _ = f.Next(context.Background(), "Concert")
	if b.calls.Load() != calls {
		t.Fatalf("request issued past the cap")
	}
}

func TestTransportFailureKeepsItems(t *testing.T) {
	b := &fakeBackend{pages: map[string]map[int][]Template{"Retreat": {1: ids("r", 1, 12), 2: ids("r", 13, 14)}}}
	var hooked atomic.Int32
	f := newTestFetcher(t, b, WithFailureHook(func(string, int, error) { hooked.Add(1) }))
	ctx := context.Background()
	_, _ = f.Fetch(ctx, "Retreat", 1)

	b.setStatus(http.StatusBadGateway)
	items, err := f.Next(ctx, "Retreat")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(items) != 12 {
		t.Fatalf("prior items lost: %d", len(items))
	}
	snap := f.Cache().Snapshot("Retreat")
	if snap.Loading || snap.IsEnd || snap.NextPage != 2 {
		t.Fatalf("state after failure = %+v", snap)
	}
	if hooked.Load() != 1 {
		t.Fatalf("failure hook calls = %d", hooked.Load())
	}

	b.setStatus(0)
	items, err = f.Next(ctx, "Retreat")
	if err != nil || len(items) != 14 {
		t.Fatalf("retry: %d, %v", len(items), err)
	}
}

func TestMalformedResponseEnds(t *testing.T) {
	b := &fakeBackend{raw: "<html>oops</html>"}
	f := newTestFetcher(t, b)
	items, err := f.Fetch(context.Background(), "Workshop", 1)
	if err != nil {
		t.Fatalf("malformed response should not be an error: %v", err)
	}
	if len(items) != 0 || !f.Cache().Snapshot("Workshop").IsEnd {
		t.Fatalf("malformed response should end the category")
	}
}

func TestClientClassifiesErrors(t *testing.T) {
	b := &fakeBackend{raw: "{"}
	srv := httptest.NewServer(b)
	defer srv.Close()
	c := NewClient(srv.URL, "", 0)
	if _, err := c.Search(context.Background(), "x", 1); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	b.setStatus(http.StatusInternalServerError)
	if _, err := c.Search(context.Background(), "x", 1); err == nil || errors.Is(err, ErrMalformed) {
		t.Fatalf("status error misclassified: %v", err)
	}
	if _, hdr := b.lastRequest(); hdr.Get("apikey") != "" {
		t.Fatalf("no key should mean no header")
	}
}

func TestTemplateNumericID(t *testing.T) {
	var resp searchResponse
	if err := json.Unmarshal([]byte(`{"templates":[{"id":12345,"bg":"u"},{"id":"abc","bg":"v"},{"bg":"w"}]}`), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Templates[0].ID != "12345" || resp.Templates[1].ID != "abc" || resp.Templates[2].ID != "" {
		t.Fatalf("ids = %+v", resp.Templates)
	}
}
