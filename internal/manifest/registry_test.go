/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manifest

import (
	"errors"
	"testing"
)

func TestBuiltinsAreCompleteAndOrdered(t *testing.T) {
	r := NewRegistry()
	want := []string{"impact", "vogue", "party", "royal", "romance"}
	all := r.All()
	if len(all) != len(want) {
		t.Fatalf("len(All) = %d, want %d", len(all), len(want))
	}
	for i, m := range all {
		if m.ID != want[i] {
			t.Fatalf("All()[%d] = %s, want %s", i, m.ID, want[i])
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("builtin %s: %v", m.ID, err)
		}
		if m.Elements[TimeLabel].Visible {
			t.Errorf("%s: timeLabel should be hidden by default", m.ID)
		}
		for _, k := range []ElementKey{Header, Main, DateLabel, Location} {
			if !m.Elements[k].Visible {
				t.Errorf("%s: %s should be visible", m.ID, k)
			}
		}
	}
}

func TestCycleWrapsByIndex(t *testing.T) {
	r := NewRegistry()
	if got := r.Cycle(0).ID; got != "impact" {
		t.Fatalf("Cycle(0) = %s", got)
	}
	if got := r.Cycle(7).ID; got != "party" {
		t.Fatalf("Cycle(7) = %s, want party", got)
	}
	if got := r.Cycle(-1).ID; got != "romance" {
		t.Fatalf("Cycle(-1) = %s, want romance", got)
	}
}

func TestByIDReturnsCopy(t *testing.T) {
	r := NewRegistry()
	m, ok := r.ByID("Impact")
	if !ok {
		t.Fatalf("ByID(Impact) not found")
	}
	el := m.Elements[Main]
	el.Text = "mutated"
	m.Elements[Main] = el
	again, _ := r.ByID("impact")
	if again.Elements[Main].Text != PlaceholderMain {
		t.Fatalf("registry manifest was mutated through a lookup")
	}
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys() {
		got, err := ParseKey(" " + string(k) + " ")
		if err != nil || got != k {
			t.Fatalf("ParseKey(%s) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKey("subtitle"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if !DateLabel.IsDate() || Main.IsDate() {
		t.Fatalf("IsDate mismatch")
	}
}

func TestRegisterRejectsIncompleteAndUnknown(t *testing.T) {
	r := NewRegistry()
	base, _ := r.ByID("impact")

	partial := base.Clone()
	partial.ID = "partial"
	delete(partial.Elements, Location)
	if err := r.Register(partial); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	extra := base.Clone()
	extra.ID = "extra"
	extra.Elements[ElementKey("subtitle")] = ElementSpec{}
	if err := r.Register(extra); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if r.Len() != 5 {
		t.Fatalf("rejected manifests must not be registered, len = %d", r.Len())
	}
}

func TestRegisterReplacesInPlace(t *testing.T) {
	r := NewRegistry()
	m, _ := r.ByID("vogue")
	m.Label = "Vogue II"
	if err := r.Register(m); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 5 || r.All()[1].Label != "Vogue II" {
		t.Fatalf("replacement should keep position: %+v", r.All()[1].Label)
	}
}

func TestParseAlign(t *testing.T) {
	cases := map[string]Align{"center": AlignCenter, " RIGHT": AlignRight, "left": AlignLeft, "justify": AlignLeft}
	for in, want := range cases {
		if got := ParseAlign(in); got != want {
			t.Errorf("ParseAlign(%q) = %s, want %s", in, got, want)
		}
	}
}
