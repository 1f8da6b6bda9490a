/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"invitecanvas/internal/manifest"
)

func TestWriteReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "design.json")
	st := draft(t, "Picnic")
	if err := WriteJSON(path, st); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	// Overwrite goes through the same temp-and-rename path.
	if err := WriteJSON(path, st); err != nil {
		t.Fatalf("WriteJSON overwrite: %v", err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.ID != st.ID || got.Elements[manifest.Main].Text != "Picnic" {
		t.Fatalf("round trip lost data: %+v", got)
	}
	ents, _ := os.ReadDir(filepath.Dir(path))
	if len(ents) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(ents))
	}
}

func TestReadJSONRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	if err := os.WriteFile(path, []byte(`{"name":"comic"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(path); err == nil {
		t.Fatalf("expected error")
	}
}
