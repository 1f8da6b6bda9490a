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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const neonPack = `
version: 1
manifests:
  - id: neon
    label: Neon
    elements:
      header:    {text: "Tonight", x: 20, y: 40, width: 335, size: 12, uppercase: true}
      main:      {text: "Event Name", x: 20, y: 70, width: 335, size: 40, color: "#0FF", align: center}
      dateLabel: {text: "Date", x: 20, y: 200, width: 335, size: 14}
      timeLabel: {text: "Time", x: 20, y: 220, width: 335, size: 14, visible: false}
      location:  {text: "Location", x: 20, y: 240, width: 335, size: 12}
`

func TestParsePackYAML(t *testing.T) {
	ms, err := ParsePack([]byte(neonPack))
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if len(ms) != 1 || ms[0].ID != "neon" {
		t.Fatalf("unexpected manifests: %+v", ms)
	}
	m := ms[0]
	if !m.Elements[Header].Visible || m.Elements[TimeLabel].Visible {
		t.Fatalf("visible default not applied: %+v", m.Elements)
	}
	if m.Elements[Main].Align != AlignCenter || m.Elements[Main].Color != "#0FF" {
		t.Fatalf("main decoded wrong: %+v", m.Elements[Main])
	}
}

func TestParsePackJSON(t *testing.T) {
	doc := `{"manifests":[{"id":"mono","elements":{
		"header":{"x":0,"y":0,"width":375,"size":10},
		"main":{"x":0,"y":20,"width":375,"size":30},
		"dateLabel":{"x":0,"y":60,"width":375,"size":12},
		"timeLabel":{"x":0,"y":80,"width":375,"size":12},
		"location":{"x":0,"y":100,"width":375,"size":12}}}]}`
	ms, err := ParsePack([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if ms[0].Elements[Main].Size != 30 {
		t.Fatalf("size = %v", ms[0].Elements[Main].Size)
	}
}

func TestParsePackSchemaErrors(t *testing.T) {
	bad := strings.Replace(neonPack, `color: "#0FF"`, `color: "teal"`, 1)
	if _, err := ParsePack([]byte(bad)); !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("expected ErrInvalidPack for bad color, got %v", err)
	}
	if _, err := ParsePack([]byte("manifests: []")); !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("expected ErrInvalidPack for empty list, got %v", err)
	}
	if _, err := ParsePack([]byte("manifests: [")); !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("expected ErrInvalidPack for broken yaml, got %v", err)
	}
}

func TestParsePackKeyErrors(t *testing.T) {
	unknown := strings.Replace(neonPack, "location:", "venue:", 1)
	if _, err := ParsePack([]byte(unknown)); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	var lines []string
	for _, ln := range strings.Split(neonPack, "\n") {
		if !strings.Contains(ln, "location:") {
			lines = append(lines, ln)
		}
	}
	if _, err := ParsePack([]byte(strings.Join(lines, "\n"))); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestLoadPackFileRegisters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neon.yaml")
	if err := os.WriteFile(path, []byte(neonPack), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	n, err := r.LoadPackFile(path)
	if err != nil || n != 1 {
		t.Fatalf("LoadPackFile = %d, %v", n, err)
	}
	if r.Len() != 6 || r.Cycle(5).ID != "neon" {
		t.Fatalf("pack manifest should be appended after builtins")
	}
	if _, err := r.LoadPackFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}
