/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	applog "invitecanvas/internal/log"
)

// A manifest pack is a YAML (or JSON) document adding looks to the registry:
//
//	manifests:
//	  - id: neon
//	    label: Neon
//	    elements:
//	      header: {text: "Tonight", x: 20, y: 40, width: 335, size: 12}
//	      ...
//
// Elements default to visible. Shape is checked against pack.schema.json;
// the key set is checked by Manifest.Validate.

//go:embed pack.schema.json
var packSchema []byte

var ErrInvalidPack = errors.New("invalid manifest pack")

type packDoc struct {
	Version   int           `yaml:"version"`
	Manifests []manifestDoc `yaml:"manifests"`
}

type manifestDoc struct {
	ID       string                `yaml:"id"`
	Label    string                `yaml:"label"`
	Elements map[string]elementDoc `yaml:"elements"`
}

type elementDoc struct {
	Text       string  `yaml:"text"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Align      string  `yaml:"align"`
	FontFamily string  `yaml:"fontFamily"`
	Size       float64 `yaml:"size"`
	Color      string  `yaml:"color"`
	Tracking   float64 `yaml:"tracking"`
	LineHeight float64 `yaml:"lineHeight"`
	Uppercase  bool    `yaml:"uppercase"`
	Visible    *bool   `yaml:"visible"`
	Rotation   float64 `yaml:"rotation"`
}

func (d elementDoc) spec() ElementSpec {
	visible := true
	if d.Visible != nil {
		visible = *d.Visible
	}
	return ElementSpec{
		Text: d.Text, X: d.X, Y: d.Y, Width: d.Width,
		Align: ParseAlign(d.Align), FontFamily: d.FontFamily, Size: d.Size,
		Color: strings.TrimSpace(d.Color), Tracking: d.Tracking, LineHeight: d.LineHeight,
		Uppercase: d.Uppercase, Visible: visible, Rotation: d.Rotation,
	}
}

// ParsePack decodes and validates a pack document.
func ParsePack(data []byte) ([]Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(packSchema), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidPack, strings.Join(msgs, "; "))
	}

	var doc packDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	out := make([]Manifest, 0, len(doc.Manifests))
	for _, md := range doc.Manifests {
		m := Manifest{ID: md.ID, Label: md.Label, Elements: make(map[ElementKey]ElementSpec, len(md.Elements))}
		for name, ed := range md.Elements {
			k, err := ParseKey(name)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", md.ID, err)
			}
			m.Elements[k] = ed.spec()
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadPackFile parses the pack at path and registers every manifest in it.
// Nothing is registered when any manifest in the pack is invalid.
func (r *Registry) LoadPackFile(path string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("manifest"), "load_pack").With(slog.String("path", path))
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pack: %w", err)
	}
	ms, err := ParsePack(data)
	if err != nil {
		l.Warn("pack rejected", slog.Any("err", err))
		return 0, err
	}
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			return 0, err
		}
	}
	l.Info("pack loaded", slog.Int("manifests", len(ms)))
	return len(ms), nil
}
