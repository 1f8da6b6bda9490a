/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts resolves manifest font families to faces. Families that were not
// loaded explicitly fall back to the bundled Go fonts by weight and style.
type Fonts struct {
	mu      sync.Mutex
	byName  map[string]*opentype.Font
	builtin map[string]*opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	f    *opentype.Font
	size float64
}

// NewFonts parses the bundled Go fonts.
func NewFonts() (*Fonts, error) {
	fs := &Fonts{
		byName:  make(map[string]*opentype.Font),
		builtin: make(map[string]*opentype.Font),
		faces:   make(map[faceKey]font.Face),
	}
	for name, ttf := range map[string][]byte{
		"regular": goregular.TTF,
		"medium":  gomedium.TTF,
		"bold":    gobold.TTF,
		"italic":  goitalic.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse builtin font %s: %w", name, err)
		}
		fs.builtin[name] = f
	}
	return fs, nil
}

// LoadTTF registers a font file under a family name such as "Oswald-Bold".
func (fs *Fonts) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fs.mu.Lock()
	fs.byName[family] = f
	fs.mu.Unlock()
	return nil
}

// Face returns a face for family at size pixels. Faces are cached.
func (fs *Fonts) Face(family string, size float64) (font.Face, error) {
	if size <= 0 {
		size = 1
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.byName[family]
	if !ok {
		f = fs.builtin[fallbackStyle(family)]
	}
	key := faceKey{f: f, size: size}
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("face %s@%.1f: %w", family, size, err)
	}
	fs.faces[key] = face
	return face, nil
}

// fallbackStyle picks the closest bundled face from the family suffix.
func fallbackStyle(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "vibes"), strings.Contains(f, "italic"), strings.Contains(f, "script"):
		return "italic"
	case strings.Contains(f, "bold"), strings.Contains(f, "black"), strings.Contains(f, "700"):
		return "bold"
	case strings.Contains(f, "medium"), strings.Contains(f, "semi"):
		return "medium"
	}
	return "regular"
}
