/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gallery

import "strconv"

// Bento slot sizes.
const (
	HeroSpan   = 2
	HeroHeight = 220
	TileSpan   = 1
	TileHeight = 180
)

// TabletBreakpoint is the width from which the grid uses four columns.
const TabletBreakpoint = 768

func slotFor(globalIndex int) (span, height int) {
	if globalIndex%3 == 0 {
		return HeroSpan, HeroHeight
	}
	return TileSpan, TileHeight
}

// Row is one line of the grid: a hero tile or up to two half-width tiles.
type Row struct {
	ID    string
	Hero  bool
	Items []Item
}

// Rows assembles the list into rows. Every third item by position is a
// hero; the rest pair up, the last one possibly alone.
func Rows(items []Item) []Row {
	var rows []Row
	for i := 0; i < len(items); {
		if i%3 == 0 {
			rows = append(rows, Row{ID: rowID(i, items[i]), Hero: true, Items: items[i : i+1]})
			i++
			continue
		}
		end := min(i+2, len(items))
		rows = append(rows, Row{ID: rowID(i, items[i]), Items: items[i:end]})
		i = end
	}
	return rows
}

func rowID(i int, it Item) string { return "row-" + strconv.Itoa(i) + "-" + it.ID }

// Grid is the responsive bento unit for a container width.
type Grid struct {
	Columns int
	Unit    float64
	Gap     float64
	Padding float64
}

// NewGrid uses two columns on phones and four from TabletBreakpoint.
func NewGrid(width, gap, padding float64) Grid {
	cols := 2
	if width >= TabletBreakpoint {
		cols = 4
	}
	unit := (width - 2*padding - gap*float64(cols-1)) / float64(cols)
	if unit < 0 {
		unit = 0
	}
	return Grid{Columns: cols, Unit: unit, Gap: gap, Padding: padding}
}

// SlotWidth is the width of a tile spanning span units.
func (g Grid) SlotWidth(span int) float64 {
	if span < 1 {
		span = 1
	}
	return g.Unit*float64(span) + g.Gap*float64(span-1)
}
