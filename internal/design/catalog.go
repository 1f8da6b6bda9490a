/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// FontOption is an entry in the font tool panel.
type FontOption struct {
	Label string
	Value string
}

// FontOptions lists the families offered by the font tool.
func FontOptions() []FontOption {
	return []FontOption{
		{Label: "Playfair", Value: "PlayfairDisplay-Bold"},
		{Label: "Montserrat", Value: "Montserrat-Bold"},
		{Label: "Great Vibes", Value: "GreatVibes-Regular"},
		{Label: "Oswald", Value: "Oswald-Bold"},
		{Label: "Merriweather", Value: "Merriweather-Bold"},
		{Label: "Raleway", Value: "Raleway-Bold"},
		{Label: "Poppins", Value: "Poppins-Bold"},
	}
}

// BrandColors is the swatch palette of the color tool.
func BrandColors() []string {
	return []string{
		"#FFFFFF", "#FBF5DE", "#3D74B6", "#1A1A1A", "#DC3C22", "#EAC8A6",
		"#000000", "#FFD700", "#2E8B57", "#E91E63", "#9C27B0", "#673AB7",
		"#3F51B5", "#2196F3", "#009688", "#4CAF50", "#8BC34A", "#CDDC39",
		"#FFEB3B", "#FFC107", "#FF9800", "#FF5722", "#795548", "#9E9E9E", "#607D8B",
	}
}

// EventTypes are the gallery categories offered by the event form.
func EventTypes() []string {
	return []string{
		"Birthday", "Wedding", "Dinner Party", "Happy Hour", "Baby Shower",
		"Game Night", "Networking", "Trip", "Anniversary", "Graduation",
		"Housewarming", "Bachelor Party", "Bachelorette Party", "Engagement",
		"Bridal Shower", "Family Reunion", "Holiday Party", "Movie Night",
		"Brunch", "Concert", "Fundraiser", "Workshop", "Conference", "Retreat",
	}
}

// ParseColor accepts #RGB and #RRGGBB.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 || !strings.HasPrefix(strings.TrimSpace(s), "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// NormalizeColor returns s as upper-case #RRGGBB.
func NormalizeColor(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
}
