/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manifest

// Placeholder copy shown before hydration.
const (
	PlaceholderHeader   = "You are invited"
	PlaceholderMain     = "Event Name"
	PlaceholderDate     = "Date"
	PlaceholderTime     = "Time"
	PlaceholderLocation = "Location"
)

// Builtin manifests in display order. Every one covers the canonical key set;
// timeLabel is hidden because the date line already carries the time.
func builtins() []Manifest {
	return []Manifest{
		{
			ID: "impact", Label: "Impact",
			Elements: map[ElementKey]ElementSpec{
				Header:    {Text: PlaceholderHeader, X: 20, Y: 40, Width: 335, Align: AlignLeft, FontFamily: "Oswald-Regular", Size: 10, Tracking: 2, Uppercase: true, Visible: true},
				Main:      {Text: PlaceholderMain, X: 20, Y: 60, Width: 335, Align: AlignLeft, FontFamily: "Oswald-Bold", Size: 42, LineHeight: 1.1, Uppercase: true, Visible: true},
				DateLabel: {Text: PlaceholderDate, X: 20, Y: 220, Width: 335, Align: AlignLeft, FontFamily: "Oswald-Medium", Size: 14, Visible: true},
				TimeLabel: {Text: PlaceholderTime, X: 20, Y: 240, Width: 335, Align: AlignLeft, FontFamily: "Oswald-Regular", Size: 14},
				Location:  {Text: PlaceholderLocation, X: 20, Y: 260, Width: 335, Align: AlignLeft, FontFamily: "Oswald-Regular", Size: 12, Visible: true},
			},
		},
		{
			ID: "vogue", Label: "Vogue",
			Elements: map[ElementKey]ElementSpec{
				Header:    {Text: PlaceholderHeader, X: 0, Y: 30, Width: 375, Align: AlignCenter, FontFamily: "Montserrat-Regular", Size: 12, Tracking: 3, Uppercase: true, Visible: true},
				Main:      {Text: PlaceholderMain, X: 0, Y: 60, Width: 375, Align: AlignCenter, FontFamily: "PlayfairDisplay-ExtraBold", Size: 32, LineHeight: 1.2, Visible: true},
				DateLabel: {Text: PlaceholderDate, X: 0, Y: 180, Width: 375, Align: AlignCenter, FontFamily: "Montserrat-Bold", Size: 16, Visible: true},
				TimeLabel: {Text: PlaceholderTime, X: 0, Y: 205, Width: 375, Align: AlignCenter, FontFamily: "Montserrat-Regular", Size: 16},
				Location:  {Text: PlaceholderLocation, X: 0, Y: 230, Width: 375, Align: AlignCenter, FontFamily: "Montserrat-Regular", Size: 14, Visible: true},
			},
		},
		{
			ID: "party", Label: "Party",
			Elements: map[ElementKey]ElementSpec{
				Header:    {Text: PlaceholderHeader, X: 20, Y: 380, Width: 335, Align: AlignCenter, FontFamily: "Raleway-Bold", Size: 14, Tracking: 4, Uppercase: true, Visible: true, Rotation: -4},
				Main:      {Text: PlaceholderMain, X: 20, Y: 405, Width: 335, Align: AlignCenter, FontFamily: "Oswald-Bold", Size: 48, LineHeight: 1.0, Uppercase: true, Visible: true, Rotation: -4},
				DateLabel: {Text: PlaceholderDate, X: 20, Y: 480, Width: 335, Align: AlignCenter, FontFamily: "Raleway-Bold", Size: 16, Color: "#FFD700", Visible: true},
				TimeLabel: {Text: PlaceholderTime, X: 20, Y: 500, Width: 335, Align: AlignCenter, FontFamily: "Raleway-Regular", Size: 14},
				Location:  {Text: PlaceholderLocation, X: 20, Y: 505, Width: 335, Align: AlignCenter, FontFamily: "Raleway-Medium", Size: 13, Visible: true},
			},
		},
		{
			ID: "royal", Label: "Royal",
			Elements: map[ElementKey]ElementSpec{
				Header:    {Text: PlaceholderHeader, X: 30, Y: 120, Width: 315, Align: AlignCenter, FontFamily: "Merriweather-Regular", Size: 12, Tracking: 2, Uppercase: true, Visible: true},
				Main:      {Text: PlaceholderMain, X: 30, Y: 150, Width: 315, Align: AlignCenter, FontFamily: "PlayfairDisplay-Bold", Size: 36, LineHeight: 1.15, Color: "#FBF5DE", Visible: true},
				DateLabel: {Text: PlaceholderDate, X: 30, Y: 280, Width: 315, Align: AlignCenter, FontFamily: "Merriweather-Bold", Size: 15, Tracking: 1, Visible: true},
				TimeLabel: {Text: PlaceholderTime, X: 30, Y: 302, Width: 315, Align: AlignCenter, FontFamily: "Merriweather-Regular", Size: 14},
				Location:  {Text: PlaceholderLocation, X: 30, Y: 320, Width: 315, Align: AlignCenter, FontFamily: "Merriweather-Regular", Size: 13, Visible: true},
			},
		},
		{
			ID: "romance", Label: "Romance",
			Elements: map[ElementKey]ElementSpec{
				Header:    {Text: PlaceholderHeader, X: 0, Y: 40, Width: 375, Align: AlignCenter, FontFamily: "GreatVibes-Regular", Size: 14, Visible: true},
				Main:      {Text: PlaceholderMain, X: 0, Y: 80, Width: 375, Align: AlignCenter, FontFamily: "GreatVibes-Regular", Size: 48, Visible: true},
				DateLabel: {Text: PlaceholderDate, X: 0, Y: 190, Width: 375, Align: AlignCenter, FontFamily: "GreatVibes-Regular", Size: 18, Visible: true},
				TimeLabel: {Text: PlaceholderTime, X: 0, Y: 215, Width: 375, Align: AlignCenter, FontFamily: "GreatVibes-Regular", Size: 18},
				Location:  {Text: PlaceholderLocation, X: 0, Y: 240, Width: 375, Align: AlignCenter, FontFamily: "GreatVibes-Regular", Size: 14, Visible: true},
			},
		},
	}
}
