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
	"fmt"
	"strings"
)

// ElementKey names one of the canonical text slots every manifest provides.
type ElementKey string

const (
	Header    ElementKey = "header"
	Main      ElementKey = "main"
	DateLabel ElementKey = "dateLabel"
	TimeLabel ElementKey = "timeLabel"
	Location  ElementKey = "location"
)

var (
	ErrUnknownKey = errors.New("unknown element key")
	ErrIncomplete = errors.New("manifest is missing canonical keys")
)

// Keys returns the canonical keys in paint order.
func Keys() []ElementKey {
	return []ElementKey{Header, Main, DateLabel, TimeLabel, Location}
}

// ParseKey maps s onto a canonical key. Matching is exact apart from
// surrounding whitespace; anything else yields ErrUnknownKey.
func ParseKey(s string) (ElementKey, error) {
	k := ElementKey(strings.TrimSpace(s))
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Valid reports whether k is one of the canonical keys.
func (k ElementKey) Valid() bool {
	switch k {
	case Header, Main, DateLabel, TimeLabel, Location:
		return true
	}
	return false
}

// IsDate reports whether the slot carries a date string during hydration.
func (k ElementKey) IsDate() bool {
	return strings.Contains(strings.ToLower(string(k)), "date")
}

func (k ElementKey) String() string { return string(k) }
