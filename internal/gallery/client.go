/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrMalformed marks a response body that could not be decoded.
var ErrMalformed = errors.New("malformed gallery response")

// Template is one raw search hit.
type Template struct {
	ID         string `json:"id"`
	Background string `json:"bg"`
	Color      string `json:"color,omitempty"`
}

// UnmarshalJSON accepts numeric ids as well as strings.
func (t *Template) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Background string          `json:"bg"`
		Color      string          `json:"color"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.Background, t.Color = raw.Background, raw.Color
	t.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		t.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("template id: %w", err)
	}
	t.ID = n.String()
	return nil
}

// Searcher is the remote template search.
type Searcher interface {
	Search(ctx context.Context, category string, page int) ([]Template, error)
}

// Client talks to the template search function over HTTP.
type Client struct {
	Endpoint string
	APIKey   string
	client   *http.Client
}

// NewClient creates a search client. A zero timeout means 10s.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		Endpoint: strings.TrimSpace(endpoint),
		APIKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Category string `json:"category"`
	Page     int    `json:"page"`
}

type searchResponse struct {
	Templates []Template `json:"templates"`
	Error     string     `json:"error,omitempty"`
}

// Search posts {category, page} and returns the templates of that page.
// Undecodable bodies yield ErrMalformed; transport and status failures are
// returned as is.
func (c *Client) Search(ctx context.Context, category string, page int) ([]Template, error) {
	body, err := json.Marshal(searchRequest{Category: category, Page: page})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("search %q page %d: %s", category, page, resp.Status)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out.Templates, nil
}
