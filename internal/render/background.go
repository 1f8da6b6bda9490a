/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

// maxBackgroundBytes bounds remote downloads.
const maxBackgroundBytes = 32 << 20

// LoadBackground decodes the background at uri. Supported forms are
// http(s) URLs, file:// URLs and plain paths; PNG, JPEG and WebP decode.
// An empty uri yields a nil image and no error.
func LoadBackground(ctx context.Context, client *http.Client, uri string) (image.Image, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch background: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("fetch background: http %d", resp.StatusCode)
		}
		return decode(io.LimitReader(resp.Body, maxBackgroundBytes))
	default:
		f, err := os.Open(strings.TrimPrefix(uri, "file://"))
		if err != nil {
			return nil, fmt.Errorf("open background: %w", err)
		}
		defer func() { _ = f.Close() }()
		return decode(f)
	}
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	return img, nil
}
