/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invitecanvas/internal/design"
	applog "invitecanvas/internal/log"
	"invitecanvas/internal/manifest"
)

// ErrNoDrafts is returned when the store holds no matching draft.
var ErrNoDrafts = errors.New("no drafts")

// tsLayout is fixed width so saved_at sorts lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// language=SQL
// dialect=SQLite
const upsertDraftSQL = `INSERT INTO drafts(id, manifest_id, title, state_json, finished, saved_at) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET manifest_id=excluded.manifest_id, title=excluded.title, state_json=excluded.state_json,
	finished=MAX(drafts.finished, excluded.finished), saved_at=excluded.saved_at`

// language=SQL
// dialect=SQLite
const selectLatestDraftSQL = `SELECT state_json, saved_at FROM drafts WHERE finished = 0 ORDER BY saved_at DESC, rowid DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const selectDraftSQL = `SELECT state_json, saved_at FROM drafts WHERE id = ?`

// language=SQL
// dialect=SQLite
const listDraftsSQL = `SELECT id, manifest_id, title, finished, saved_at FROM drafts ORDER BY saved_at DESC, rowid DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneDraftsSQL = `DELETE FROM drafts WHERE finished = 0 AND id NOT IN (
	SELECT id FROM drafts WHERE finished = 0 ORDER BY saved_at DESC, rowid DESC LIMIT ?
)`

// DraftInfo is one row of List.
type DraftInfo struct {
	ID         string
	ManifestID string
	Title      string
	Finished   bool
	SavedAt    time.Time
}

// Save stores a finished design. It satisfies the editor hand-off sink.
func (d *Drafts) Save(ctx context.Context, st *design.State) error {
	return d.put(ctx, st, true)
}

// Autosave stores an unfinished design and prunes older autosaves beyond the
// configured limit.
func (d *Drafts) Autosave(ctx context.Context, st *design.State) error {
	if err := d.put(ctx, st, false); err != nil {
		return err
	}
	if d.keep > 0 {
		if _, err := d.db.ExecContext(ctx, pruneDraftsSQL, d.keep); err != nil {
			d.log.Warn("prune drafts failed", slog.Any("err", err))
		}
	}
	return nil
}

func (d *Drafts) put(ctx context.Context, st *design.State, finished bool) error {
	if st == nil {
		return errors.New("nil design")
	}
	l := applog.WithOperation(d.log, "save")
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	title := ""
	if el, ok := st.Elements[manifest.Main]; ok {
		title = el.Text
	}
	flag := 0
	if finished {
		flag = 1
	}
	now := time.Now().UTC().Format(tsLayout)
	if _, err := d.db.ExecContext(ctx, upsertDraftSQL, st.ID, st.ManifestID, title, string(data), flag, now); err != nil {
		l.ErrorContext(applog.ContextWithDesign(ctx, st.ID), "save draft failed", slog.Any("err", err))
		return fmt.Errorf("save draft: %w", err)
	}
	l.DebugContext(applog.ContextWithDesign(ctx, st.ID), "draft saved", slog.Bool("finished", finished))
	return nil
}

// Latest returns the most recent unfinished draft, the one to offer for
// recovery after a crash.
func (d *Drafts) Latest(ctx context.Context) (*design.State, time.Time, error) {
	return d.scanOne(d.db.QueryRowContext(ctx, selectLatestDraftSQL))
}

// Get loads the draft with id.
func (d *Drafts) Get(ctx context.Context, id string) (*design.State, time.Time, error) {
	return d.scanOne(d.db.QueryRowContext(ctx, selectDraftSQL, id))
}

func (d *Drafts) scanOne(row *sql.Row) (*design.State, time.Time, error) {
	var raw, ts string
	if err := row.Scan(&raw, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrNoDrafts
		}
		return nil, time.Time{}, err
	}
	var st design.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode draft: %w", err)
	}
	saved, _ := time.Parse(tsLayout, ts)
	return &st, saved, nil
}

// List returns up to limit drafts, newest first.
func (d *Drafts) List(ctx context.Context, limit int) ([]DraftInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx, listDraftsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []DraftInfo
	for rows.Next() {
		var (
			info     DraftInfo
			finished int
			ts       string
		)
		if err := rows.Scan(&info.ID, &info.ManifestID, &info.Title, &finished, &ts); err != nil {
			return nil, err
		}
		info.Finished = finished != 0
		info.SavedAt, _ = time.Parse(tsLayout, ts)
		out = append(out, info)
	}
	return out, rows.Err()
}
