/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"invitecanvas/internal/design"
	"invitecanvas/internal/manifest"
)

type memStore struct{ saved []*design.State }

func (m *memStore) Autosave(_ context.Context, st *design.State) error {
	m.saved = append(m.saved, st)
	return nil
}

func quietStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = old })
	return &code
}

func TestRecoverWritesReportAndAutosaves(t *testing.T) {
	quietStderr(t)
	code := stubExit(t)
	m, _ := manifest.NewRegistry().ByID("impact")
	st := design.New(m, "", 0.2)
	design.Hydrate(st, design.EventFields{Name: "Secret Party"})
	store := &memStore{}
	dir := t.TempDir()
	g := &Guard{Dir: dir, Latest: func() *design.State { return st }, Store: store}

	func() {
		defer g.Recover()
		panic("boom")
	}()

	if *code != 2 {
		t.Fatalf("exit code = %d, want 2", *code)
	}
	if len(store.saved) != 1 || store.saved[0].ID != st.ID {
		t.Fatalf("autosave not called with the open design")
	}
	files, _ := os.ReadDir(dir)
	var found string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(dir, f.Name())
		}
	}
	if found == "" {
		t.Fatalf("expected crash report in %s", dir)
	}
	b, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) || !bytes.Contains(b, []byte("Design: "+st.ID)) {
		t.Fatalf("report content: %s", b)
	}
	if bytes.Contains(b, []byte("Secret Party")) {
		t.Fatalf("report leaked design text")
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	code := stubExit(t)
	func() {
		defer (&Guard{}).Recover()
	}()
	if *code != -1 {
		t.Fatalf("exit called without panic")
	}
}

func TestRecoverNilGuard(t *testing.T) {
	quietStderr(t)
	code := stubExit(t)
	var g *Guard
	func() {
		defer g.Recover()
		panic("nil guard")
	}()
	if *code != 2 {
		t.Fatalf("exit code = %d", *code)
	}
}

func TestWriteReportDefaultsToTemp(t *testing.T) {
	path, report, err := writeReport("", nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	defer os.Remove(path)
	if filepath.Dir(path) != filepath.Clean(os.TempDir()) {
		t.Fatalf("report at %s, want temp dir", path)
	}
	if !strings.Contains(string(report), "InviteCanvas Crash Report") {
		t.Fatalf("report header missing")
	}
}
