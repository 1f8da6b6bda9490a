/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file, a last autosave of the open
// design and a non-zero exit.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"invitecanvas/internal/design"
	applog "invitecanvas/internal/log"
	"invitecanvas/internal/telemetry"
	"invitecanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Autosaver persists unfinished work.
type Autosaver interface {
	Autosave(ctx context.Context, st *design.State) error
}

// Guard holds what Recover needs. All fields are optional.
type Guard struct {
	// Dir receives crash reports; empty uses os.TempDir.
	Dir string
	// Latest returns the design to rescue, or nil when none is open.
	Latest func() *design.State
	Store  Autosaver
	// Telemetry uploads the report when the user opted in.
	Telemetry *telemetry.Client
	// Exit replaces os.Exit when set.
	Exit func(code int)
}

// Recover captures a panic, logs it with the stack trace, writes a report
// file, autosaves the open design and exits with code 2.
//
// Usage: defer guard.Recover()
func (g *Guard) Recover() {
	r := recover()
	if r == nil {
		return
	}
	if g == nil {
		g = &Guard{}
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	var st *design.State
	if g.Latest != nil {
		st = g.Latest()
	}
	reportPath, report, err := writeReport(g.Dir, st, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if st != nil && g.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := g.Store.Autosave(ctx, st); err != nil {
			l.Error("autosave on crash failed", slog.Any("err", err))
		} else {
			l.Info("design autosaved", slog.String("design_id", st.ID))
		}
		cancel()
	}
	if g.Telemetry != nil {
		g.Telemetry.UploadCrash(report)
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exit := exitFn
	if g.Exit != nil {
		exit = g.Exit
	}
	exit(2)
}

func writeReport(dir string, st *design.State, panicVal any, stack []byte) (string, []byte, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "InviteCanvas Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if st != nil {
		// Ids only; element text is user content and stays out of the report.
		_, _ = fmt.Fprintf(&buf, "Design: %s\n", st.ID)
		_, _ = fmt.Fprintf(&buf, "Manifest: %s\n", st.ManifestID)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", buf.Bytes(), err
	}
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, buf.Bytes(), err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, buf.Bytes(), err
	}
	_ = f.Sync()
	return path, buf.Bytes(), nil
}
