/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"invitecanvas/internal/config"
	"invitecanvas/internal/crash"
	"invitecanvas/internal/design"
	"invitecanvas/internal/gallery"
	"invitecanvas/internal/geom"
	applog "invitecanvas/internal/log"
	"invitecanvas/internal/manifest"
	"invitecanvas/internal/storage"
	"invitecanvas/internal/telemetry"
	"invitecanvas/internal/version"
)

func usage() {
	fmt.Println("InviteCanvas: invitation canvas engine")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  invitecanvas version|-v|--version              Show version")
	fmt.Println("  invitecanvas manifests [--pack <file>]          List layout manifests")
	fmt.Println("  invitecanvas gallery <category> [pages]         Fetch gallery pages and print the bento rows")
	fmt.Println("  invitecanvas render [flags]                     Compose a design and write PNG or SVG (render -h for flags)")
	fmt.Println("  invitecanvas drafts [list|recover|export <id> <file>]")
	fmt.Println("                                                  Inspect saved drafts")
	fmt.Println("  invitecanvas catalog                            List font options, brand colors and event types")
	fmt.Println("  invitecanvas login <api-key>                    Store the gallery API key in the OS keyring")
	fmt.Println("  invitecanvas logout                             Remove the stored gallery API key")
}

// app bundles what every command needs.
type app struct {
	cfg       config.AppConfig
	apiKey    string
	telemetry *telemetry.Client
	guard     *crash.Guard
	log       *slog.Logger
}

func main() {
	cfg, apiKey, err := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	tc := telemetry.NewDefault(telemetry.FromAppConfig(cfg.Telemetry))
	a := &app{cfg: cfg, apiKey: apiKey, telemetry: tc, log: l}
	a.guard = &crash.Guard{Dir: dataDir(), Telemetry: tc}
	defer a.guard.Recover()

	code := a.run(os.Args)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	tc.Flush(ctx)
	cancel()
	tc.Close()
	if code != 0 {
		os.Exit(code)
	}
}

func (a *app) run(args []string) int {
	a.log.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return 0
	}
	ctx := context.Background()
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
		return 0
	case "manifests":
		return a.fail(a.manifests(args[2:]))
	case "gallery":
		if len(args) < 3 {
			fmt.Println("gallery requires <category>")
			usage()
			return 2
		}
		pages := 1
		if len(args) >= 4 {
			n, err := strconv.Atoi(args[3])
			if err != nil || n < 1 {
				fmt.Println("pages must be a positive number")
				return 2
			}
			pages = n
		}
		return a.fail(a.gallery(ctx, args[2], pages))
	case "render":
		return a.fail(a.render(ctx, args[2:]))
	case "drafts":
		return a.fail(a.drafts(ctx, args[2:]))
	case "catalog":
		catalog()
		return 0
	case "login":
		if len(args) < 3 {
			fmt.Println("login requires <api-key>")
			return 2
		}
		if err := config.Save(a.cfg, args[2]); err != nil {
			return a.fail(err)
		}
		fmt.Println("API key stored.")
		return 0
	case "logout":
		if err := config.ForgetAPIKey(); err != nil {
			return a.fail(err)
		}
		fmt.Println("API key removed.")
		return 0
	}
	usage()
	return 2
}

func (a *app) fail(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Println(ue.Error())
		return 2
	}
	a.log.Error("command failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	return 1
}

type usageError string

func (e usageError) Error() string { return string(e) }

// dataDir holds drafts and crash reports next to the config file.
func dataDir() string {
	p, err := config.ConfigPath()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Dir(p)
}

func (a *app) openDrafts() (*storage.Drafts, error) {
	path := a.cfg.Storage.DraftsPath
	if path == "" {
		path = storage.DefaultPath(dataDir())
	}
	return storage.Open(path, 20)
}

func registry(pack string) (*manifest.Registry, error) {
	reg := manifest.NewRegistry()
	if pack != "" {
		if _, err := reg.LoadPackFile(pack); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (a *app) manifests(args []string) error {
	var pack string
	if len(args) >= 2 && args[0] == "--pack" {
		pack = args[1]
	} else if len(args) > 0 {
		return usageError("usage: manifests [--pack <file>]")
	}
	reg, err := registry(pack)
	if err != nil {
		return err
	}
	for i, m := range reg.All() {
		fmt.Printf("%d\t%s\t%s\n", i, m.ID, m.Label)
	}
	return nil
}

func (a *app) gallery(ctx context.Context, category string, pages int) error {
	reg := manifest.NewRegistry()
	client := gallery.NewClient(a.cfg.Gallery.Endpoint, a.apiKey, a.cfg.Gallery.Timeout())
	f := gallery.NewFetcher(client, nil, reg,
		gallery.WithItemCap(a.cfg.Gallery.ItemCap),
		gallery.WithFailureHook(a.telemetry.GalleryFetchFailed),
	)
	page, err := f.Select(ctx, category)
	if err != nil {
		return err
	}
	for i := 1; i < pages && !page.IsEnd; i++ {
		if _, err := f.Next(ctx, category); err != nil {
			return err
		}
		page = f.Cache().Snapshot(category)
	}
	grid := gallery.NewGrid(geom.ReferenceWidth, 8, 16)
	for _, row := range gallery.Rows(page.Items) {
		for _, it := range row.Items {
			fmt.Printf("%s\t%s\tspan=%d w=%.0f h=%d\t%s\n", row.ID, it.Manifest.ID, it.Span, grid.SlotWidth(it.Span), it.Height, it.Background)
		}
	}
	fmt.Printf("items=%d next=%d end=%v\n", len(page.Items), page.NextPage, page.IsEnd)
	return nil
}

func catalog() {
	fmt.Println("Fonts:")
	for _, f := range design.FontOptions() {
		fmt.Printf("  %s\t%s\n", f.Value, f.Label)
	}
	fmt.Println("Colors:")
	fmt.Printf("  %s\n", strings.Join(design.BrandColors(), " "))
	fmt.Println("Event types:")
	fmt.Printf("  %s\n", strings.Join(design.EventTypes(), ", "))
}

func (a *app) drafts(ctx context.Context, args []string) error {
	d, err := a.openDrafts()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	cmd := "list"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "list":
		list, err := d.List(ctx, 0)
		if err != nil {
			return err
		}
		for _, info := range list {
			state := "draft"
			if info.Finished {
				state = "finished"
			}
			fmt.Printf("%s\t%s\t%s\t%s\t%q\n", info.ID, info.SavedAt.Local().Format(time.DateTime), state, info.ManifestID, info.Title)
		}
		return nil
	case "recover":
		st, saved, err := d.Latest(ctx)
		if errors.Is(err, storage.ErrNoDrafts) {
			fmt.Println("No unfinished drafts.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", st.ID, saved.Local().Format(time.DateTime), st.ManifestID)
		return nil
	case "export":
		if len(args) < 3 {
			return usageError("usage: drafts export <id> <file>")
		}
		st, _, err := d.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return storage.WriteJSON(args[2], st)
	}
	return usageError("usage: drafts [list|recover|export <id> <file>]")
}
