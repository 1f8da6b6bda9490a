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
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"invitecanvas/internal/design"
	"invitecanvas/internal/editor"
	"invitecanvas/internal/geom"
	applog "invitecanvas/internal/log"
	"invitecanvas/internal/manifest"
	"invitecanvas/internal/render"
	"invitecanvas/internal/storage"
)

type renderOpts struct {
	manifest string
	pack     string
	fields   design.EventFields
	bg       string
	custom   bool
	overlay  float64
	zoom     float64
	width    float64
	out      string
	jsonOut  string
	moves    []editor.Event
	edits    []editor.Event
	fonts    map[string]string
}

func parseRenderFlags(args []string, defaults renderOpts) (renderOpts, error) {
	o := defaults
	o.fonts = map[string]string{}
	var date, clock string
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.StringVar(&o.manifest, "manifest", o.manifest, "layout manifest id")
	fs.StringVar(&o.pack, "pack", "", "extra manifest pack (YAML or JSON)")
	fs.StringVar(&o.fields.Name, "name", "", "event name")
	fs.StringVar(&o.fields.Type, "type", "", "event type, e.g. Birthday")
	fs.StringVar(&date, "date", "", "event date, YYYY-MM-DD")
	fs.StringVar(&clock, "time", "", "event time, HH:MM")
	fs.BoolVar(&o.fields.TimeTBD, "tbd", false, "time to be decided")
	fs.StringVar(&o.fields.Location, "location", "", "event location")
	fs.StringVar(&o.bg, "bg", o.bg, "background image path or URL")
	fs.BoolVar(&o.custom, "custom-bg", false, "background was picked by the user (drops the overlay)")
	fs.Float64Var(&o.overlay, "overlay", o.overlay, "overlay opacity 0..1")
	fs.Float64Var(&o.zoom, "zoom", 1, "background pinch factor")
	fs.Float64Var(&o.width, "width", 750, "output width in pixels")
	fs.StringVar(&o.out, "out", "invite.png", "output file (.png or .svg)")
	fs.StringVar(&o.jsonOut, "json", "", "also write the design JSON here")
	fs.Func("move", "drag KEY:DX,DY in output pixels (repeatable)", func(v string) error {
		k, rest, err := keyed(v)
		if err != nil {
			return err
		}
		dx, dy, ok := strings.Cut(rest, ",")
		if !ok {
			return fmt.Errorf("move %q: want KEY:DX,DY", v)
		}
		x, err1 := strconv.ParseFloat(dx, 64)
		y, err2 := strconv.ParseFloat(dy, 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("move %q: bad delta", v)
		}
		o.moves = append(o.moves, editor.BeginDrag{Key: k}, editor.UpdateDrag{Key: k, DX: x, DY: y}, editor.EndDrag{Key: k})
		return nil
	})
	fs.Func("text", "override KEY:TEXT (repeatable)", func(v string) error {
		k, rest, err := keyed(v)
		if err != nil {
			return err
		}
		o.edits = append(o.edits, editor.SetText{Key: k, Text: rest})
		return nil
	})
	fs.Func("color", "override KEY:#RRGGBB (repeatable)", func(v string) error {
		k, rest, err := keyed(v)
		if err != nil {
			return err
		}
		o.edits = append(o.edits, editor.SetColor{Key: k, Color: rest})
		return nil
	})
	fs.Func("rotate", "rotate KEY:DEGREES (repeatable)", func(v string) error {
		k, rest, err := keyed(v)
		if err != nil {
			return err
		}
		deg, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return fmt.Errorf("rotate %q: %w", v, err)
		}
		o.edits = append(o.edits, editor.SetRotation{Key: k, Degrees: deg})
		return nil
	})
	fs.Func("font", "load FAMILY=PATH.ttf (repeatable)", func(v string) error {
		fam, path, ok := strings.Cut(v, "=")
		if !ok || fam == "" || path == "" {
			return fmt.Errorf("font %q: want FAMILY=PATH", v)
		}
		o.fonts[fam] = path
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return o, usageError(err.Error())
	}
	var err error
	if o.fields.Date, err = parseClock("2006-01-02", date); err != nil {
		return o, usageError("date: " + err.Error())
	}
	if o.fields.Time, err = parseClock("15:04", clock); err != nil {
		return o, usageError("time: " + err.Error())
	}
	return o, nil
}

func keyed(v string) (manifest.ElementKey, string, error) {
	ks, rest, ok := strings.Cut(v, ":")
	if !ok {
		return "", "", fmt.Errorf("%q: want KEY:VALUE", v)
	}
	k, err := manifest.ParseKey(ks)
	return k, rest, err
}

func parseClock(layout, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(layout, strings.TrimSpace(v), time.Local)
}

// render drives an editor session through its event loop, then hands the
// finished design to a sink that writes the output surface and the draft.
func (a *app) render(ctx context.Context, args []string) error {
	o, err := parseRenderFlags(args, renderOpts{
		manifest: a.cfg.Editor.DefaultManifest,
		bg:       a.cfg.Editor.DefaultBackground,
		overlay:  a.cfg.Editor.OverlayOpacity,
	})
	if err != nil {
		return err
	}
	reg, err := registry(o.pack)
	if err != nil {
		return err
	}
	m, ok := reg.ByID(o.manifest)
	if !ok {
		return usageError(fmt.Sprintf("unknown manifest %q", o.manifest))
	}
	tr, ok := geom.FitWidth(o.width)
	if !ok {
		return usageError("width must be positive")
	}

	drafts, err := a.openDrafts()
	if err != nil {
		a.log.Warn("drafts unavailable", slog.Any("err", err))
	} else {
		defer func() { _ = drafts.Close() }()
	}

	fonts, err := render.NewFonts()
	if err != nil {
		return err
	}
	for fam, path := range o.fonts {
		if err := fonts.LoadTTF(fam, path); err != nil {
			return err
		}
	}
	stage := editor.NewStage(m, o.bg, o.overlay, o.fields, editor.Options{
		SnapThreshold: a.cfg.Editor.SnapThreshold,
		MaxZoom:       a.cfg.Editor.MaxZoom,
		Lines:         fonts.LineCount,
	})
	loop := editor.NewLoop(stage, 0)
	a.guard.Latest = func() *design.State { return loop.Latest().State }
	if drafts != nil {
		a.guard.Store = drafts
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.runGuarded(runCtx, loop)

	events := []editor.Event{editor.Resize{Size: geom.Size{W: o.width}}}
	if o.custom {
		events = append(events, editor.SetBackground{URI: o.bg, Custom: true})
	}
	if o.zoom != 1 {
		events = append(events, editor.PinchUpdate{Scale: o.zoom}, editor.PinchEnd{})
	}
	events = append(events, o.edits...)
	events = append(events, o.moves...)
	events = append(events, editor.Tick{DT: 1})
	for _, ev := range events {
		if err := loop.Send(ctx, ev); err != nil {
			return fmt.Errorf("apply %T: %w", ev, err)
		}
	}
	if drafts != nil {
		if err := drafts.Autosave(ctx, loop.Latest().State); err != nil {
			a.log.Warn("autosave failed", slog.Any("err", err))
		}
	}

	sink := editor.SinkFunc(func(ctx context.Context, st *design.State) error {
		ctx = applog.ContextWithDesign(ctx, st.ID)
		if err := writeSurface(ctx, a.log, o.out, st, tr, fonts); err != nil {
			return err
		}
		if o.jsonOut != "" {
			if err := storage.WriteJSON(o.jsonOut, st); err != nil {
				return err
			}
		}
		if drafts != nil {
			if err := drafts.Save(ctx, st); err != nil {
				a.log.WarnContext(ctx, "draft save failed", slog.Any("err", err))
			}
		}
		a.telemetry.DesignFinished(st.ManifestID)
		a.log.InfoContext(ctx, "design written", slog.String("out", o.out))
		return nil
	})
	if err := loop.Finish(ctx, sink); err != nil {
		return err
	}
	fmt.Println("Wrote", o.out)
	return nil
}

// runGuarded runs the event loop under the crash guard.
func (a *app) runGuarded(ctx context.Context, loop *editor.Loop) {
	defer a.guard.Recover()
	_ = loop.Run(ctx)
}

func writeSurface(ctx context.Context, log *slog.Logger, out string, st *design.State, tr geom.Transform, fonts *render.Fonts) error {
	sc, ok := render.Compose(st, tr, render.Options{})
	if !ok {
		return fmt.Errorf("nothing to render")
	}
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(out)) {
	case ".svg":
		encode = func(w io.Writer) error { return render.WriteSVG(w, sc, fonts) }
	case ".png", "":
		bg, err := render.LoadBackground(ctx, &http.Client{Timeout: 30 * time.Second}, st.Background)
		if err != nil {
			log.WarnContext(ctx, "background unavailable, painting base color", slog.Any("err", err))
			bg = nil
		}
		r := &render.Raster{Fonts: fonts}
		encode = func(w io.Writer) error { return r.WritePNG(w, sc, bg) }
	default:
		return usageError(fmt.Sprintf("unsupported output %q (want .png or .svg)", out))
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
