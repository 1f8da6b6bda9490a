/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invitecanvas/internal/design"
	"invitecanvas/internal/geom"
	"invitecanvas/internal/manifest"
)

func startLoop(t *testing.T) (*Loop, <-chan error) {
	t.Helper()
	l := NewLoop(newStage(t), 0)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return l, done
}

func TestLoopAppliesConcurrentPosts(t *testing.T) {
	l, _ := startLoop(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if err := l.Post(SetOverlay{Opacity: float64(i) / 100}); err != nil {
					t.Errorf("Post: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Send(ctx, SetSize{Key: manifest.Main, Size: 50}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := l.Latest().State.Elements[manifest.Main].Size; got != 50 {
		t.Fatalf("latest size = %v", got)
	}
}

func TestLoopSendReturnsApplyError(t *testing.T) {
	l, _ := startLoop(t)
	err := l.Send(context.Background(), EndDrag{Key: manifest.Main})
	if !errors.Is(err, ErrNotDragging) {
		t.Fatalf("err = %v", err)
	}
}

func TestSubscribeSeesNewestSnapshot(t *testing.T) {
	l, _ := startLoop(t)
	ch, unsubscribe := l.Subscribe()
	defer unsubscribe()
	ctx := context.Background()
	if err := l.Send(ctx, Resize{Size: geom.Size{W: 375}}); err != nil {
		t.Fatal(err)
	}
	if err := l.Send(ctx, SetTool{Mode: ToolColor}); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.Tool == ToolColor {
				if !snap.Ready {
					t.Fatalf("snapshot not ready after resize")
				}
				return
			}
		case <-deadline:
			t.Fatalf("no snapshot with the new tool")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	l, _ := startLoop(t)
	ch, unsubscribe := l.Subscribe()
	unsubscribe()
	unsubscribe()
	for range ch {
	}
}

func TestLoopFinishStopsRun(t *testing.T) {
	l, done := startLoop(t)
	var saved *design.State
	sink := SinkFunc(func(_ context.Context, st *design.State) error {
		saved = st
		return nil
	})
	if err := l.Finish(context.Background(), sink); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
	if saved == nil {
		t.Fatalf("sink not called")
	}
	if err := l.Post(SetOverlay{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Post after finish = %v", err)
	}
}

func TestLoopCancelDiscards(t *testing.T) {
	l, done := startLoop(t)
	if err := l.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	<-done
	if _, ok := <-l.Done(); ok {
		t.Fatalf("done channel should be closed")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	l := NewLoop(newStage(t), 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
	if err := l.Send(context.Background(), Tick{DT: 0.1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Send after stop = %v", err)
	}
}
