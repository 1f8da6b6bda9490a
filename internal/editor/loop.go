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
	"log/slog"
	"sync"

	applog "invitecanvas/internal/log"
)

// DefaultQueueSize bounds the event queue of a Loop.
const DefaultQueueSize = 64

type request struct {
	ev    Event
	fn    func(*Stage) error
	reply chan error
}

// Loop serializes all access to a Stage on the goroutine running Run. Post,
// Send and Do may be called from any goroutine.
type Loop struct {
	stage   *Stage
	reqs    chan request
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	latest  Snapshot

	log *slog.Logger
}

// NewLoop wraps st. queue <= 0 uses DefaultQueueSize.
func NewLoop(st *Stage, queue int) *Loop {
	if queue <= 0 {
		queue = DefaultQueueSize
	}
	return &Loop{
		stage:   st,
		reqs:    make(chan request, queue),
		stopped: make(chan struct{}),
		subs:    make(map[int]chan Snapshot),
		latest:  st.Snapshot(),
		log:     applog.WithComponent("editor.loop"),
	}
}

// Run applies queued events until ctx is done or the session is finished or
// cancelled. Subscriber channels are closed on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	l.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-l.reqs:
			var err error
			if r.fn != nil {
				err = r.fn(l.stage)
			} else {
				err = l.stage.Apply(r.ev)
				if err != nil {
					l.log.Warn("event rejected", slog.String("event", eventName(r.ev)), slog.Any("err", err))
				}
			}
			if r.reply != nil {
				r.reply <- err
			}
			l.publish()
			if l.stage.Closed() {
				return nil
			}
		}
	}
}

func (l *Loop) stop() {
	l.once.Do(func() {
		close(l.stopped)
		l.mu.Lock()
		for id, ch := range l.subs {
			close(ch)
			delete(l.subs, id)
		}
		l.mu.Unlock()
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.stopped }

// Post queues ev without waiting for it to be applied. It blocks while the
// queue is full and returns ErrClosed once the loop has stopped.
func (l *Loop) Post(ev Event) error {
	return l.enqueue(context.Background(), request{ev: ev})
}

// Send queues ev and waits for the result of Apply.
func (l *Loop) Send(ctx context.Context, ev Event) error {
	return l.roundTrip(ctx, request{ev: ev})
}

// Do runs fn on the loop goroutine and returns its error.
func (l *Loop) Do(ctx context.Context, fn func(*Stage) error) error {
	return l.roundTrip(ctx, request{fn: fn})
}

func (l *Loop) roundTrip(ctx context.Context, r request) error {
	r.reply = make(chan error, 1)
	if err := l.enqueue(ctx, r); err != nil {
		return err
	}
	select {
	case err := <-r.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		// Run may have answered just before stopping.
		select {
		case err := <-r.reply:
			return err
		default:
			return ErrClosed
		}
	}
}

func (l *Loop) enqueue(ctx context.Context, r request) error {
	select {
	case <-l.stopped:
		return ErrClosed
	default:
	}
	select {
	case l.reqs <- r:
		return nil
	case <-l.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finish hands the design to sink and ends the session.
func (l *Loop) Finish(ctx context.Context, sink Sink) error {
	return l.Do(ctx, func(s *Stage) error { return s.Finish(ctx, sink) })
}

// Cancel discards the design and ends the session.
func (l *Loop) Cancel(ctx context.Context) error {
	return l.Do(ctx, func(s *Stage) error {
		s.Cancel()
		return nil
	})
}

// Subscribe returns a channel receiving a snapshot after every event. A slow
// subscriber only ever sees the newest snapshot; older ones are dropped.
func (l *Loop) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	l.mu.Lock()
	select {
	case <-l.stopped:
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	ch <- l.latest
	l.mu.Unlock()
	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			close(c)
			delete(l.subs, id)
		}
	}
}

// Latest returns the most recent snapshot.
func (l *Loop) Latest() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

func (l *Loop) publish() {
	snap := l.stage.Snapshot()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest = snap
	for _, ch := range l.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func eventName(ev Event) string {
	switch ev.(type) {
	case SelectElement:
		return "select"
	case BeginDrag, UpdateDrag, EndDrag:
		return "drag"
	case PinchUpdate, PinchEnd:
		return "pinch"
	case SetText, SetSize, SetFont, SetColor, SetAlign, SetVisible, SetRotation:
		return "element"
	case ApplyTemplate:
		return "template"
	default:
		return "stage"
	}
}
