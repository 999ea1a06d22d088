// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"io"
	"sync"

	"secgw/internal/gateway"
	"secgw/pkg/ring"
)

// AsyncQueue emulates a submission-queue-based async I/O source: a pool
// of worker goroutines each blocked on one reader, fanning completions
// into a single shared ring buffer the dispatch loop polls
// non-blockingly. No io_uring binding is used; this is the same
// goroutine-pool-plus-ring-buffer shape as any other blocking-transport
// adapter, just with N readers instead of one.
type AsyncQueue struct {
	mu     sync.Mutex
	buf    *ring.Buffer
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewAsyncQueue allocates a queue with the given shared ring capacity.
func NewAsyncQueue(capacity int) *AsyncQueue {
	return &AsyncQueue{buf: ring.New(capacity), stopCh: make(chan struct{})}
}

// AddReader starts one worker goroutine draining r into the shared ring
// buffer. Call before HookAsyncQueue's source starts being polled, or at
// any time the dispatch loop isn't also inside this call (registries
// aren't otherwise touched here).
func (q *AsyncQueue) AddReader(r io.Reader) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		scratch := make([]byte, 4096)
		for {
			select {
			case <-q.stopCh:
				return
			default:
			}
			n, err := r.Read(scratch)
			if n > 0 {
				q.mu.Lock()
				q.buf.BulkCopyFrom(scratch[:n])
				q.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
}

// HookAsyncQueue wires a Source polling the queue's shared ring buffer.
func HookAsyncQueue(p *gateway.Pipeline, sourceID int, q *AsyncQueue) *gateway.Error {
	src, err := p.Sources.Allocate(sourceID)
	if err != nil {
		return err
	}
	src.HasMore = func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return !q.buf.IsEmpty()
	}
	src.ReadByte = func() byte {
		q.mu.Lock()
		defer q.mu.Unlock()
		b, _ := q.buf.PopOne()
		return b
	}
	src.Cleanup = q.Stop
	return nil
}

// Stop signals every worker goroutine to exit after its current blocking
// read returns, then waits for them.
func (q *AsyncQueue) Stop() {
	select {
	case <-q.stopCh:
	default:
		close(q.stopCh)
	}
	q.wg.Wait()
}
