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

// Package ring implements a fixed-capacity byte FIFO used to hand bytes
// from a blocking transport worker to the dispatch loop. Push on a full
// ring is destructive: the oldest byte is overwritten and the tail
// advances. Fresh bytes matter more than stale ones for an inbound
// telemetry stream, and a protocol resync at the next sentinel recovers
// framing after a drop.
package ring

// Buffer is not safe for concurrent use by itself; callers sharing a
// Buffer between a worker goroutine and a reader must hold their own lock
// around the transfer, and only while copying bytes, never across a
// dispatch-loop callback.
type Buffer struct {
	buf  []byte
	head int
	tail int
	full bool
}

// New allocates a Buffer with the given capacity. A zero or negative
// capacity is treated as a capacity of zero; such a buffer is always both
// empty and full, so every push is a no-op drop.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Capacity returns the maximum number of bytes the buffer can hold.
func (b *Buffer) Capacity() int {
	return len(b.buf)
}

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool {
	return !b.full && b.head == b.tail
}

// IsFull reports whether the buffer is at capacity.
func (b *Buffer) IsFull() bool {
	return b.full || len(b.buf) == 0
}

// Size returns the number of bytes currently buffered.
func (b *Buffer) Size() int {
	if len(b.buf) == 0 {
		return 0
	}
	if b.full {
		return len(b.buf)
	}
	if b.head >= b.tail {
		return b.head - b.tail
	}
	return len(b.buf) - b.tail + b.head
}

// Available returns the number of additional bytes that can be pushed
// before the next push starts overwriting unread data.
func (b *Buffer) Available() int {
	return len(b.buf) - b.Size()
}

// Reset empties the buffer without releasing its backing storage.
func (b *Buffer) Reset() {
	b.head = 0
	b.tail = 0
	b.full = false
}

// PushOne appends one byte, dropping the oldest buffered byte if the
// buffer is already full.
func (b *Buffer) PushOne(c byte) {
	if len(b.buf) == 0 {
		return
	}
	b.buf[b.head] = c
	b.head = (b.head + 1) % len(b.buf)
	if b.full {
		b.tail = b.head
	} else if b.head == b.tail {
		b.full = true
	}
}

// PopOne removes and returns the oldest buffered byte. The second return
// value is false when the buffer was empty.
func (b *Buffer) PopOne() (byte, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	c := b.buf[b.tail]
	b.tail = (b.tail + 1) % len(b.buf)
	b.full = false
	return c, true
}

// BulkCopyFrom pushes every byte of src in order, applying the same
// drop-oldest overflow policy as PushOne. It returns the number of bytes
// that were subsequently overwritten (dropped) as a result of this call.
func (b *Buffer) BulkCopyFrom(src []byte) (dropped int) {
	for _, c := range src {
		wasFull := b.full
		b.PushOne(c)
		if wasFull {
			dropped++
		}
	}
	return dropped
}

// BulkCopyTo pops up to len(dst) bytes into dst in FIFO order, returning
// the number of bytes copied.
func (b *Buffer) BulkCopyTo(dst []byte) int {
	n := 0
	for n < len(dst) {
		c, ok := b.PopOne()
		if !ok {
			break
		}
		dst[n] = c
		n++
	}
	return n
}
