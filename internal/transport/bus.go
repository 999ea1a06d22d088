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
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"secgw/internal/gateway"
	"secgw/internal/wire"
	"secgw/pkg/ring"
)

// Bus is an in-process, zero-dependency message queue: publishers push
// whole frame byte-slices, and the source drains them into a ring buffer
// the same way a queue-backed source would. It needs no worker goroutine
// of its own since the channel send/receive never blocks the dispatch
// thread (sends happen off-thread, receives are polled non-blockingly).
type Bus struct {
	queue chan []byte
	buf   *ring.Buffer
	mu    sync.Mutex
}

// NewBus allocates an in-process bus with the given outstanding-message
// and byte-buffer capacities.
func NewBus(queueDepth, byteCapacity int) *Bus {
	return &Bus{queue: make(chan []byte, queueDepth), buf: ring.New(byteCapacity)}
}

// Publish enqueues one frame's worth of bytes for the source side to
// drain. Safe to call from any goroutine; non-blocking once the queue has
// room, drops the message with the queue full rather than blocking the
// publisher (a bus is not a guaranteed-delivery transport).
func (b *Bus) Publish(frame []byte) {
	select {
	case b.queue <- frame:
	default:
	}
}

func (b *Bus) drain() {
	for {
		select {
		case f := <-b.queue:
			b.mu.Lock()
			b.buf.BulkCopyFrom(f)
			b.mu.Unlock()
		default:
			return
		}
	}
}

// HookBus wires a Source over the given Bus. The sink side of an
// in-process bus has no natural destination by itself; pair it with a
// second Bus (or a RedisBus) if bidirectional wiring is needed.
func HookBus(p *gateway.Pipeline, sourceID int, bus *Bus) *gateway.Error {
	src, err := p.Sources.Allocate(sourceID)
	if err != nil {
		return err
	}
	src.HasMore = func() bool {
		bus.drain()
		bus.mu.Lock()
		defer bus.mu.Unlock()
		return !bus.buf.IsEmpty()
	}
	src.ReadByte = func() byte {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		b, _ := bus.buf.PopOne()
		return b
	}
	return nil
}

// RedisBus publishes/subscribes frame bytes over Redis Pub/Sub, letting a
// bus endpoint span processes for demo/test deployments. It satisfies the
// same Source/Sink contract; selecting it never changes pipeline
// semantics, only where bytes come from.
type RedisBus struct {
	client  *redis.Client
	channel string
	codec   *wire.Codec
	logger  *zerolog.Logger

	worker *ringWorker
	sub    *redis.PubSub
}

// NewRedisBus builds a bus bound to addr/channel. Connection is lazy:
// the client dials on first use.
func NewRedisBus(addr, channel string, codec *wire.Codec, logger *zerolog.Logger) *RedisBus {
	return &RedisBus{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		codec:   codec,
		logger:  logger,
	}
}

// HookRedisBus allocates a source subscribed to the bus channel and a
// sink that publishes to it.
func HookRedisBus(p *gateway.Pipeline, sourceID, sinkID int, bus *RedisBus) *gateway.Error {
	src, err := p.Sources.Allocate(sourceID)
	if err != nil {
		return err
	}
	sink, err := p.Sinks.Allocate(sinkID)
	if err != nil {
		return err
	}

	src.Init = bus.init
	src.Cleanup = bus.cleanup
	src.HasMore = func() bool { return bus.worker != nil && bus.worker.hasMore() }
	src.ReadByte = func() byte { return bus.worker.readByte() }

	sink.Route = bus.route
	return nil
}

func (b *RedisBus) init() error {
	ctx := context.Background()
	b.sub = b.client.Subscribe(ctx, b.channel)
	ch := b.sub.Channel()

	w := newRingWorker(4096)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.stopCh:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				w.mu.Lock()
				w.buf.BulkCopyFrom([]byte(msg.Payload))
				w.mu.Unlock()
			}
		}
	}()
	b.worker = w
	return nil
}

func (b *RedisBus) route(msg *gateway.Message) *gateway.Error {
	out, serr := b.codec.Serialize(&msg.Frame)
	if serr != nil {
		return gateway.Wrap(gateway.IOFault, serr, "redis bus serialize")
	}
	if perr := b.client.Publish(context.Background(), b.channel, out).Err(); perr != nil {
		return gateway.Wrap(gateway.IOFault, perr, "redis bus publish")
	}
	return nil
}

func (b *RedisBus) cleanup() {
	if b.worker != nil {
		b.worker.stop()
	}
	if b.sub != nil {
		b.sub.Close()
	}
	b.client.Close()
}
