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

// Command bridge is a standalone queued, rate-limited TCP<->TCP relay. It
// reuses no pipeline code: it is a plain byte relay with its own bounded
// queue and its own overflow policy (drop the whole queue, not just the
// oldest packet), a deliberate difference from the ring buffer's
// drop-oldest behavior elsewhere in this repo.
package main

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

type options struct {
	Listen        string `short:"l" long:"listen" required:"true" description:"address to accept the source connection on"`
	Upstream      string `short:"u" long:"upstream" required:"true" description:"address of the sink to relay to"`
	BandwidthBps  int64  `short:"b" long:"bandwidth" default:"0" description:"bytes/sec pacing cap; 0 disables pacing"`
	MaxQueueBytes int    `short:"m" long:"max-queue-bytes" default:"1048576" description:"drop the entire queue once this many buffered bytes accumulate"`
}

type packet struct {
	data []byte
}

// tunnel relays packets from one connection to another through a bounded
// queue. Overflow drops every queued packet at once rather than just the
// oldest entry.
type tunnel struct {
	logger   *zerolog.Logger
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*packet
	queueLen int
	maxBytes int
	bps      int64
}

func newTunnel(logger *zerolog.Logger, maxBytes int, bps int64) *tunnel {
	t := &tunnel{logger: logger, maxBytes: maxBytes, bps: bps}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *tunnel) enqueue(p *packet) {
	t.mu.Lock()
	t.queue = append(t.queue, p)
	t.queueLen += len(p.data)
	if t.maxBytes > 0 && t.queueLen > t.maxBytes {
		dropped := len(t.queue)
		t.queue = nil
		t.queueLen = 0
		t.logger.Warn().Int("dropped_packets", dropped).Msg("queue overflow, dropping entire queue")
	}
	t.cond.Signal()
	t.mu.Unlock()
}

func (t *tunnel) dequeue() *packet {
	t.mu.Lock()
	for len(t.queue) == 0 {
		t.cond.Wait()
	}
	p := t.queue[0]
	t.queue = t.queue[1:]
	t.queueLen -= len(p.data)
	t.mu.Unlock()
	return p
}

// receiverLoop reads packets from src and enqueues them.
func (t *tunnel) receiverLoop(src net.Conn) {
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			t.enqueue(&packet{data: cp})
		}
		if err != nil {
			return
		}
	}
}

// senderLoop drains the queue to dst, pacing to t.bps when set.
func (t *tunnel) senderLoop(dst net.Conn) {
	for {
		p := t.dequeue()
		start := time.Now()
		if _, err := dst.Write(p.data); err != nil {
			return
		}
		if t.bps > 0 {
			rateUs := int64(len(p.data)) * 1_000_000 / t.bps
			elapsed := time.Since(start).Microseconds()
			if wait := rateUs - elapsed; wait > 0 {
				time.Sleep(time.Duration(wait) * time.Microsecond)
			}
		}
	}
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ln, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		logger.Error().Err(err).Msg("listen")
		os.Exit(1)
	}
	defer ln.Close()

	logger.Info().Str("listen", opts.Listen).Str("upstream", opts.Upstream).Msg("bridge ready")

	for {
		src, err := ln.Accept()
		if err != nil {
			logger.Error().Err(err).Msg("accept")
			continue
		}
		go handleConn(src, opts, &logger)
	}
}

func handleConn(src net.Conn, opts options, logger *zerolog.Logger) {
	defer src.Close()

	dst, err := net.Dial("tcp", opts.Upstream)
	if err != nil {
		logger.Error().Err(err).Msg("dial upstream")
		return
	}
	defer dst.Close()

	inbound := newTunnel(logger, opts.MaxQueueBytes, opts.BandwidthBps)
	outbound := newTunnel(logger, opts.MaxQueueBytes, opts.BandwidthBps)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); inbound.receiverLoop(src) }()
	go func() { defer wg.Done(); inbound.senderLoop(dst) }()
	go func() { defer wg.Done(); outbound.receiverLoop(dst) }()
	go func() { defer wg.Done(); outbound.senderLoop(src) }()
	wg.Wait()
}
