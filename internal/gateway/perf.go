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

package gateway

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FrameOverheadBytes is the protocol-defined header+trailer size added to
// payload length when counting bytes on the wire: 1 sentinel + 1 length +
// 1 sequence + 1 msgid + 2 CRC.
const FrameOverheadBytes = 6

// PortCounters are the per-(role, slot-id) counters §4.6 requires. Written
// from the dispatch thread only; read (via Query or Peek) from any
// thread, since the periodic Printer and the control surface's /perf
// handler run on their own goroutines.
type PortCounters struct {
	succCount atomic.Uint64
	succBytes atomic.Uint64
	dropCount atomic.Uint64
	prevSeq   atomic.Int32

	snapSucc  atomic.Uint64
	snapBytes atomic.Uint64
	snapDrop  atomic.Uint64
}

func newPortCounters() *PortCounters {
	pc := &PortCounters{}
	pc.prevSeq.Store(-1)
	return pc
}

// RecordSuccess accounts one successfully parsed (source) or routed
// (sink) frame of payloadLen bytes carrying sequence number seq. The drop
// count is derived from the gap in sequence numbers, wrapping mod 256.
func (p *PortCounters) RecordSuccess(payloadLen int, seq byte) {
	prev := p.prevSeq.Swap(int32(seq))
	if prev >= 0 {
		drop := (int(seq) - int(prev) - 1 + 256) % 256
		p.dropCount.Add(uint64(drop))
	}
	p.succCount.Add(1)
	p.succBytes.Add(uint64(payloadLen + FrameOverheadBytes))
}

// CounterSnapshot is the delta-since-last-query view §4.6 asks for.
type CounterSnapshot struct {
	SuccCount uint64
	SuccBytes uint64
	DropCount uint64
}

// Query returns the counts accumulated since the previous Query call and
// advances the snapshot, per the "subtract snapshot from live, update
// snapshot" contract. It has exactly one legitimate caller per
// PortCounters: a second, independent consumer calling Query on the same
// counters steals the first's delta. Use Peek for any additional,
// non-consuming observer.
func (p *PortCounters) Query() CounterSnapshot {
	succ := p.succCount.Load()
	bytes_ := p.succBytes.Load()
	drop := p.dropCount.Load()
	prevSucc := p.snapSucc.Swap(succ)
	prevBytes := p.snapBytes.Swap(bytes_)
	prevDrop := p.snapDrop.Swap(drop)
	return CounterSnapshot{
		SuccCount: succ - prevSucc,
		SuccBytes: bytes_ - prevBytes,
		DropCount: drop - prevDrop,
	}
}

// Peek returns the live, cumulative counts without disturbing the
// snapshot Query advances, so an on-demand observer (the control
// surface's /perf handler) doesn't steal the periodic printer's delta.
func (p *PortCounters) Peek() CounterSnapshot {
	return CounterSnapshot{
		SuccCount: p.succCount.Load(),
		SuccBytes: p.succBytes.Load(),
		DropCount: p.dropCount.Load(),
	}
}

// ExecCounters are the execution-unit counters: total pumps and
// microseconds of useful work, updated once per spin() return.
type ExecCounters struct {
	total  atomic.Uint64
	loadUs atomic.Uint64
}

// Record accounts one spin() pass that took elapsed and either did or
// didn't move a frame.
func (e *ExecCounters) Record(elapsed time.Duration, didWork bool) {
	e.total.Add(1)
	if didWork {
		e.loadUs.Add(uint64(elapsed.Microseconds()))
	}
}

// ExecSnapshot is the execution unit's point-in-time view.
type ExecSnapshot struct {
	Total  uint64
	LoadUs uint64
}

// Snapshot returns the live (non-delta) execution counters.
func (e *ExecCounters) Snapshot() ExecSnapshot {
	return ExecSnapshot{Total: e.total.Load(), LoadUs: e.loadUs.Load()}
}

// PerfState owns every port's counters plus the execution unit's.
type PerfState struct {
	Sources [MaxSources]*PortCounters
	Sinks   [MaxSinks]*PortCounters
	Exec    ExecCounters
}

// NewPerfState allocates a ready-to-use PerfState.
func NewPerfState() *PerfState {
	p := &PerfState{}
	for i := range p.Sources {
		p.Sources[i] = newPortCounters()
	}
	for i := range p.Sinks {
		p.Sinks[i] = newPortCounters()
	}
	return p
}

// Printer periodically samples a configured set of units and logs a
// one-line human summary, the same ticker+stopCh+WaitGroup shape the
// background commit/eviction loops use.
type Printer struct {
	perf     *PerfState
	interval time.Duration
	logger   *zerolog.Logger
	units    []int

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPrinter builds a printer sampling the given sink ids at interval,
// which is clamped up to a 2s minimum cadence. The set of sampled units
// is configuration, not behavior.
func NewPrinter(perf *PerfState, interval time.Duration, logger *zerolog.Logger, sinkUnits []int) *Printer {
	if interval < 2*time.Second {
		interval = 2 * time.Second
	}
	return &Printer{perf: perf, interval: interval, logger: logger, units: sinkUnits, stopCh: make(chan struct{})}
}

// Start launches the background printer goroutine.
func (p *Printer) Start() {
	p.wg.Add(1)
	go p.run()
}

func (p *Printer) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.sample()
		case <-p.stopCh:
			return
		}
	}
}

func (p *Printer) sample() {
	exec := p.perf.Exec.Snapshot()
	ev := p.logger.Info().Uint64("spin_total", exec.Total).Uint64("spin_load_us", exec.LoadUs)
	for _, sinkID := range p.units {
		if sinkID < 0 || sinkID >= MaxSinks {
			continue
		}
		snap := p.perf.Sinks[sinkID].Query()
		ev = ev.Uint64("sink_"+strconv.Itoa(sinkID)+"_succ", snap.SuccCount)
	}
	ev.Msg("perf sample")
}

// Stop halts the printer goroutine and waits for it to exit. Safe to call
// more than once.
func (p *Printer) Stop() {
	p.once.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}
