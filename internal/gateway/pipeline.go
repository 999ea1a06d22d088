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

// Package gateway is the pipeline engine: source and sink registries,
// per-message parsing state, the routing table, the policy chain,
// transformer slots, the discard path, and the single-threaded dispatch
// loop that ties them together.
package gateway

import (
	"time"

	"github.com/rs/zerolog"

	"secgw/internal/wire"
)

// Pipeline owns every registry, the route table, the policy chain,
// performance state, and the control flags. Exactly one live instance per
// process is expected; nothing here prevents constructing more, but only
// one should be driven at a time.
type Pipeline struct {
	Sources SourceRegistry
	Sinks   SinkRegistry
	Routes  RouteTable
	Policies PolicyChain
	Flags   *ControlFlags
	Perf    *PerfState
	Codec   *wire.Codec

	logger *zerolog.Logger
}

// NewPipeline constructs an unconnected, uninitialized Pipeline. Call
// Init before registering adapters.
func NewPipeline(logger *zerolog.Logger) *Pipeline {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Pipeline{
		Codec:  wire.NewCodec(MaxSources),
		logger: logger,
	}
}

// Init zeroes the source and sink arrays, resets the policy chain, copies
// the default route table, registers the default policy catalog,
// allocates performance state, and resets control flags to
// policy_enabled=true, transform_enabled=true, terminated=false.
//
// policyNames selects which compiled-in policies to register (see
// RegisterDefaultPolicies); omit it to register the whole catalog.
func (p *Pipeline) Init(policyNames ...string) *Error {
	p.Sources = SourceRegistry{}
	p.Sinks = SinkRegistry{}
	p.Policies = PolicyChain{}
	p.Routes = DefaultRouteTable()
	p.Perf = NewPerfState()
	p.Flags = newControlFlags()
	return RegisterDefaultPolicies(&p.Policies, policyNames...)
}

// Connect invokes Init on every connected source, then every connected
// sink, for which an Init hook was supplied. An adapter whose Init fails
// is marked disconnected; the pipeline continues with the rest.
func (p *Pipeline) Connect() {
	for i := range p.Sources {
		src := &p.Sources[i]
		if !src.Connected || src.Init == nil {
			continue
		}
		if err := src.Init(); err != nil {
			p.logger.Warn().Err(err).Int("source", i).Msg("source init failed, disconnecting")
			src.Connected = false
		}
	}
	for i := range p.Sinks {
		sink := &p.Sinks[i]
		if !sink.Connected || sink.Init == nil {
			continue
		}
		if err := sink.Init(); err != nil {
			p.logger.Warn().Err(err).Int("sink", i).Msg("sink init failed, disconnecting")
			sink.Connected = false
		}
	}
}

// Disconnect mirrors Connect, invoking Cleanup on each adapter in reverse
// role order (sinks, then sources).
func (p *Pipeline) Disconnect() {
	for i := range p.Sinks {
		sink := &p.Sinks[i]
		if sink.Connected && sink.Cleanup != nil {
			sink.Cleanup()
		}
	}
	for i := range p.Sources {
		src := &p.Sources[i]
		if src.Connected && src.Cleanup != nil {
			src.Cleanup()
		}
	}
}

// Spin performs one non-blocking pass over all connected sources,
// draining every byte each reports available, parsing frames, and
// pushing completed ones through the pipeline.
func (p *Pipeline) Spin() *Error {
	start := time.Now()
	didWork := false
	for i := range p.Sources {
		src := &p.Sources[i]
		if !src.Connected || src.HasMore == nil || src.ReadByte == nil {
			continue
		}
		for src.HasMore() {
			b := src.ReadByte()
			status, frame, err := p.Codec.ParseChar(i, b)
			if err != nil {
				p.logger.Warn().Err(err).Int("source", i).Msg("parse error, codec resyncing")
				continue
			}
			if status != wire.Complete {
				continue
			}
			src.slot.reset(i, *frame)
			msg := &src.slot
			p.Perf.Sources[i].RecordSuccess(len(msg.Frame.Payload), msg.Frame.SeqNum)
			if p.Flags.TransformEnabled() && src.Transform != nil {
				if terr := src.Transform(msg); terr != nil {
					p.logger.Warn().Err(terr).Int("source", i).Msg("source transform failed")
				}
			}
			didWork = true
			if perr := p.Push(msg); perr != nil {
				p.Perf.Exec.Record(time.Since(start), didWork)
				return perr
			}
		}
	}
	p.Perf.Exec.Record(time.Since(start), didWork)
	return nil
}

// Push is the dispatch kernel: seed the destination set from the route
// table, run the policy chain, honor DISCARD, then fan out to every
// remaining destination in ascending sink-id order. It is callable
// directly for test injection.
func (p *Pipeline) Push(msg *Message) *Error {
	msg.Sinks = p.Routes[msg.Source]

	if p.Flags.PolicyEnabled() {
		for _, policy := range p.Policies.policies {
			if !policy.Match(msg) {
				continue
			}
			accept, bits := policy.Check(msg, msg.Attribute)
			msg.Attribute |= bits
			if !accept {
				p.logger.Warn().Int("policy", policy.ID).Int("source", msg.Source).Msg("policy rejected message")
				msg.Sinks.Clear()
				msg.Sinks.Set(SinkDiscard)
				break
			}
		}
	}

	if msg.Sinks.Test(SinkDiscard) {
		p.routeTo(SinkDiscard, msg)
		return nil
	}

	msg.Sinks.Each(func(i int) bool {
		p.routeTo(i, msg)
		return true
	})
	return nil
}

func (p *Pipeline) routeTo(sinkID int, msg *Message) {
	sink := &p.Sinks[sinkID]
	if !sink.Connected || sink.Route == nil {
		return
	}
	if p.Flags.TransformEnabled() && sink.Transform != nil {
		if err := sink.Transform(msg); err != nil {
			p.logger.Warn().Err(err).Int("sink", sinkID).Msg("sink transform failed")
		}
	}
	if err := sink.Route(msg); err != nil {
		p.logger.Warn().Err(err).Int("sink", sinkID).Msg("sink route failed")
		return
	}
	if sinkID != SinkDiscard {
		p.Perf.Sinks[sinkID].RecordSuccess(len(msg.Frame.Payload), msg.Frame.SeqNum)
	}
}
