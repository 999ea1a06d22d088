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
	"net"
	"sync"

	"github.com/rs/zerolog"

	"secgw/internal/gateway"
	"secgw/internal/wire"
)

// UDPAdapter backs one gateway source/sink pair on a single UDP socket.
// Unlike TCP there is no persistent peer at connect time; the sink
// targets whichever address last sent a datagram, mirroring a
// store-and-reply telemetry link.
type UDPAdapter struct {
	listenAddr string
	logger     *zerolog.Logger
	codec      *wire.Codec

	conn net.PacketConn
	mu   sync.Mutex
	peer net.Addr

	worker *ringWorker
}

// HookUDP allocates a source and sink sharing one UDP socket.
func HookUDP(p *gateway.Pipeline, sourceID, sinkID int, listenAddr string, logger *zerolog.Logger) *gateway.Error {
	a := &UDPAdapter{listenAddr: listenAddr, logger: logger, codec: p.Codec}

	src, err := p.Sources.Allocate(sourceID)
	if err != nil {
		return err
	}
	sink, err := p.Sinks.Allocate(sinkID)
	if err != nil {
		return err
	}

	src.Init = a.init
	src.Cleanup = a.cleanup
	src.HasMore = a.hasMore
	src.ReadByte = a.readByte
	sink.Route = a.route
	return nil
}

func (a *UDPAdapter) init() error {
	conn, err := net.ListenPacket("udp", a.listenAddr)
	if err != nil {
		return err
	}
	a.conn = conn

	w := newRingWorker(4096)
	w.start(func(scratch []byte) (int, error) {
		n, addr, rerr := conn.ReadFrom(scratch)
		if rerr == nil {
			a.mu.Lock()
			a.peer = addr
			a.mu.Unlock()
		}
		return n, rerr
	})
	a.worker = w
	return nil
}

func (a *UDPAdapter) hasMore() bool { return a.worker != nil && a.worker.hasMore() }
func (a *UDPAdapter) readByte() byte { return a.worker.readByte() }

func (a *UDPAdapter) route(msg *gateway.Message) *gateway.Error {
	a.mu.Lock()
	peer := a.peer
	a.mu.Unlock()
	if peer == nil {
		return gateway.New(gateway.IOFault, "udp sink has no known peer address yet")
	}
	out, serr := a.codec.Serialize(&msg.Frame)
	if serr != nil {
		return gateway.Wrap(gateway.IOFault, serr, "udp sink serialize")
	}
	if _, werr := a.conn.WriteTo(out, peer); werr != nil {
		return gateway.Wrap(gateway.IOFault, werr, "udp sink write")
	}
	return nil
}

func (a *UDPAdapter) cleanup() {
	// Close the socket before stopping the worker: the worker goroutine
	// is blocked inside ReadFrom with no deadline, so it only unblocks
	// once the close breaks that read.
	if a.conn != nil {
		a.conn.Close()
	}
	if a.worker != nil {
		a.worker.stop()
	}
}
