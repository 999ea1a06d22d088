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
	"sync/atomic"

	"github.com/rs/zerolog"

	"secgw/internal/gateway"
	"secgw/internal/wire"
)

// TCPAdapter backs one gateway source/sink pair on a single TCP
// connection, the same shared-socket shape hook_tcp used in the
// original: one accepted connection serves both directions. Accept runs
// on its own goroutine so HookTCP itself never blocks; HasMore reports
// false until a peer has connected.
type TCPAdapter struct {
	listenAddr string
	logger     *zerolog.Logger
	codec      *wire.Codec

	mu   sync.Mutex
	conn net.Conn
	ln   net.Listener

	worker    *ringWorker
	connected atomic.Bool
}

// HookTCP allocates a source and a sink sharing one accepted TCP
// connection, wires their operations, and starts a background acceptor.
func HookTCP(p *gateway.Pipeline, sourceID, sinkID int, listenAddr string, logger *zerolog.Logger) *gateway.Error {
	a := &TCPAdapter{listenAddr: listenAddr, logger: logger, codec: p.Codec}

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

func (a *TCPAdapter) init() error {
	ln, err := net.Listen("tcp", a.listenAddr)
	if err != nil {
		return err
	}
	a.ln = ln
	go a.acceptLoop()
	return nil
}

func (a *TCPAdapter) acceptLoop() {
	conn, err := a.ln.Accept()
	if err != nil {
		return
	}
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	w := newRingWorker(4096)
	w.start(func(scratch []byte) (int, error) { return conn.Read(scratch) })
	a.worker = w
	a.connected.Store(true)
}

func (a *TCPAdapter) hasMore() bool {
	if !a.connected.Load() {
		return false
	}
	return a.worker.hasMore()
}

func (a *TCPAdapter) readByte() byte {
	return a.worker.readByte()
}

func (a *TCPAdapter) route(msg *gateway.Message) *gateway.Error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		return gateway.New(gateway.IOFault, "tcp sink has no connected peer yet")
	}
	out, serr := a.codec.Serialize(&msg.Frame)
	if serr != nil {
		return gateway.Wrap(gateway.IOFault, serr, "tcp sink serialize")
	}
	if _, werr := conn.Write(out); werr != nil {
		return gateway.Wrap(gateway.IOFault, werr, "tcp sink write")
	}
	return nil
}

func (a *TCPAdapter) cleanup() {
	// Close the connection (and listener) first: the worker's goroutine
	// is blocked inside conn.Read with no deadline, so stop()'s
	// wg.Wait() can only return once that Read is interrupted by the
	// close.
	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
	}
	if a.ln != nil {
		a.ln.Close()
	}
	a.mu.Unlock()
	if a.worker != nil {
		a.worker.stop()
	}
}
