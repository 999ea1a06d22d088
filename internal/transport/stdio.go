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
	"os"
	"sync"

	"secgw/internal/gateway"
	"secgw/internal/wire"
)

// StdioAdapter reads frames from process stdin and writes outgoing
// frames to stdout, for command-line piping and manual testing.
type StdioAdapter struct {
	codec  *wire.Codec
	worker *ringWorker
	mu     sync.Mutex
}

// HookStdio allocates a source reading stdin and a sink writing stdout.
func HookStdio(p *gateway.Pipeline, sourceID, sinkID int) *gateway.Error {
	a := &StdioAdapter{codec: p.Codec}

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

func (a *StdioAdapter) init() error {
	w := newRingWorker(4096)
	w.start(func(scratch []byte) (int, error) { return os.Stdin.Read(scratch) })
	a.worker = w
	return nil
}

func (a *StdioAdapter) hasMore() bool  { return a.worker != nil && a.worker.hasMore() }
func (a *StdioAdapter) readByte() byte { return a.worker.readByte() }

func (a *StdioAdapter) route(msg *gateway.Message) *gateway.Error {
	out, err := a.codec.Serialize(&msg.Frame)
	if err != nil {
		return gateway.Wrap(gateway.IOFault, err, "stdio sink serialize")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, werr := os.Stdout.Write(out); werr != nil {
		return gateway.Wrap(gateway.IOFault, werr, "stdio sink write")
	}
	return nil
}

func (a *StdioAdapter) cleanup() {
	// Close stdin before stopping the worker: the worker goroutine is
	// blocked inside os.Stdin.Read with no deadline, so it only
	// unblocks once the close breaks that read.
	os.Stdin.Close()
	if a.worker != nil {
		a.worker.stop()
	}
}
