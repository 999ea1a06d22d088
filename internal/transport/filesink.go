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
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"secgw/internal/gateway"
)

// auditRecord is one logged message: enough to reconstruct why a frame
// was discarded (or, for the audit-all variant, what passed through)
// without needing the original wire bytes. ID lets an operator correlate
// one audit line against other logs for the same traversal.
type auditRecord struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Source    int       `json:"source"`
	MsgID     byte      `json:"msg_id"`
	SeqNum    byte      `json:"seq_num"`
	Attribute uint32    `json:"attribute"`
	Discarded bool      `json:"discarded"`
}

// FileSink is a buffered, append-only JSONL sink, the discard/audit-log
// role a route table entry or the DISCARD sink can point at. It is safe
// for concurrent use, though the dispatch loop is its only caller.
type FileSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string

	lastFlush time.Time
}

// NewFileSink opens (or creates) path in append mode with a buffered
// writer. Call Close when done.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, w: bufio.NewWriterSize(f, 1<<20), path: path, lastFlush: time.Now()}, nil
}

// Route satisfies the gateway.Sink contract: append one JSON line per
// message, flushing the buffer when more than 100ms have passed since the
// last flush. There is no background flush; lines written by the last
// Route call stay buffered until a later Route, Flush or Close.
func (s *FileSink) Route(msg *gateway.Message) *gateway.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := auditRecord{
		ID:        uuid.NewString(),
		Time:      time.Now(),
		Source:    msg.Source,
		MsgID:     msg.Frame.MsgID,
		SeqNum:    msg.Frame.SeqNum,
		Attribute: msg.Attribute,
		Discarded: msg.Sinks.Test(gateway.SinkDiscard),
	}
	if err := json.NewEncoder(s.w).Encode(&rec); err != nil {
		return gateway.Wrap(gateway.IOFault, err, "file sink encode")
	}
	if time.Since(s.lastFlush) > 100*time.Millisecond {
		if err := s.w.Flush(); err != nil {
			return gateway.Wrap(gateway.IOFault, err, "file sink flush")
		}
		s.lastFlush = time.Now()
	}
	return nil
}

// Flush forces any buffered lines to disk.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes and closes the backing file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// HookFileSink registers a FileSink at the given sink id.
func HookFileSink(p *gateway.Pipeline, sinkID int, path string) (*FileSink, *gateway.Error) {
	fs, err := NewFileSink(path)
	if err != nil {
		return nil, gateway.Wrap(gateway.NoResource, err, "open audit log")
	}
	sink, aerr := p.Sinks.Allocate(sinkID)
	if aerr != nil {
		return nil, aerr
	}
	sink.Route = fs.Route
	return fs, nil
}
