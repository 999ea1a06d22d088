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

// Package wire is a reference implementation of the codec contract: a
// stateless-per-call parse_char(channel, byte) state machine, a
// serializer, and a finalizer that recomputes the CRC of a mutated frame.
// It is a self-contained, MAVLink-v1-shaped framing (sentinel, length,
// sequence, message id, payload, CRC16) rather than a vendored MAVLink
// codec, since the core treats the codec as a swappable external
// collaborator. Frames carry no signature; nothing here signs or verifies
// one.
package wire

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel marks the start of every frame.
const Sentinel byte = 0xfe

// MaxPayload bounds a single frame's payload.
const MaxPayload = 255

// ParseResult is the three-way outcome of feeding one byte to the codec.
type ParseResult int

const (
	// NeedMore means the frame is incomplete; keep feeding bytes.
	NeedMore ParseResult = 0
	// Complete means a full, CRC-valid frame is ready.
	Complete ParseResult = 1
	// ParseError means the byte broke framing; the codec has already
	// reset itself and will resynchronize at the next sentinel.
	ParseError ParseResult = -1
)

// Frame is one parsed (or to-be-serialized) protocol message.
type Frame struct {
	SeqNum  byte
	MsgID   byte
	Payload []byte
	CRC     uint16
}

type parseStage int

const (
	stageWaitSentinel parseStage = iota
	stageLen
	stageSeq
	stageMsgID
	stagePayload
	stageCRCLo
	stageCRCHi
)

type parserState struct {
	stage    parseStage
	length   byte
	seq      byte
	msgID    byte
	payload  []byte
	crcLo    byte
}

func (p *parserState) reset() {
	*p = parserState{}
}

// Codec holds one parser state per channel, where a channel is 1:1 with a
// source slot index.
type Codec struct {
	channels []parserState
}

// NewCodec allocates a Codec with room for the given number of channels.
func NewCodec(channels int) *Codec {
	return &Codec{channels: make([]parserState, channels)}
}

// ParseChar feeds one byte belonging to the given channel into that
// channel's parser. It never blocks and never panics on a bad channel
// index (out-of-range channels are treated as a parse error).
func (c *Codec) ParseChar(channel int, b byte) (ParseResult, *Frame, error) {
	if channel < 0 || channel >= len(c.channels) {
		return ParseError, nil, errors.Errorf("wire: channel %d out of range", channel)
	}
	st := &c.channels[channel]
	switch st.stage {
	case stageWaitSentinel:
		if b == Sentinel {
			st.stage = stageLen
		}
		return NeedMore, nil, nil
	case stageLen:
		st.length = b
		st.payload = make([]byte, 0, st.length)
		st.stage = stageSeq
		return NeedMore, nil, nil
	case stageSeq:
		st.seq = b
		st.stage = stageMsgID
		return NeedMore, nil, nil
	case stageMsgID:
		st.msgID = b
		if st.length == 0 {
			st.stage = stageCRCLo
		} else {
			st.stage = stagePayload
		}
		return NeedMore, nil, nil
	case stagePayload:
		st.payload = append(st.payload, b)
		if len(st.payload) >= int(st.length) {
			st.stage = stageCRCLo
		}
		return NeedMore, nil, nil
	case stageCRCLo:
		st.crcLo = b
		st.stage = stageCRCHi
		return NeedMore, nil, nil
	case stageCRCHi:
		crc := uint16(st.crcLo) | uint16(b)<<8
		want := computeCRC(st.seq, st.msgID, st.payload)
		frame := &Frame{SeqNum: st.seq, MsgID: st.msgID, Payload: st.payload, CRC: crc}
		st.reset()
		if crc != want {
			return ParseError, nil, errors.Errorf("wire: crc mismatch on channel %d: got %#x want %#x", channel, crc, want)
		}
		return Complete, frame, nil
	default:
		st.reset()
		return ParseError, nil, errors.New("wire: parser in unknown stage")
	}
}

// Finalize recomputes CRC after an in-place payload mutation (e.g. a
// transformer), so the frame is ready to serialize again.
func (c *Codec) Finalize(f *Frame) error {
	if len(f.Payload) > MaxPayload {
		return errors.Errorf("wire: payload length %d exceeds max %d", len(f.Payload), MaxPayload)
	}
	f.CRC = computeCRC(f.SeqNum, f.MsgID, f.Payload)
	return nil
}

// Serialize renders a frame to its wire bytes, assuming CRC is already
// current (call Finalize first if the payload was mutated).
func (c *Codec) Serialize(f *Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayload {
		return nil, errors.Errorf("wire: payload length %d exceeds max %d", len(f.Payload), MaxPayload)
	}
	out := make([]byte, 0, 6+len(f.Payload))
	out = append(out, Sentinel, byte(len(f.Payload)), f.SeqNum, f.MsgID)
	out = append(out, f.Payload...)
	out = append(out, byte(f.CRC&0xff), byte(f.CRC>>8))
	return out, nil
}

// String renders a frame for the console/perf printer.
func (f *Frame) String() string {
	return fmt.Sprintf("msgid=%d seq=%d len=%d", f.MsgID, f.SeqNum, len(f.Payload))
}
