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

package wire

import (
	"encoding/binary"
	"math"
)

// Message ids understood by the bundled policy catalog. These mirror the
// well-known MAVLink common-dialect ids.
const (
	MsgHeartbeat   byte = 0
	MsgParamSet    byte = 23
	MsgCommandLong byte = 76
	MsgMemInfo     byte = 152
)

// MAVCmdDoFenceEnable is MAV_CMD_DO_FENCE_ENABLE.
const MAVCmdDoFenceEnable uint16 = 207

// CommandLong is the decoded view of a COMMAND_LONG payload the
// geofence policy needs: a command id and its first parameter.
type CommandLong struct {
	Command uint16
	Param1  float32
}

// EncodeCommandLong lays out a COMMAND_LONG payload: command (2 bytes LE),
// param1 (4 bytes LE IEEE754).
func EncodeCommandLong(c CommandLong) []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:2], c.Command)
	binary.LittleEndian.PutUint32(buf[2:6], float32bits(c.Param1))
	return buf
}

// DecodeCommandLong parses a COMMAND_LONG payload. Payloads shorter than
// the minimum layout decode as a zero value with ok=false.
func DecodeCommandLong(payload []byte) (CommandLong, bool) {
	if len(payload) < 6 {
		return CommandLong{}, false
	}
	return CommandLong{
		Command: binary.LittleEndian.Uint16(payload[0:2]),
		Param1:  float32frombits(binary.LittleEndian.Uint32(payload[2:6])),
	}, true
}

const paramIDLen = 16

// ParamSet is the decoded view of a PARAM_SET payload.
type ParamSet struct {
	ParamID string
	Value   float32
}

// EncodeParamSet lays out a PARAM_SET payload: a 16-byte null-padded
// parameter name followed by a 4-byte LE IEEE754 value.
func EncodeParamSet(p ParamSet) []byte {
	buf := make([]byte, paramIDLen+4)
	copy(buf[:paramIDLen], p.ParamID)
	binary.LittleEndian.PutUint32(buf[paramIDLen:], float32bits(p.Value))
	return buf
}

// DecodeParamSet parses a PARAM_SET payload.
func DecodeParamSet(payload []byte) (ParamSet, bool) {
	if len(payload) < paramIDLen+4 {
		return ParamSet{}, false
	}
	id := payload[:paramIDLen]
	end := 0
	for end < len(id) && id[end] != 0 {
		end++
	}
	return ParamSet{
		ParamID: string(id[:end]),
		Value:   float32frombits(binary.LittleEndian.Uint32(payload[paramIDLen:])),
	}, true
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}
