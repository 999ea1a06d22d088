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

// crcAccumulate folds one byte into a running CRC-16/MCRF4XX accumulator,
// the same X.25-style CRC MAVLink uses over its header+payload.
func crcAccumulate(b byte, crc uint16) uint16 {
	tmp := b ^ byte(crc&0xff)
	tmp ^= tmp << 4
	return (crc >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

func crcInit() uint16 {
	return 0xffff
}

// crcExtraTable supplies a per-message-id seed byte folded into the CRC
// after the payload, the same role MAVLink's CRC_EXTRA plays: it lets two
// messages with identical wire layout but different semantics fail CRC
// against each other. Unlisted message ids seed with 0.
var crcExtraTable = map[byte]byte{
	MsgHeartbeat:   50,
	MsgCommandLong: 152,
	MsgParamSet:    168,
	MsgMemInfo:     208,
}

// CRCExtraFor exposes the per-message-id CRC extra for the console printer
// and structural descriptor lookups required by the codec contract.
func CRCExtraFor(msgID byte) byte {
	return crcExtraTable[msgID]
}

func computeCRC(seq, msgID byte, payload []byte) uint16 {
	crc := crcInit()
	crc = crcAccumulate(byte(len(payload)), crc)
	crc = crcAccumulate(seq, crc)
	crc = crcAccumulate(msgID, crc)
	for _, b := range payload {
		crc = crcAccumulate(b, crc)
	}
	crc = crcAccumulate(crcExtraTable[msgID], crc)
	return crc
}
