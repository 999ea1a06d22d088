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

import "secgw/internal/wire"

// Transformer rewrites a message's payload in place. If it changes
// payload length it must re-finalize the frame itself (recompute CRC);
// callers that don't own a codec reference rely on NewXORTransformer's
// share of work below, which never changes length.
type Transformer func(msg *Message) error

// xorKey is the fixed XOR constant, 'X'.
const xorKey = byte('X')

// NewXORTransformer returns a transformer that XORs every payload byte
// with a fixed constant and re-finalizes the frame's CRC through codec.
// Decode and encode share this one implementation since XOR with a
// constant is its own inverse.
func NewXORTransformer(codec *wire.Codec) Transformer {
	return func(msg *Message) error {
		for i := range msg.Frame.Payload {
			msg.Frame.Payload[i] ^= xorKey
		}
		return codec.Finalize(&msg.Frame)
	}
}
