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
	"secgw/internal/wire"
	"secgw/pkg/bitmap"
)

// Message is the in-flight container for one parsed frame plus the
// routing metadata push() accumulates on top of it. A source's Message is
// owned by that source's slot and reused in place across iterations;
// callers must not retain a *Message past the push() call that produced
// it.
type Message struct {
	Frame     wire.Frame
	Sinks     bitmap.Bitmap
	Source    int
	Attribute uint32
}

// reset loads the next frame and source id into the message and clears
// routing state left over from the previous traversal. Clearing
// Sinks/Attribute up front keeps the "attribute bits are monotonic during
// one traversal" invariant anchored to a clean start.
func (m *Message) reset(source int, frame wire.Frame) {
	m.Frame = frame
	m.Sinks.Clear()
	m.Source = source
	m.Attribute = 0
}
