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

import "sync/atomic"

// ControlFlags are the three runtime flags the console/control-HTTP
// thread writes and the dispatch loop reads on the hot path. atomic.Bool
// gives relaxed-ordering access; no other state is shared cross-thread
// from the console.
type ControlFlags struct {
	policyEnabled    atomic.Bool
	transformEnabled atomic.Bool
	terminated       atomic.Bool
}

func newControlFlags() *ControlFlags {
	f := &ControlFlags{}
	f.policyEnabled.Store(true)
	f.transformEnabled.Store(true)
	f.terminated.Store(false)
	return f
}

// PolicyEnabled reports whether the policy chain is active.
func (f *ControlFlags) PolicyEnabled() bool { return f.policyEnabled.Load() }

// EnablePolicy turns the policy chain on.
func (f *ControlFlags) EnablePolicy() { f.policyEnabled.Store(true) }

// DisablePolicy turns the policy chain off; push() then only applies
// routing.
func (f *ControlFlags) DisablePolicy() { f.policyEnabled.Store(false) }

// TransformEnabled reports whether source/sink transformers run.
func (f *ControlFlags) TransformEnabled() bool { return f.transformEnabled.Load() }

// EnableTransform turns transformers on.
func (f *ControlFlags) EnableTransform() { f.transformEnabled.Store(true) }

// DisableTransform turns transformers off.
func (f *ControlFlags) DisableTransform() { f.transformEnabled.Store(false) }

// Terminated reports whether the dispatch loop has been asked to stop.
func (f *ControlFlags) Terminated() bool { return f.terminated.Load() }

// Terminate requests the dispatch loop stop at the top of its next
// iteration. Observed by the embedding driver, not by spin() itself.
func (f *ControlFlags) Terminate() { f.terminated.Store(true) }
