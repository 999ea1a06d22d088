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

// Source identifiers. ENCLAVE sources occupy the remaining slots above
// LEGACY; a deployment may register more than one enclave peer.
const (
	SourceNull = iota
	SourceVMC
	SourceLegacy
	SourceEnclaveBase
)

// MaxSources bounds the source registry. One NULL, one VMC, one LEGACY,
// and room for two enclave peers.
const MaxSources = SourceEnclaveBase + 2

// Sink identifiers. DISCARD is sink 0 and carries the short-circuit
// semantics described in the route table and push algorithm.
const (
	SinkDiscard = iota
	SinkVMC
	SinkEnclave
	SinkLegacy
	SinkMMC
	maxSinkID
)

// MaxSinks bounds the sink registry.
const MaxSinks = maxSinkID

// InvalidSinkID marks "no sink chosen yet" in contexts ported from the
// single-destination evaluation shape (kept for policy authors who only
// need to name one sink); the pipeline's own push algorithm works
// entirely in terms of bitmap.Bitmap and never needs this sentinel.
const InvalidSinkID = MaxSinks

// MaxPolicies bounds the policy chain.
const MaxPolicies = 16
