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

import "secgw/pkg/bitmap"

// RouteTable is the compile-time-initialized, source-id-keyed map from a
// source to its initial destination sink set. It is a direct copy into
// the message on every push; there is no merging.
type RouteTable [MaxSources]bitmap.Bitmap

// DefaultRouteTable returns this deployment's default layout: NULL routes
// nowhere; VMC fans out to LEGACY and ENCLAVE; LEGACY and each ENCLAVE
// peer route back to VMC only.
func DefaultRouteTable() RouteTable {
	var t RouteTable
	t[SourceVMC] = bitmap.Of(SinkLegacy, SinkEnclave)
	t[SourceLegacy] = bitmap.Of(SinkVMC)
	for i := SourceEnclaveBase; i < MaxSources; i++ {
		t[i] = bitmap.Of(SinkVMC)
	}
	return t
}
