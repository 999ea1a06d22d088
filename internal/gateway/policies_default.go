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
	"strings"

	"secgw/internal/wire"
)

// Policy ids for the bundled deployment catalog. These are informational,
// never looked up by value.
const (
	PolicyAcceptVMC = iota
	PolicyRejectDisableGeofence
	PolicyRejectMemInfo
)

func matchVMC(msg *Message) bool {
	return msg.Source == SourceVMC
}

// matchMMC matches everything that isn't VMC: legacy peers and any
// enclave peer.
func matchMMC(msg *Message) bool {
	return msg.Source == SourceLegacy || msg.Source >= SourceEnclaveBase
}

func checkAccept(_ *Message, attribute uint32) (bool, uint32) {
	return true, attribute
}

func checkRejectMemInfo(msg *Message, attribute uint32) (bool, uint32) {
	if msg.Frame.MsgID == wire.MsgMemInfo {
		return false, attribute
	}
	return true, attribute
}

// checkRejectDisableGeofence rejects a COMMAND_LONG carrying
// DO_FENCE_ENABLE with param1 == 0, and a PARAM_SET whose parameter id
// begins with "FENCE_ENABLE" set to 0 (the prefix catches variants like
// "FENCE_ENABLE_ALT", not just the exact name). Both are ways a peer can
// turn the geofence off.
func checkRejectDisableGeofence(msg *Message, attribute uint32) (bool, uint32) {
	switch msg.Frame.MsgID {
	case wire.MsgCommandLong:
		cmd, ok := wire.DecodeCommandLong(msg.Frame.Payload)
		if ok && cmd.Command == wire.MAVCmdDoFenceEnable && cmd.Param1 == 0 {
			return false, attribute
		}
	case wire.MsgParamSet:
		p, ok := wire.DecodeParamSet(msg.Frame.Payload)
		if ok && strings.HasPrefix(p.ParamID, "FENCE_ENABLE") && p.Value == 0 {
			return false, attribute
		}
	}
	return true, attribute
}

// Policy names a deployment descriptor can use to select which
// compiled-in policies get registered. Order here is the catalog's
// fixed registration order; it never changes based on which names are
// selected.
const (
	PolicyNameAcceptVMC             = "accept_vmc"
	PolicyNameRejectDisableGeofence = "reject_disable_geofence"
	PolicyNameRejectMemInfo         = "reject_mem_info"
)

var defaultPolicyCatalog = []struct {
	name  string
	id    int
	match func(*Message) bool
	check func(*Message, uint32) (bool, uint32)
}{
	{PolicyNameAcceptVMC, PolicyAcceptVMC, matchVMC, checkAccept},
	{PolicyNameRejectDisableGeofence, PolicyRejectDisableGeofence, matchMMC, checkRejectDisableGeofence},
	{PolicyNameRejectMemInfo, PolicyRejectMemInfo, matchMMC, checkRejectMemInfo},
}

// RegisterDefaultPolicies wires the deployment's default catalog: accept
// VMC traffic outright, then the two MMC-side rejections. Waypoint
// rejection is deliberately not registered here.
//
// names selects which of the catalog's policies to register, by the
// PolicyName* constants above; an empty names registers the whole
// catalog. The catalog's fixed order is preserved regardless of the
// order names are listed in.
func RegisterDefaultPolicies(chain *PolicyChain, names ...string) *Error {
	selected := func(name string) bool {
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	for _, p := range defaultPolicyCatalog {
		if !selected(p.name) {
			continue
		}
		if err := chain.Register(Policy{ID: p.id, Match: p.match, Check: p.check}); err != nil {
			return err
		}
	}
	return nil
}
