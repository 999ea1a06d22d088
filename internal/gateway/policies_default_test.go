package gateway

import (
	"testing"

	"secgw/internal/wire"
)

func TestMatchVMCAndMMC(t *testing.T) {
	vmc := &Message{Source: SourceVMC}
	legacy := &Message{Source: SourceLegacy}
	enclave := &Message{Source: SourceEnclaveBase}

	if !matchVMC(vmc) || matchVMC(legacy) {
		t.Fatalf("matchVMC must match only SourceVMC")
	}
	if matchMMC(vmc) || !matchMMC(legacy) || !matchMMC(enclave) {
		t.Fatalf("matchMMC must match legacy and enclave, not VMC")
	}
}

func TestRejectMemInfo(t *testing.T) {
	msg := &Message{Frame: wire.Frame{MsgID: wire.MsgMemInfo}}
	accept, _ := checkRejectMemInfo(msg, 0)
	if accept {
		t.Fatalf("MEMINFO must be rejected")
	}

	msg2 := &Message{Frame: wire.Frame{MsgID: wire.MsgHeartbeat}}
	accept2, _ := checkRejectMemInfo(msg2, 0)
	if !accept2 {
		t.Fatalf("non-MEMINFO must be accepted by this policy")
	}
}

func TestRejectDisableGeofenceCommandLong(t *testing.T) {
	payload := wire.EncodeCommandLong(wire.CommandLong{Command: wire.MAVCmdDoFenceEnable, Param1: 0})
	msg := &Message{Frame: wire.Frame{MsgID: wire.MsgCommandLong, Payload: payload}}
	accept, _ := checkRejectDisableGeofence(msg, 0)
	if accept {
		t.Fatalf("DO_FENCE_ENABLE with param1=0 must be rejected")
	}

	enable := wire.EncodeCommandLong(wire.CommandLong{Command: wire.MAVCmdDoFenceEnable, Param1: 1})
	msg2 := &Message{Frame: wire.Frame{MsgID: wire.MsgCommandLong, Payload: enable}}
	accept2, _ := checkRejectDisableGeofence(msg2, 0)
	if !accept2 {
		t.Fatalf("DO_FENCE_ENABLE with param1=1 (enabling) must be accepted")
	}
}

func TestRejectDisableGeofenceParamSet(t *testing.T) {
	payload := wire.EncodeParamSet(wire.ParamSet{ParamID: "FENCE_ENABLE", Value: 0})
	msg := &Message{Frame: wire.Frame{MsgID: wire.MsgParamSet, Payload: payload}}
	accept, _ := checkRejectDisableGeofence(msg, 0)
	if accept {
		t.Fatalf("PARAM_SET FENCE_ENABLE=0 must be rejected")
	}

	other := wire.EncodeParamSet(wire.ParamSet{ParamID: "OTHER_PARAM", Value: 0})
	msg2 := &Message{Frame: wire.Frame{MsgID: wire.MsgParamSet, Payload: other}}
	accept2, _ := checkRejectDisableGeofence(msg2, 0)
	if !accept2 {
		t.Fatalf("unrelated PARAM_SET must not be rejected by the geofence policy")
	}

	prefixed := wire.EncodeParamSet(wire.ParamSet{ParamID: "FENCE_ENABLE_ALT", Value: 0})
	msg3 := &Message{Frame: wire.Frame{MsgID: wire.MsgParamSet, Payload: prefixed}}
	accept3, _ := checkRejectDisableGeofence(msg3, 0)
	if accept3 {
		t.Fatalf("PARAM_SET whose id begins with FENCE_ENABLE must be rejected")
	}
}

func TestRegisterDefaultPoliciesOrder(t *testing.T) {
	var chain PolicyChain
	if err := RegisterDefaultPolicies(&chain); err != nil {
		t.Fatalf("register: %v", err)
	}
	if chain.Len() != 3 {
		t.Fatalf("expected 3 default policies, got %d", chain.Len())
	}
	if chain.policies[0].ID != PolicyAcceptVMC {
		t.Fatalf("AcceptVMC must be registered first")
	}
}

func TestRegisterDefaultPoliciesFiltersByName(t *testing.T) {
	var chain PolicyChain
	// Deliberately out of catalog order: registration order must still
	// follow the fixed catalog, not the names argument's order.
	if err := RegisterDefaultPolicies(&chain, PolicyNameRejectMemInfo, PolicyNameAcceptVMC); err != nil {
		t.Fatalf("register: %v", err)
	}
	if chain.Len() != 2 {
		t.Fatalf("expected 2 selected policies, got %d", chain.Len())
	}
	if chain.policies[0].ID != PolicyAcceptVMC || chain.policies[1].ID != PolicyRejectMemInfo {
		t.Fatalf("got ids %d,%d want AcceptVMC,RejectMemInfo in catalog order",
			chain.policies[0].ID, chain.policies[1].ID)
	}
}

func TestRegisterDefaultPoliciesEmptyNamesRegistersAll(t *testing.T) {
	var chain PolicyChain
	if err := RegisterDefaultPolicies(&chain); err != nil {
		t.Fatalf("register: %v", err)
	}
	if chain.Len() != len(defaultPolicyCatalog) {
		t.Fatalf("empty names must register the whole catalog, got %d want %d", chain.Len(), len(defaultPolicyCatalog))
	}
}
