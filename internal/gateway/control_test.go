package gateway

import "testing"

func TestControlFlagsDefaults(t *testing.T) {
	f := newControlFlags()
	if !f.PolicyEnabled() || !f.TransformEnabled() || f.Terminated() {
		t.Fatalf("defaults must be policy_enabled=true, transform_enabled=true, terminated=false")
	}
}

func TestControlFlagsToggle(t *testing.T) {
	f := newControlFlags()
	f.DisablePolicy()
	if f.PolicyEnabled() {
		t.Fatalf("DisablePolicy must clear PolicyEnabled")
	}
	f.EnablePolicy()
	if !f.PolicyEnabled() {
		t.Fatalf("EnablePolicy must set PolicyEnabled")
	}
	f.DisableTransform()
	if f.TransformEnabled() {
		t.Fatalf("DisableTransform must clear TransformEnabled")
	}
	f.Terminate()
	if !f.Terminated() {
		t.Fatalf("Terminate must set Terminated")
	}
}
