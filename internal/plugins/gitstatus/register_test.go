package gitstatus

import "testing"

func TestRegister_LatestIntentWins(t *testing.T) {
	var r register[int]
	r.Set(1)
	r.Set(2)

	v, ok := r.Take()
	if !ok || v != 2 {
		t.Fatalf("Take() = %d, %v; want 2, true", v, ok)
	}
	if _, ok := r.Take(); ok {
		t.Error("second Take() should find the register empty")
	}
}

func TestRegister_HoldsWhileInFlight(t *testing.T) {
	var r register[string]
	r.Set("a")
	if _, ok := r.Take(); !ok {
		t.Fatal("Take() on a full register failed")
	}
	if !r.Busy() {
		t.Error("register should be busy after Take()")
	}

	r.Set("b")
	if _, ok := r.Take(); ok {
		t.Error("Take() must not run a second operation while one is in flight")
	}
	if !r.Pending() {
		t.Error("intent written during flight should stay pending")
	}

	r.Done()
	v, ok := r.Take()
	if !ok || v != "b" {
		t.Errorf("Take() after Done() = %q, %v; want b, true", v, ok)
	}
}

func TestRegister_EmptyTake(t *testing.T) {
	var r register[fileIntent]
	if _, ok := r.Take(); ok {
		t.Error("Take() on an empty register should fail")
	}
	if r.Busy() || r.Pending() {
		t.Error("empty register reports activity")
	}
}
