package runtime

import (
	"errors"
	"testing"
)

func TestEnvironmentBindShadowsWithoutMutation(t *testing.T) {
	global := NewEnvironment(nil)
	if err := global.Define("x", IntegerValue{Val: 5}); err != nil {
		t.Fatalf("Define returned error: %v", err)
	}
	global.Seal()

	inner := global.Bind("x", IntegerValue{Val: 10})
	got, err := inner.Get("x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if iv := got.(IntegerValue); iv.Val != 10 {
		t.Fatalf("expected shadowed value 10, got %d", iv.Val)
	}
	outer, err := global.Get("x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if iv := outer.(IntegerValue); iv.Val != 5 {
		t.Fatalf("outer binding changed to %d", iv.Val)
	}
	if !global.Bind("y", NilValue{}).Sealed() {
		t.Fatalf("Bind should produce a sealed frame")
	}
}

func TestEnvironmentSealedRejectsDefine(t *testing.T) {
	env := NewEnvironment(nil).Seal()
	if err := env.Define("y", NilValue{}); err == nil {
		t.Fatalf("expected Define on sealed frame to fail")
	}
	open := NewEnvironment(nil)
	if err := open.Define("a", NilValue{}); err != nil {
		t.Fatalf("Define returned error: %v", err)
	}
	if err := open.Define("a", NilValue{}); err == nil {
		t.Fatalf("expected duplicate Define to fail")
	}
}

func TestEnvironmentExtend(t *testing.T) {
	base := NewEnvironment(nil).Seal()
	frame, err := base.Extend([]string{"a", "b"}, []Value{IntegerValue{Val: 1}, IntegerValue{Val: 2}})
	if err != nil {
		t.Fatalf("Extend returned error: %v", err)
	}
	if !frame.Sealed() {
		t.Fatalf("parameter frame should be sealed")
	}
	for name, want := range map[string]int64{"a": 1, "b": 2} {
		got, err := frame.Get(name)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", name, err)
		}
		if iv := got.(IntegerValue); iv.Val != want {
			t.Fatalf("Get(%q) = %d, want %d", name, iv.Val, want)
		}
	}
	if _, err := base.Extend([]string{"a"}, nil); err == nil {
		t.Fatalf("expected count mismatch to fail")
	}
	if _, err := base.Extend([]string{"a", "a"}, []Value{NilValue{}, NilValue{}}); err == nil {
		t.Fatalf("expected duplicate parameter to fail")
	}
}

func TestEnvironmentUnboundName(t *testing.T) {
	env := NewEnvironment(nil).Seal().Bind("present", BoolValue{Val: true})
	_, err := env.Get("missing")
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) || unbound.Name != "missing" {
		t.Fatalf("expected UnboundNameError for missing, got %v", err)
	}
	if _, err := env.Get("present"); err != nil {
		t.Fatalf("Get(present) returned error: %v", err)
	}
}
