package runtime

import (
	"errors"
	"testing"
)

func ints(vals ...int64) *SequenceValue {
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, IntegerValue{Val: v})
	}
	return NewSequence(out...)
}

func mustEqual(t *testing.T, left, right *SequenceValue) {
	t.Helper()
	eq, err := left.Equal(right)
	if err != nil {
		t.Fatalf("Equal returned error: %v", err)
	}
	if !eq {
		t.Fatalf("expected %v to equal %v", left.Elements(), right.Elements())
	}
}

func TestSequenceHeadRest(t *testing.T) {
	seq := ints(1, 2, 3)
	head, err := seq.Head()
	if err != nil {
		t.Fatalf("Head returned error: %v", err)
	}
	if iv, ok := head.(IntegerValue); !ok || iv.Val != 1 {
		t.Fatalf("unexpected head %#v", head)
	}
	rest, err := seq.Rest()
	if err != nil {
		t.Fatalf("Rest returned error: %v", err)
	}
	mustEqual(t, rest, ints(2, 3))
	mustEqual(t, seq, ints(1, 2, 3))

	last, err := ints(9).Rest()
	if err != nil {
		t.Fatalf("Rest of singleton returned error: %v", err)
	}
	if !last.IsEmpty() {
		t.Fatalf("expected empty rest, got %d elements", last.Len())
	}
}

func TestSequenceEmptyFailures(t *testing.T) {
	var emptyErr *EmptySequenceError
	if _, err := EmptySequence().Head(); !errors.As(err, &emptyErr) || emptyErr.Operation != "head" {
		t.Fatalf("expected head EmptySequenceError, got %v", err)
	}
	if _, err := NewSequence().Rest(); !errors.As(err, &emptyErr) || emptyErr.Operation != "rest" {
		t.Fatalf("expected rest EmptySequenceError, got %v", err)
	}
}

func TestSequenceConcatLeavesOperandsIntact(t *testing.T) {
	left := ints(1, 2)
	right := ints(3)
	joined := left.Concat(right)
	mustEqual(t, joined, ints(1, 2, 3))
	mustEqual(t, left, ints(1, 2))
	mustEqual(t, right, ints(3))

	// Appending to a shared prefix twice must not let the results see each other.
	a := left.Concat(ints(10))
	b := left.Concat(ints(20))
	mustEqual(t, a, ints(1, 2, 10))
	mustEqual(t, b, ints(1, 2, 20))
}

func TestSequenceConcatAssociativeWithIdentity(t *testing.T) {
	samples := []*SequenceValue{EmptySequence(), ints(1), ints(2, 3), ints(4, 5, 6)}
	for _, a := range samples {
		mustEqual(t, a.Concat(EmptySequence()), a)
		mustEqual(t, EmptySequence().Concat(a), a)
		for _, b := range samples {
			for _, c := range samples {
				mustEqual(t, a.Concat(b).Concat(c), a.Concat(b.Concat(c)))
			}
		}
	}
}

func TestSequenceStructuralEquality(t *testing.T) {
	nested := NewSequence(ints(1, 2), EmptySequence(), StringValue{Val: "x"})
	same := NewSequence(ints(1, 2), NewSequence(), StringValue{Val: "x"})
	mustEqual(t, nested, same)

	eq, err := ints(1, 2).Equal(ints(1, 2, 3))
	if err != nil || eq {
		t.Fatalf("sequences of different length should differ, got %v %v", eq, err)
	}

	_, err = NewSequence(IntegerValue{Val: 1}).Equal(NewSequence(BoolValue{Val: true}))
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError comparing integer to bool, got %v", err)
	}
}

func TestValuesEqualScalars(t *testing.T) {
	cases := []struct {
		left, right Value
		want        bool
	}{
		{IntegerValue{Val: 3}, IntegerValue{Val: 3}, true},
		{IntegerValue{Val: 3}, IntegerValue{Val: 4}, false},
		{BoolValue{Val: true}, BoolValue{Val: false}, false},
		{StringValue{Val: "a"}, StringValue{Val: "a"}, true},
		{NilValue{}, NilValue{}, true},
	}
	for _, tc := range cases {
		got, err := ValuesEqual(tc.left, tc.right)
		if err != nil {
			t.Fatalf("ValuesEqual(%#v, %#v) returned error: %v", tc.left, tc.right, err)
		}
		if got != tc.want {
			t.Fatalf("ValuesEqual(%#v, %#v) = %v, want %v", tc.left, tc.right, got, tc.want)
		}
	}
	if _, err := ValuesEqual(IntegerValue{Val: 1}, StringValue{Val: "1"}); err == nil {
		t.Fatalf("expected mismatch comparing integer and string")
	}
}
