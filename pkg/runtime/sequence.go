package runtime

import (
	"github.com/benbjohnson/immutable"
)

// SequenceValue is an immutable ordered list. Operations that look like
// updates (Rest, Concat) return new sequences that share structure with
// their operands through the persistent list underneath.
type SequenceValue struct {
	elems *immutable.List[Value]
}

var emptySequence = &SequenceValue{elems: immutable.NewList[Value]()}

// EmptySequence returns the distinguished empty sequence.
func EmptySequence() *SequenceValue {
	return emptySequence
}

// NewSequence builds a sequence holding values in order.
func NewSequence(values ...Value) *SequenceValue {
	if len(values) == 0 {
		return emptySequence
	}
	return &SequenceValue{elems: immutable.NewList(values...)}
}

func (s *SequenceValue) Kind() Kind { return KindSequence }

func (s *SequenceValue) Len() int {
	if s == nil || s.elems == nil {
		return 0
	}
	return s.elems.Len()
}

func (s *SequenceValue) IsEmpty() bool {
	return s.Len() == 0
}

// At returns the element at index i; ok is false when i is out of range.
func (s *SequenceValue) At(i int) (Value, bool) {
	if i < 0 || i >= s.Len() {
		return nil, false
	}
	return s.elems.Get(i), true
}

// Head returns the first element.
func (s *SequenceValue) Head() (Value, error) {
	if s.IsEmpty() {
		return nil, &EmptySequenceError{Operation: "head"}
	}
	return s.elems.Get(0), nil
}

// Rest returns every element but the first.
func (s *SequenceValue) Rest() (*SequenceValue, error) {
	if s.IsEmpty() {
		return nil, &EmptySequenceError{Operation: "rest"}
	}
	if s.Len() == 1 {
		return emptySequence, nil
	}
	return &SequenceValue{elems: s.elems.Slice(1, s.Len())}, nil
}

// Concat returns the elements of s followed by the elements of other.
func (s *SequenceValue) Concat(other *SequenceValue) *SequenceValue {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	out := s.elems
	itr := other.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = out.Append(v)
	}
	return &SequenceValue{elems: out}
}

// Elements copies the sequence into a fresh slice.
func (s *SequenceValue) Elements() []Value {
	out := make([]Value, 0, s.Len())
	if s.IsEmpty() {
		return out
	}
	itr := s.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}

// Equal compares two sequences element-wise. Elements of incomparable kinds
// at the same position are a type mismatch, not inequality.
func (s *SequenceValue) Equal(other *SequenceValue) (bool, error) {
	if s.Len() != other.Len() {
		return false, nil
	}
	for i := 0; i < s.Len(); i++ {
		eq, err := ValuesEqual(s.elems.Get(i), other.elems.Get(i))
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}
