// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package value - the sum-of-string/bool/int/float/array value carried
// through the compile/match/reduce pipeline, plus its provenance tag.
package value

import "fmt"

// Kind - discriminant for a Value.
type Kind int

// Value kinds.
const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value - a string, bool, int, float64, or array-of-Value. Arrays may be
// heterogeneous. Values carry no position.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int
	f    float64
	arr  []Value
}

// String - builds a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool - builds a bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int - builds an int Value.
func Int(i int) Value { return Value{kind: KindInt, i: i} }

// Float - builds a float64 Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Array - builds an array Value from the given elements. A nil/empty slice
// is preserved as an empty (not nil-kind) array.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Kind - reports the discriminant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsString - true if the value is a string.
func (v Value) IsString() bool { return v.kind == KindString }

// IsBool - true if the value is a bool.
func (v Value) IsBool() bool { return v.kind == KindBool }

// IsInt - true if the value is an int.
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsFloat - true if the value is a float64.
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsArray - true if the value is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// StringVal - the string payload and whether the value was a string.
func (v Value) StringVal() (string, bool) { return v.str, v.kind == KindString }

// BoolVal - the bool payload and whether the value was a bool.
func (v Value) BoolVal() (bool, bool) { return v.b, v.kind == KindBool }

// IntVal - the int payload and whether the value was an int.
func (v Value) IntVal() (int, bool) { return v.i, v.kind == KindInt }

// FloatVal - the float64 payload and whether the value was a float.
func (v Value) FloatVal() (float64, bool) { return v.f, v.kind == KindFloat }

// ArrayVal - the array payload and whether the value was an array.
func (v Value) ArrayVal() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AllBool - true iff the value is a non-empty array and every element is a bool.
func (v Value) AllBool() bool {
	if v.kind != KindArray || len(v.arr) == 0 {
		return false
	}
	for _, e := range v.arr {
		if e.kind != KindBool {
			return false
		}
	}
	return true
}

// CountTrue - counts the true elements of a bool array. Only meaningful when AllBool is true.
func (v Value) CountTrue() int {
	n := 0
	for _, e := range v.arr {
		if e.b {
			n++
		}
	}
	return n
}

// AppendArray - returns a new array Value with other's elements appended.
// If either side isn't already an array it is treated as a single-element array.
func AppendArray(a, b Value) Value {
	var elems []Value
	if a.kind == KindArray {
		elems = append(elems, a.arr...)
	} else {
		elems = append(elems, a)
	}
	if b.kind == KindArray {
		elems = append(elems, b.arr...)
	} else {
		elems = append(elems, b)
	}
	return Array(elems...)
}

// Equal - structural equality, used by table tests and by go-cmp (which
// prefers an Equal method over reaching into unexported fields).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindArray:
		return fmt.Sprintf("%v", v.arr)
	default:
		return "<unknown value>"
	}
}

// Origin - provenance of a RichValue. Maximum origin wins when multiple
// sources provide a value for the same key.
type Origin int

// Origins, in ascending precedence.
const (
	Empty Origin = iota
	Default
	Environment
	Argv
)

func (o Origin) String() string {
	switch o {
	case Empty:
		return "empty"
	case Default:
		return "default"
	case Environment:
		return "environment"
	case Argv:
		return "argv"
	default:
		return "unknown"
	}
}

// RichValue - a Value annotated with its Origin.
type RichValue struct {
	Origin Origin
	Value  Value
}

// Equal - structural equality for table tests / go-cmp.
func (r RichValue) Equal(other RichValue) bool {
	return r.Origin == other.Origin && r.Value.Equal(other.Value)
}
