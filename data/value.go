/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package data defines the abstract serialized-value tree that every handler
// encodes to and decodes from.
//
// A Value is one of null, a scalar (bool, int, float, string), an ordered
// sequence of values, or a string-keyed mapping of values. Values are
// immutable: constructors copy their inputs and accessors return copies, so a
// Value may be shared freely between goroutines. No wire format is defined
// here; encoders for JSON, binary or anything else live with the consumers.
package data

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	// KindNull is the absent value. It is the zero Kind.
	KindNull Kind = iota
	// KindBool is a boolean scalar.
	KindBool
	// KindInt is a signed 64-bit integer scalar.
	KindInt
	// KindFloat is a 64-bit floating point scalar.
	KindFloat
	// KindString is a string scalar.
	KindString
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is a string-keyed set of values.
	KindMapping
)

// String returns a short name for k.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// IsScalar reports whether k is one of the scalar kinds.
func (k Kind) IsScalar() bool {
	return k == KindBool || k == KindInt || k == KindFloat || k == KindString
}

// Value is a node of the serialized-value tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer scalar.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point scalar.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns an ordered sequence holding a copy of items.
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)
	return Value{kind: KindSequence, seq: seq}
}

// Mapping returns a mapping holding a copy of entries.
func Mapping(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMapping, m: m}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the number held by v. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Len returns the number of items of a sequence or entries of a mapping,
// and 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Value{}, false
	}
	return v.seq[i], true
}

// Items returns a copy of the items of a sequence, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	out := make([]Value, len(v.seq))
	copy(out, v.seq)
	return out
}

// Get returns the entry stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	e, ok := v.m[key]
	return e, ok
}

// Keys returns the keys of a mapping in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep structural equality. Int and Float are distinct kinds;
// NaN floats compare equal to each other so that round trips can be checked.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := o.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders v in a compact, JSON-like form for diagnostics.
// It is not an encoding and is not meant to be parsed.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindSequence:
		b.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				b.WriteByte(',')
			}
			e.write(b)
		}
		b.WriteByte(']')
	case KindMapping:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			v.m[k].write(b)
		}
		b.WriteByte('}')
	}
}
