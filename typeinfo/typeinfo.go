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

// Package typeinfo provides the reified type descriptors used as dispatch and
// cache keys by the handler library.
//
// A Descriptor is a plain value: a raw type identity plus an ordered list of
// nested descriptors (its type arguments). Two descriptors are equal iff both
// parts are equal, recursively. Descriptors are never mutated after
// construction and are safe to share between goroutines.
package typeinfo

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Descriptor is an immutable description of a possibly generic type.
// The zero value is a valid descriptor with an empty identity; it never
// resolves to a handler.
type Descriptor struct {
	// raw is the stable type identity, e.g. "list" or "Vector2f".
	raw string
	// args are the type arguments, empty for non-generic types.
	args []Descriptor
	// key is the canonical injective encoding of raw and args.
	key string
}

// Of constructs a descriptor for raw with the given type arguments.
// The argument slice is copied.
func Of(raw string, args ...Descriptor) Descriptor {
	d := Descriptor{raw: raw}
	if len(args) > 0 {
		d.args = make([]Descriptor, len(args))
		copy(d.args, args)
	}
	d.key = d.buildKey()
	return d
}

// Raw returns the raw type identity.
func (d Descriptor) Raw() string { return d.raw }

// NumArgs returns the number of type arguments.
func (d Descriptor) NumArgs() int { return len(d.args) }

// IsGeneric reports whether d carries type arguments.
func (d Descriptor) IsGeneric() bool { return len(d.args) > 0 }

// Arg returns the i-th type argument. ok is false when i is out of range.
func (d Descriptor) Arg(i int) (arg Descriptor, ok bool) {
	if i < 0 || i >= len(d.args) {
		return Descriptor{}, false
	}
	return d.args[i], true
}

// Args returns a copy of the type arguments.
func (d Descriptor) Args() []Descriptor {
	if len(d.args) == 0 {
		return nil
	}
	out := make([]Descriptor, len(d.args))
	copy(out, d.args)
	return out
}

// Key returns the canonical key of d. Distinct descriptors always have
// distinct keys, whatever characters their identities contain.
func (d Descriptor) Key() string {
	if d.key == "" {
		// Zero value or a descriptor built without Of.
		return d.buildKey()
	}
	return d.key
}

// Equal reports structural equality.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Key() == o.Key()
}

// Hash returns a structural hash of d. Equal descriptors hash equal.
func (d Descriptor) Hash() uint64 {
	return xxhash.Sum64String(d.Key())
}

// String renders d as raw or raw<arg,...> for diagnostics.
func (d Descriptor) String() string {
	if len(d.args) == 0 {
		return d.raw
	}
	var b strings.Builder
	d.writeString(&b)
	return b.String()
}

func (d Descriptor) writeString(b *strings.Builder) {
	b.WriteString(d.raw)
	if len(d.args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, a := range d.args {
		if i > 0 {
			b.WriteByte(',')
		}
		a.writeString(b)
	}
	b.WriteByte('>')
}

// buildKey length-prefixes the identity so that no two descriptors collide:
// "4:list[3:int[]]".
func (d Descriptor) buildKey() string {
	var b strings.Builder
	d.writeKey(&b)
	return b.String()
}

func (d Descriptor) writeKey(b *strings.Builder) {
	b.WriteString(strconv.Itoa(len(d.raw)))
	b.WriteByte(':')
	b.WriteString(d.raw)
	b.WriteByte('[')
	for _, a := range d.args {
		a.writeKey(b)
	}
	b.WriteByte(']')
}
