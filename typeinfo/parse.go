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

package typeinfo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned by Parse for malformed descriptor strings.
var ErrSyntax = errors.New("typehandling(typeinfo): invalid descriptor syntax")

// Parse reads the String form of a descriptor, e.g. "map<list<int>>".
// Whitespace around identities is ignored. Identities must be non-empty and
// must not contain '<', '>', or ','.
func Parse(s string) (Descriptor, error) {
	p := parser{src: s}
	d, err := p.descriptor()
	if err != nil {
		return Descriptor{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Descriptor{}, fmt.Errorf("%w: trailing input at %d in %q", ErrSyntax, p.pos, s)
	}
	return d, nil
}

// MustParse is like Parse but panics on malformed input.
// It is meant for literals in code and tests.
func MustParse(s string) Descriptor {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) descriptor() (Descriptor, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>, \t", rune(p.src[p.pos])) {
		p.pos++
	}
	raw := p.src[start:p.pos]
	if raw == "" {
		return Descriptor{}, fmt.Errorf("%w: missing identity at %d in %q", ErrSyntax, start, p.src)
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return Of(raw), nil
	}
	p.pos++ // '<'

	var args []Descriptor
	for {
		arg, err := p.descriptor()
		if err != nil {
			return Descriptor{}, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return Descriptor{}, fmt.Errorf("%w: unterminated argument list in %q", ErrSyntax, p.src)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return Of(raw, args...), nil
		default:
			return Descriptor{}, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, p.src[p.pos], p.pos, p.src)
		}
	}
}
