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

// Package predicate compiles descriptor predicates for factory.When.
//
// Two engines are available, expr-lang and CEL. Both see the same variables:
//
//	raw    string    the raw type identity
//	name   string    the descriptor's String form
//	arity  int       the number of type arguments
//	args   []string  the String form of each type argument
//
// Programs are compiled once and evaluated per descriptor; compiled
// predicates are safe for concurrent use.
package predicate

import (
	"errors"

	"dirpx.dev/typehandling/typeinfo"
)

// ErrNotBool is returned when a predicate does not produce a boolean.
var ErrNotBool = errors.New("typehandling(predicate): expression does not yield a bool")

// ErrEmpty is returned for an empty expression.
var ErrEmpty = errors.New("typehandling(predicate): expression must not be empty")

func argNames(d typeinfo.Descriptor) []string {
	args := d.Args()
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.String()
	}
	return out
}
