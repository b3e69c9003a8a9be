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

// Field is a single named member of a Definition.
type Field struct {
	// Name is the key the field is stored under.
	Name string
	// Type describes the field's value.
	Type Descriptor
}

// Definition describes a named composite type that a visibility scope makes
// loadable by name. Fields are kept in declaration order.
type Definition struct {
	// Type is the descriptor the definition is published under.
	Type Descriptor
	// Fields are the members of the type, in declaration order.
	Fields []Field
}

// Define builds a Definition for a non-generic identity.
func Define(raw string, fields ...Field) Definition {
	out := make([]Field, len(fields))
	copy(out, fields)
	return Definition{Type: Of(raw), Fields: out}
}

// Name returns the identity the definition is published under.
func (d Definition) Name() string { return d.Type.Raw() }
