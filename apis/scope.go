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

package apis

import (
	"dirpx.dev/typehandling/typeinfo"
)

// Scope is a named visibility boundary: the set of type definitions a
// module makes loadable by name. Implementations must be immutable.
type Scope interface {
	// Name identifies the scope in diagnostics.
	Name() string
	// Lookup returns the definition published under id.
	Lookup(id string) (typeinfo.Definition, bool)
}
