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
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/typeinfo"
)

// Handler encodes and decodes values of exactly one resolved type.
// Handlers are published into a shared cache, so implementations must be
// safe for concurrent use and must not change after construction.
type Handler interface {
	// Type returns the descriptor the handler was produced for.
	Type() typeinfo.Descriptor
	// Encode serializes v. A value that does not conform to Type yields an
	// error rather than corrupt output.
	Encode(v any) (data.Value, error)
	// Decode reconstructs a value from v. Malformed or incompatible input
	// yields a typed error and never a partially built value.
	Decode(v data.Value) (any, error)
}
