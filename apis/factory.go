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

// Factory is a pluggable resolution step. A Library runs its factories in
// registration order and the first one that returns a handler wins.
//
// Create must not mutate shared state and must be safe to call concurrently.
// Factories that need handlers for nested types resolve them through ctx so
// visibility scopes and cycle tracking carry over.
type Factory interface {
	// Create returns (handler, true) when the factory understands d, or
	// (nil, false) to let the next factory try. Declining is not an error.
	Create(d typeinfo.Descriptor, ctx Context) (Handler, bool)
}

// Namer is implemented by factories that want a stable name in logs and
// traces. Factories without one are reported by their Go type.
type Namer interface {
	Name() string
}
