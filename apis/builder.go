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

// Builder composes a Library from a Config.
// Implementations may carry factories over from a previous library (prev),
// or ignore it. Cached handlers are never migrated.
type Builder interface {
	// BuildLibrary constructs a Library for cfg.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildLibrary(cfg Config, prev Library, ext any) Library
}
