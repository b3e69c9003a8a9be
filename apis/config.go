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
	"dirpx.dev/typehandling/strategy"
)

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Strategy selects how concurrent misses for the same descriptor are
	// handled: Shared tolerates duplicate factory runs, SingleFlight
	// collapses them into one.
	Strategy strategy.Strategy `env:"TYPEHANDLING_STRATEGY"`

	// MaxDepth limits the nesting of recursive resolutions.
	// Acts as a safety guard against pathological type graphs.
	MaxDepth int `env:"TYPEHANDLING_MAX_DEPTH"`

	// LogMisses raises "no handler" outcomes from debug to warn level.
	LogMisses bool `env:"TYPEHANDLING_LOG_MISSES"`
}
