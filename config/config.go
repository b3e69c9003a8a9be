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

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/strategy"
)

const (
	// DefaultStrategy represents the default for Strategy.
	// Shared tolerates duplicate work on racing misses.
	DefaultStrategy = strategy.Shared
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 should be sufficient for all practical type graphs.
	DefaultMaxDepth = 32
	// DefaultLogMisses represents the default for LogMisses.
	DefaultLogMisses = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth is valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// FromEnv starts from DefaultConfig, overlays TYPEHANDLING_* environment
// variables, and then applies opts.
func FromEnv(opts ...Option) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return apis.Config{}, fmt.Errorf("typehandling(config): parse env: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg, nil
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Strategy:  DefaultStrategy,
		MaxDepth:  DefaultMaxDepth,
		LogMisses: DefaultLogMisses,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithStrategy sets the Strategy option.
func WithStrategy(s strategy.Strategy) Option {
	return func(c *apis.Config) {
		c.Strategy = s
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithLogMisses sets the LogMisses option.
func WithLogMisses(log bool) Option {
	return func(c *apis.Config) {
		c.LogMisses = log
	}
}
