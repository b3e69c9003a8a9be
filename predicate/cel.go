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

package predicate

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"

	"dirpx.dev/typehandling/typeinfo"
)

// CELPredicate is a descriptor predicate backed by github.com/google/cel-go.
type CELPredicate struct {
	src     string
	program celgo.Program
}

// CEL compiles src, e.g. `raw.startsWith("combat:") && size(args) == 0`.
// The expression must type-check to bool.
func CEL(src string) (*CELPredicate, error) {
	if src == "" {
		return nil, ErrEmpty
	}
	env, err := celgo.NewEnv(
		celgo.Variable("raw", celgo.StringType),
		celgo.Variable("name", celgo.StringType),
		celgo.Variable("arity", celgo.IntType),
		celgo.Variable("args", celgo.ListType(celgo.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("typehandling(predicate): cel env: %w", err)
	}
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("typehandling(predicate): cel %q: %w", src, issues.Err())
	}
	if !ast.OutputType().IsExactType(celgo.BoolType) {
		return nil, fmt.Errorf("%w: %q yields %s", ErrNotBool, src, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("typehandling(predicate): cel %q: %w", src, err)
	}
	return &CELPredicate{src: src, program: prg}, nil
}

// Match evaluates the predicate against d.
func (p *CELPredicate) Match(d typeinfo.Descriptor) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{
		"raw":   d.Raw(),
		"name":  d.String(),
		"arity": int64(d.NumArgs()),
		"args":  argNames(d),
	})
	if err != nil {
		return false, fmt.Errorf("typehandling(predicate): cel %q: %w", p.src, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotBool, p.src)
	}
	return b, nil
}

// String returns the source expression.
func (p *CELPredicate) String() string { return p.src }
