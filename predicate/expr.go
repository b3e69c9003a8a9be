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

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"dirpx.dev/typehandling/typeinfo"
)

// ExprPredicate is a descriptor predicate backed by github.com/expr-lang/expr.
type ExprPredicate struct {
	src     string
	program *exprvm.Program
}

// Expr compiles src, e.g. `raw == "list" && arity == 1`.
func Expr(src string) (*ExprPredicate, error) {
	if src == "" {
		return nil, ErrEmpty
	}
	program, err := exprlang.Compile(src,
		exprlang.Env(exprEnv(typeinfo.Descriptor{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("typehandling(predicate): expr %q: %w", src, err)
	}
	return &ExprPredicate{src: src, program: program}, nil
}

// Match evaluates the predicate against d.
func (p *ExprPredicate) Match(d typeinfo.Descriptor) (bool, error) {
	out, err := exprlang.Run(p.program, exprEnv(d))
	if err != nil {
		return false, fmt.Errorf("typehandling(predicate): expr %q: %w", p.src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotBool, p.src)
	}
	return b, nil
}

// String returns the source expression.
func (p *ExprPredicate) String() string { return p.src }

func exprEnv(d typeinfo.Descriptor) map[string]any {
	return map[string]any{
		"raw":   d.Raw(),
		"name":  d.String(),
		"arity": d.NumArgs(),
		"args":  argNames(d),
	}
}
