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

// Package builtin provides primitive handlers and the generic composite
// factories (list, map, pair, record).
package builtin

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/typeinfo"
)

// Raw identities of the primitive types.
const (
	BoolType   = "bool"
	IntType    = "int"
	FloatType  = "float"
	StringType = "string"
)

var (
	boolHandler = handler.New(typeinfo.Of(BoolType),
		func(b bool) (data.Value, error) { return data.Bool(b), nil },
		func(v data.Value) (bool, error) {
			b, ok := v.AsBool()
			if !ok {
				return false, handler.Decoding(typeinfo.Of(BoolType), v, handler.ErrUnexpectedKind)
			}
			return b, nil
		},
	)

	intHandler = handler.New(typeinfo.Of(IntType),
		func(i int64) (data.Value, error) { return data.Int(i), nil },
		func(v data.Value) (int64, error) {
			i, ok := v.AsInt()
			if !ok {
				return 0, handler.Decoding(typeinfo.Of(IntType), v, handler.ErrUnexpectedKind)
			}
			return i, nil
		},
	)

	floatHandler = handler.New(typeinfo.Of(FloatType),
		func(f float64) (data.Value, error) { return data.Float(f), nil },
		func(v data.Value) (float64, error) {
			f, ok := v.AsFloat()
			if !ok {
				return 0, handler.Decoding(typeinfo.Of(FloatType), v, handler.ErrUnexpectedKind)
			}
			return f, nil
		},
	)

	stringHandler = handler.New(typeinfo.Of(StringType),
		func(s string) (data.Value, error) { return data.String(s), nil },
		func(v data.Value) (string, error) {
			s, ok := v.AsString()
			if !ok {
				return "", handler.Decoding(typeinfo.Of(StringType), v, handler.ErrUnexpectedKind)
			}
			return s, nil
		},
	)
)

// Bool returns the handler for "bool" values (Go bool).
func Bool() apis.Handler { return boolHandler }

// Int returns the handler for "int" values (Go int64).
func Int() apis.Handler { return intHandler }

// Float returns the handler for "float" values (Go float64).
func Float() apis.Handler { return floatHandler }

// String returns the handler for "string" values.
func String() apis.Handler { return stringHandler }

// Primitives returns exact factories for the four primitive types.
func Primitives() []apis.Factory {
	return []apis.Factory{
		factory.Exact(BoolType, boolHandler),
		factory.Exact(IntType, intHandler),
		factory.Exact(FloatType, floatHandler),
		factory.Exact(StringType, stringHandler),
	}
}

// Factories returns the stock builtin factories in resolution order: the
// primitives, then list, map and pair. RecordFactory is not included; it
// must be registered after every stock factory so that a scope defining a
// stock identity cannot take it over.
func Factories() []apis.Factory {
	return append(Primitives(), ListFactory(), MapFactory(), PairFactory())
}

