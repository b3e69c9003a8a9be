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

package builtin

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/typeinfo"
)

// RecordFactory returns the factory for named record types. It looks the
// descriptor's raw identity up through the context's scopes and resolves a
// handler for every field; the Go value is map[string]any keyed by field
// name. A type no scope defines, or one with an unresolvable field, is
// declined.
func RecordFactory() apis.Factory {
	return factory.Named("record", factory.Func(createRecord))
}

type field struct {
	name string
	h    apis.Handler
}

func createRecord(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
	if ctx == nil || d.IsGeneric() {
		return nil, false
	}
	def, ok := ctx.Lookup(d.Raw())
	if !ok {
		return nil, false
	}
	fields := make([]field, 0, len(def.Fields))
	for _, f := range def.Fields {
		h, ok := ctx.Resolve(f.Type)
		if !ok {
			return nil, false
		}
		fields = append(fields, field{name: f.Name, h: h})
	}

	return handler.New(d,
		func(rec map[string]any) (data.Value, error) {
			out := make(map[string]data.Value, len(fields))
			for _, f := range fields {
				x, ok := rec[f.name]
				if !ok {
					return data.Value{}, handler.At(f.name, handler.Encoding(d, rec, handler.ErrMissingField))
				}
				v, err := f.h.Encode(x)
				if err != nil {
					return data.Value{}, handler.At(f.name, err)
				}
				out[f.name] = v
			}
			return data.Mapping(out), nil
		},
		func(v data.Value) (map[string]any, error) {
			if v.Kind() != data.KindMapping {
				return nil, handler.Decoding(d, v, handler.ErrUnexpectedKind)
			}
			out := make(map[string]any, len(fields))
			for _, f := range fields {
				item, ok := v.Get(f.name)
				if !ok {
					return nil, handler.At(f.name, handler.Decoding(d, v, handler.ErrMissingField))
				}
				x, err := f.h.Decode(item)
				if err != nil {
					return nil, handler.At(f.name, err)
				}
				out[f.name] = x
			}
			return out, nil
		},
	), true
}
