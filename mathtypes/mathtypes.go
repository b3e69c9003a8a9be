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

// Package mathtypes provides handlers for the small vector and rectangle
// value types used by world data.
//
// Vectors encode as fixed-length sequences of scalars. Rect2f encodes as a
// mapping {min, size} whose entries go through whatever Vector2f handler the
// resolution context yields.
package mathtypes

import (
	"fmt"
	"math"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/typeinfo"
)

// Raw identities.
const (
	Vector2fType = "math:Vector2f"
	Vector3iType = "math:Vector3i"
	Rect2fType   = "math:Rect2f"
)

// Vector2f is a two component float vector.
type Vector2f struct {
	X, Y float32
}

// Vector3i is a three component integer vector, e.g. a chunk position.
type Vector3i struct {
	X, Y, Z int32
}

// Add returns v+o.
func (v Vector3i) Add(o Vector3i) Vector3i {
	return Vector3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3i) String() string { return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z) }

// Rect2f is an axis aligned rectangle given by its minimum corner and size.
type Rect2f struct {
	Min  Vector2f
	Size Vector2f
}

// Max returns the corner opposite Min.
func (r Rect2f) Max() Vector2f {
	return Vector2f{X: r.Min.X + r.Size.X, Y: r.Min.Y + r.Size.Y}
}

var (
	vector2fHandler = handler.New(typeinfo.Of(Vector2fType), encodeVector2f, decodeVector2f)
	vector3iHandler = handler.New(typeinfo.Of(Vector3iType), encodeVector3i, decodeVector3i)
)

// Vector2fHandler returns the handler for Vector2f.
func Vector2fHandler() apis.Handler { return vector2fHandler }

// Vector3iHandler returns the handler for Vector3i.
func Vector3iHandler() apis.Handler { return vector3iHandler }

// Factories returns the math factories in resolution order.
func Factories() []apis.Factory {
	return []apis.Factory{
		factory.Exact(Vector2fType, vector2fHandler),
		factory.Exact(Vector3iType, vector3iHandler),
		Rect2fFactory(),
	}
}

func encodeVector2f(v Vector2f) (data.Value, error) {
	return data.Sequence(data.Float(float64(v.X)), data.Float(float64(v.Y))), nil
}

func decodeVector2f(v data.Value) (Vector2f, error) {
	d := typeinfo.Of(Vector2fType)
	c, err := components(d, v, 2)
	if err != nil {
		return Vector2f{}, err
	}
	var out [2]float32
	for i, item := range c {
		f, ok := item.AsFloat()
		if !ok {
			return Vector2f{}, handler.At(fmt.Sprintf("[%d]", i), handler.Decoding(d, item, handler.ErrUnexpectedKind))
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return Vector2f{}, handler.At(fmt.Sprintf("[%d]", i), handler.Decoding(d, item, handler.ErrOutOfRange))
		}
		out[i] = float32(f)
	}
	return Vector2f{X: out[0], Y: out[1]}, nil
}

func encodeVector3i(v Vector3i) (data.Value, error) {
	return data.Sequence(data.Int(int64(v.X)), data.Int(int64(v.Y)), data.Int(int64(v.Z))), nil
}

func decodeVector3i(v data.Value) (Vector3i, error) {
	d := typeinfo.Of(Vector3iType)
	c, err := components(d, v, 3)
	if err != nil {
		return Vector3i{}, err
	}
	var out [3]int32
	for i, item := range c {
		n, ok := item.AsInt()
		if !ok {
			return Vector3i{}, handler.At(fmt.Sprintf("[%d]", i), handler.Decoding(d, item, handler.ErrUnexpectedKind))
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Vector3i{}, handler.At(fmt.Sprintf("[%d]", i), handler.Decoding(d, item, handler.ErrOutOfRange))
		}
		out[i] = int32(n)
	}
	return Vector3i{X: out[0], Y: out[1], Z: out[2]}, nil
}

// components checks that v is a sequence of exactly n items.
func components(d typeinfo.Descriptor, v data.Value, n int) ([]data.Value, error) {
	if v.Kind() != data.KindSequence {
		return nil, handler.Decoding(d, v, handler.ErrUnexpectedKind)
	}
	if v.Len() != n {
		return nil, handler.Decoding(d, v, handler.ErrLength)
	}
	return v.Items(), nil
}
