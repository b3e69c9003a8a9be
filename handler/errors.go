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

package handler

import (
	"errors"
	"fmt"

	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/typeinfo"
)

var (
	// ErrWrongType indicates Encode received a value of the wrong Go type.
	ErrWrongType = errors.New("typehandling(handler): value does not match handler type")
	// ErrUnexpectedKind indicates serialized input of the wrong shape.
	ErrUnexpectedKind = errors.New("typehandling(handler): unexpected value kind")
	// ErrMissingField indicates a mapping without a required entry.
	ErrMissingField = errors.New("typehandling(handler): missing field")
	// ErrLength indicates a sequence of the wrong length.
	ErrLength = errors.New("typehandling(handler): unexpected sequence length")
	// ErrOutOfRange indicates a scalar that does not fit the target type.
	ErrOutOfRange = errors.New("typehandling(handler): value out of range")
)

// DecodeError reports serialized input that does not conform to the handler's
// type. It identifies the handler type, the location inside the input, and
// the offending value.
type DecodeError struct {
	// Type is the descriptor of the handler that failed.
	Type typeinfo.Descriptor
	// Path locates Value inside the decoded input ("" for the root).
	Path string
	// Value is the offending serialized value.
	Value data.Value
	// Err is the underlying cause, usually one of the sentinels above.
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("typehandling(handler): decode %s%s: %v (got %s)", e.Type, describePath(e.Path), e.Err, e.Value)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EncodeError reports a value the handler cannot encode.
type EncodeError struct {
	// Type is the descriptor of the handler that failed.
	Type typeinfo.Descriptor
	// Path locates the value inside the encoded input ("" for the root).
	Path string
	// Value is the offending Go value.
	Value any
	// Err is the underlying cause.
	Err error
}

func (e *EncodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("typehandling(handler): encode %s%s: %v (got %T)", e.Type, describePath(e.Path), e.Err, e.Value)
}

func (e *EncodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Decoding returns a DecodeError for d at the root of the input.
func Decoding(d typeinfo.Descriptor, v data.Value, err error) error {
	return &DecodeError{Type: d, Value: v, Err: err}
}

// Encoding returns an EncodeError for d at the root of the input.
func Encoding(d typeinfo.Descriptor, v any, err error) error {
	return &EncodeError{Type: d, Value: v, Err: err}
}

// At prefixes the location of a nested DecodeError or EncodeError with
// segment, so failures deep inside composite values report a full path.
// Other errors are wrapped in a DecodeError or EncodeError at segment.
func At(segment string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		cp := *de
		cp.Path = joinPath(segment, cp.Path)
		return &cp
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		cp := *ee
		cp.Path = joinPath(segment, cp.Path)
		return &cp
	}
	return fmt.Errorf("typehandling(handler): at %s: %w", segment, err)
}

func joinPath(segment, rest string) string {
	if rest == "" {
		return segment
	}
	if rest[0] == '[' {
		return segment + rest
	}
	return segment + "." + rest
}

func describePath(p string) string {
	if p == "" {
		return ""
	}
	return " at " + p
}
