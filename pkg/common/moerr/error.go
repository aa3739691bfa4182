// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package moerr defines the closed set of error codes this module can
// raise. It follows the code-plus-constructor shape of matrixone's own
// moerr package, trimmed to the handful of codes a group indexer needs.
package moerr

import "fmt"

// Code identifies the kind of error without relying on message text.
type Code uint16

const (
	// ErrLengthMismatch: columns in the tuple differ in length.
	ErrLengthMismatch Code = iota + 1
	// ErrNonAtomic: a column is not an atomic value sequence.
	ErrNonAtomic
	// ErrCoercionFailed: string-coercion of an unsupported kind failed.
	ErrCoercionFailed
	// ErrInternal: an invariant the driver relies on did not hold; this
	// indicates a bug in the indexer, not bad input.
	ErrInternal
)

func (c Code) String() string {
	switch c {
	case ErrLengthMismatch:
		return "ELengthMismatch"
	case ErrNonAtomic:
		return "ENonAtomic"
	case ErrCoercionFailed:
		return "ECoercionFailed"
	case ErrInternal:
		return "EInternal"
	default:
		return "EUnknown"
	}
}

// Error is the concrete error type every constructor below returns.
type Error struct {
	code Code
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Code reports which of the closed set of kinds this error is, so
// callers can branch without string-matching Error().
func (e *Error) Code() Code {
	return e.code
}

func newError(code Code, msg string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(msg, args...)}
}

func NewLengthMismatch(msg string, args ...any) *Error {
	return newError(ErrLengthMismatch, msg, args...)
}

func NewNonAtomic(msg string, args ...any) *Error {
	return newError(ErrNonAtomic, msg, args...)
}

func NewCoercionFailed(msg string, args ...any) *Error {
	return newError(ErrCoercionFailed, msg, args...)
}

func NewInternalError(msg string, args ...any) *Error {
	return newError(ErrInternal, msg, args...)
}

// Is lets errors.Is match on Code alone via a sentinel *Error whose msg
// is irrelevant, e.g. errors.Is(err, moerr.ErrLengthMismatchSentinel).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code
}

var (
	ErrLengthMismatchSentinel = &Error{code: ErrLengthMismatch}
	ErrNonAtomicSentinel      = &Error{code: ErrNonAtomic}
	ErrCoercionFailedSentinel = &Error{code: ErrCoercionFailed}
)
