// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

import "github.com/pkg/errors"

// Code is the gateway's error taxonomy.
type Code int

const (
	Success Code = iota
	InvalidParam
	InvalidState
	InvalidIndex
	IOFault
	NoMemory
	NoResource
	ThreadError
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case InvalidParam:
		return "INVALID_PARAM"
	case InvalidState:
		return "INVALID_STATE"
	case InvalidIndex:
		return "INVALID_INDEX"
	case IOFault:
		return "IO_FAULT"
	case NoMemory:
		return "NO_MEMORY"
	case NoResource:
		return "NO_RESOURCE"
	case ThreadError:
		return "THREAD_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Error carries one taxonomy code plus a wrapped cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap builds an *Error with a pkg/errors-annotated stack trace attached
// to the underlying cause, so adapter-boundary failures keep their origin
// even after being folded into the taxonomy.
func Wrap(code Code, cause error, msg string) *Error {
	return &Error{Code: code, Err: errors.Wrap(cause, msg)}
}

// New builds an *Error with no wrapped cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Err: errors.New(msg)}
}
