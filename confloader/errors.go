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

package confloader

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMissingField is the kind of error returned when a required key is absent.
	ErrMissingField = errors.New("clconf(confloader): missing field")
	// ErrInvalidField is the kind of error returned when a key is present but malformed.
	ErrInvalidField = errors.New("clconf(confloader): invalid field")
	// ErrFileNotFound is the kind of error returned when the resolved source file does not exist.
	ErrFileNotFound = errors.New("clconf(confloader): file not found")
	// ErrNotCallable is returned by a factory when the kernel block factory is not a Callable.
	ErrNotCallable = errors.New("clconf(confloader): kernel factory is not callable")
	// ErrNotBlock is returned by a factory when the kernel block factory returns something other than a Block.
	ErrNotBlock = errors.New("clconf(confloader): kernel factory did not return a block")
)

// Error describes why a descriptor was rejected. Kind is one of
// ErrMissingField, ErrInvalidField or ErrFileNotFound, and errors.Is matches it.
type Error struct {
	Kind  error
	Key   string
	Value string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Key != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Key)
	}
	if e.Kind == ErrInvalidField {
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(e.Value))
	}
	if e.Path != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Path)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func missingField(key string) error {
	return &Error{Kind: ErrMissingField, Key: key}
}

func invalidField(key, value string, cause error) error {
	return &Error{Kind: ErrInvalidField, Key: key, Value: value, Cause: cause}
}
