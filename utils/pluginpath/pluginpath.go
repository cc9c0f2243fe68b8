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

// Package pluginpath validates and composes registry plugin paths.
package pluginpath

import (
	"errors"
	"strings"

	"dirpx.dev/clconf/apis"
)

// Root is the root of the plugin namespace.
const Root apis.PluginPath = "/"

var (
	// ErrEmptyPath is returned when an empty path is provided.
	ErrEmptyPath = errors.New("clconf(pluginpath): empty path")
	// ErrNotAbsolute is returned when a path does not start with "/".
	ErrNotAbsolute = errors.New("clconf(pluginpath): path must start with '/'")
	// ErrEmptySegment is returned when a path contains "//" or ends with "/".
	ErrEmptySegment = errors.New("clconf(pluginpath): empty path segment")
)

// Validate checks that p is well formed: non-empty, slash-prefixed, and
// free of empty segments. The root path "/" is valid.
func Validate(p apis.PluginPath) error {
	s := string(p)
	switch {
	case s == "":
		return ErrEmptyPath
	case s[0] != '/':
		return ErrNotAbsolute
	case s == "/":
		return nil
	}
	for _, seg := range strings.Split(s[1:], "/") {
		if seg == "" {
			return ErrEmptySegment
		}
	}
	return nil
}

// Concat joins prefix and suffix by plain textual concatenation.
// No separator is inserted and nothing is normalized, so "/blocks" + "/my/k"
// yields "/blocks/my/k" and "/blocks" + "my/k" yields "/blocksmy/k".
func Concat(prefix apis.PluginPath, suffix string) apis.PluginPath {
	return apis.PluginPath(string(prefix) + suffix)
}

// Join appends names to base as separate segments.
func Join(base apis.PluginPath, names ...string) apis.PluginPath {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(string(base), "/"))
	for _, n := range names {
		sb.WriteByte('/')
		sb.WriteString(n)
	}
	if sb.Len() == 0 {
		return Root
	}
	return apis.PluginPath(sb.String())
}

// Parent returns the parent of p. The parent of a top-level path is Root.
func Parent(p apis.PluginPath) apis.PluginPath {
	s := strings.TrimSuffix(string(p), "/")
	i := strings.LastIndexByte(s, '/')
	if i <= 0 {
		return Root
	}
	return apis.PluginPath(s[:i])
}

// Child reports whether q lies strictly under p, and if so returns the name of
// the direct child of p on the way to q.
func Child(p, q apis.PluginPath) (string, bool) {
	prefix := strings.TrimSuffix(string(p), "/") + "/"
	rest, ok := strings.CutPrefix(string(q), prefix)
	if !ok || rest == "" {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	return name, true
}
