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

package builder

import (
	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/docparser"
	"dirpx.dev/clconf/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry. If a previous registry
// is provided, its plugins are copied into the new one in path order.
// Entries the new registry rejects are skipped.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New()
	if prev != nil {
		for _, p := range prev.Entries() {
			_ = nreg.Add(p.Path, p.Object)
		}
	}
	return nreg
}

// BuildParser returns a fresh documentation parser.
func (b *builder) BuildParser(_ apis.Config) apis.DocParser {
	return docparser.New()
}
