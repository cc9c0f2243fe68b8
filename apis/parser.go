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

package apis

import (
	"io"

	"github.com/iancoleman/orderedmap"
)

// DocParser turns documentation written in the annotated-comment dialect into
// JSON block descriptors.
type DocParser interface {
	// FeedStream parses all documentation blocks found in r.
	FeedStream(r io.Reader) error
	// ListFactories returns the factory paths declared so far, in input order.
	ListFactories() []string
	// GetJSONObject returns the descriptor for one factory path.
	GetJSONObject(factory string) (*orderedmap.OrderedMap, error)
}
