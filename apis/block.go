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

// Block is a handle to a constructed dataflow block.
//
// Blocks expose their configuration surface as named calls, mirroring how the
// host framework drives them from graph descriptions: Call("setLocalSize", 4).
type Block interface {
	// Name returns the display name of the block.
	Name() string
	// SetName sets the display name of the block.
	SetName(name string)
	// Call invokes a named method registered on the block.
	Call(method string, args ...any) (any, error)
}
