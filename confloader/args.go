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

import "slices"

// FactoryArgs is what a registered factory needs to specialize the generic
// kernel block.
type FactoryArgs struct {
	// Source is the absolute path of the kernel source file.
	Source string
	// KernelName is the kernel entry point inside Source.
	KernelName string
	// InputTypes and OutputTypes are the port types, in port order.
	InputTypes  []string
	OutputTypes []string

	LocalSize        Optional[uint64]
	GlobalFactor     Optional[uint64]
	ProductionFactor Optional[uint64]
}

// Clone returns a deep copy of a.
func (a FactoryArgs) Clone() FactoryArgs {
	a.InputTypes = slices.Clone(a.InputTypes)
	a.OutputTypes = slices.Clone(a.OutputTypes)
	return a
}

// BlockDescriptionArgs is the user-facing documentation metadata.
type BlockDescriptionArgs struct {
	BlockName   string
	Categories  []string
	Description Optional[string]
	Keywords    Optional[[]string]
}
