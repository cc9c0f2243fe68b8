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
	"fmt"

	"dirpx.dev/clconf/apis"
)

// NewFactory returns the block factory registered for a descriptor.
//
// Calling it looks up the generic kernel block factory at kernelPath,
// invokes it with the caller's arguments followed by the input and output
// types, names the block after factory, installs the kernel source and then
// applies each bound tunable in the order local size, global factor,
// production factor. fa is copied; later changes by the caller are not seen.
func NewFactory(reg apis.Registry, kernelPath apis.PluginPath, factory string, fa FactoryArgs) apis.Callable {
	fa = fa.Clone()

	return func(args ...any) (any, error) {
		p, err := reg.Get(kernelPath)
		if err != nil {
			return nil, err
		}
		makeBlock, ok := p.Callable()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotCallable, kernelPath)
		}

		full := make([]any, 0, len(args)+2)
		full = append(full, args...)
		c := fa.Clone()
		full = append(full, c.InputTypes, c.OutputTypes)

		obj, err := makeBlock(full...)
		if err != nil {
			return nil, err
		}
		blk, ok := obj.(apis.Block)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrNotBlock, obj)
		}

		blk.SetName(factory)
		if _, err := blk.Call("setSource", fa.KernelName, fa.Source); err != nil {
			return nil, err
		}
		for _, t := range []struct {
			method string
			val    Optional[uint64]
		}{
			{"setLocalSize", fa.LocalSize},
			{"setGlobalFactor", fa.GlobalFactor},
			{"setProductionFactor", fa.ProductionFactor},
		} {
			v, ok := t.val.Get()
			if !ok {
				continue
			}
			if _, err := blk.Call(t.method, v); err != nil {
				return nil, err
			}
		}
		return blk, nil
	}
}
