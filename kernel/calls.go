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

package kernel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"dirpx.dev/clconf/apis"
)

// ErrArguments is returned when a call receives the wrong number of arguments
// or arguments that cannot be converted to the parameter types.
var ErrArguments = errors.New("clconf(kernel): bad call arguments")

type method struct {
	arity int
	fn    func(k *Kernel, args []any) (any, error)
}

// methods is the named-call table. Arguments are weakly decoded, so a
// setter accepts any numeric kind or a decimal string.
var methods = map[string]method{
	"setSource": {2, func(k *Kernel, args []any) (any, error) {
		var name, source string
		if err := decodeArgs(args, &name, &source); err != nil {
			return nil, err
		}
		k.SetSource(name, source)
		return nil, nil
	}},
	"getSource": {0, func(k *Kernel, _ []any) (any, error) {
		_, source := k.Source()
		return source, nil
	}},
	"getKernelName": {0, func(k *Kernel, _ []any) (any, error) {
		name, _ := k.Source()
		return name, nil
	}},
	"setLocalSize": {1, func(k *Kernel, args []any) (any, error) {
		var n uint64
		if err := decodeArgs(args, &n); err != nil {
			return nil, err
		}
		return nil, k.SetLocalSize(n)
	}},
	"getLocalSize": {0, func(k *Kernel, _ []any) (any, error) {
		return k.LocalSize(), nil
	}},
	"setGlobalFactor": {1, func(k *Kernel, args []any) (any, error) {
		var f float64
		if err := decodeArgs(args, &f); err != nil {
			return nil, err
		}
		return nil, k.SetGlobalFactor(f)
	}},
	"getGlobalFactor": {0, func(k *Kernel, _ []any) (any, error) {
		return k.GlobalFactor(), nil
	}},
	"setProductionFactor": {1, func(k *Kernel, args []any) (any, error) {
		var f float64
		if err := decodeArgs(args, &f); err != nil {
			return nil, err
		}
		return nil, k.SetProductionFactor(f)
	}},
	"getProductionFactor": {0, func(k *Kernel, _ []any) (any, error) {
		return k.ProductionFactor(), nil
	}},
	"getDeviceId": {0, func(k *Kernel, _ []any) (any, error) {
		return k.Device().String(), nil
	}},
}

// Methods returns the sorted names accepted by Call.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for n := range methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call invokes a named method, as graph descriptions do.
func (k *Kernel) Call(name string, args ...any) (any, error) {
	m, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	if len(args) != m.arity {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArguments, name, m.arity, len(args))
	}
	return m.fn(k, args)
}

func decodeArgs(args []any, out ...any) error {
	for i := range out {
		if err := mapstructure.WeakDecode(args[i], out[i]); err != nil {
			return fmt.Errorf("%w: argument %d: %v", ErrArguments, i, err)
		}
	}
	return nil
}

// Factory is the block constructor Callable:
// Factory(deviceId, inputTypes, outputTypes) returns an apis.Block.
func Factory(args ...any) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%w: factory takes (deviceId, inputTypes, outputTypes), got %d arguments", ErrArguments, len(args))
	}
	var (
		deviceID string
		in, out  []string
	)
	if err := decodeArgs(args, &deviceID, &in, &out); err != nil {
		return nil, err
	}
	k, err := New(deviceID, in, out)
	if err != nil {
		return nil, err
	}
	return apis.Block(k), nil
}

// Register installs Factory at path.
func Register(reg apis.Registry, path apis.PluginPath) error {
	return reg.AddCall(path, Factory)
}
