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

// Callable is a registry payload that can be invoked with positional arguments.
// Factories, conf loaders and block constructors are all Callables.
type Callable func(args ...any) (any, error)

// ConfLoader turns one descriptor (a flat key/value map) into registry entries
// and returns the plugin paths it installed.
type ConfLoader func(conf map[string]string) ([]PluginPath, error)

// Call adapts l to a Callable taking the descriptor map as its only argument.
func (l ConfLoader) Call(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, ErrBadArguments
	}
	conf, ok := args[0].(map[string]string)
	if !ok {
		return nil, ErrBadArguments
	}
	return l(conf)
}
