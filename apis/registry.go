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

// Registry is the process-wide plugin registry.
//
// Writes happen during plugin discovery (conf loaders, static registration);
// reads happen later from arbitrary goroutines when blocks are constructed.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Add installs an arbitrary payload at path.
	// Installing at an occupied path fails; nothing is overwritten.
	Add(path PluginPath, obj any) error
	// AddCall installs a callable at path. Same duplicate rules as Add.
	AddCall(path PluginPath, call Callable) error
	// Get returns the plugin installed at path.
	Get(path PluginPath) (Plugin, error)
	// Exists reports whether a plugin is installed at path.
	Exists(path PluginPath) bool
	// Remove uninstalls the plugin at path and returns it.
	Remove(path PluginPath) (Plugin, error)
	// List returns the sorted names of the direct children of path.
	List(path PluginPath) []string
	// Entries returns a snapshot of all plugins sorted by path.
	Entries() []Plugin
	// Count returns the number of installed plugins.
	Count() int
	// Reset clears all installed plugins.
	Reset()
}

// Plugin is a single (path, payload) association in a Registry.
type Plugin struct {
	// Path is where the plugin is installed.
	Path PluginPath
	// Object is the payload: a Callable or any other value.
	Object any
}

// Callable returns the payload as a Callable, if it is one.
func (p Plugin) Callable() (Callable, bool) {
	c, ok := p.Object.(Callable)
	return c, ok && c != nil
}
