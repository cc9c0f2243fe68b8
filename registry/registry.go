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

package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/utils/pluginpath"
)

var (
	// ErrNilPlugin is returned when a nil payload or callable is provided.
	ErrNilPlugin = errors.New("clconf(registry): nil plugin provided")
	// ErrConflictingRegistration indicates an attempt to install at an occupied path.
	ErrConflictingRegistration = errors.New("clconf(registry): conflicting registration")
	// ErrNotFound is returned when no plugin is installed at a path.
	ErrNotFound = errors.New("clconf(registry): plugin not found")
	// ErrInvalidPath wraps the pluginpath validation failure for a malformed path.
	ErrInvalidPath = errors.New("clconf(registry): invalid plugin path")
)

// New constructs an empty Registry ordered by plugin path.
func New() apis.Registry {
	return &registry{tr: newTree()}
}

// registry is a B-tree backed Registry guarded by a RWMutex.
// Reads dominate after discovery, so lookups only take the read lock.
type registry struct {
	mu sync.RWMutex
	tr *btree.BTreeG[apis.Plugin]
}

func newTree() *btree.BTreeG[apis.Plugin] {
	return btree.NewBTreeGOptions(
		func(a, b apis.Plugin) bool {
			return a.Path < b.Path
		},
		btree.Options{NoLocks: true},
	)
}

// Add installs obj at path.
func (r *registry) Add(path apis.PluginPath, obj any) error {
	if obj == nil {
		return ErrNilPlugin
	}
	return r.insert(apis.Plugin{Path: path, Object: obj})
}

// AddCall installs call at path.
func (r *registry) AddCall(path apis.PluginPath, call apis.Callable) error {
	if call == nil {
		return ErrNilPlugin
	}
	return r.insert(apis.Plugin{Path: path, Object: call})
}

func (r *registry) insert(p apis.Plugin) error {
	if err := pluginpath.Validate(p.Path); err != nil {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPath, err, p.Path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tr.Get(apis.Plugin{Path: p.Path}); ok {
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, p.Path)
	}
	r.tr.Set(p)
	return nil
}

// Get returns the plugin at path.
func (r *registry) Get(path apis.PluginPath) (apis.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.tr.Get(apis.Plugin{Path: path})
	if !ok {
		return apis.Plugin{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return p, nil
}

// Exists reports whether a plugin is installed at path.
func (r *registry) Exists(path apis.PluginPath) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tr.Get(apis.Plugin{Path: path})
	return ok
}

// Remove uninstalls and returns the plugin at path.
func (r *registry) Remove(path apis.PluginPath) (apis.Plugin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.tr.Delete(apis.Plugin{Path: path})
	if !ok {
		return apis.Plugin{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return p, nil
}

// List returns the sorted, de-duplicated names of the direct children of path.
func (r *registry) List(path apis.PluginPath) []string {
	prefix := strings.TrimSuffix(string(path), "/") + "/"

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	r.tr.Ascend(apis.Plugin{Path: apis.PluginPath(prefix)}, func(p apis.Plugin) bool {
		if !strings.HasPrefix(string(p.Path), prefix) {
			return false
		}
		if name, ok := pluginpath.Child(path, p.Path); ok {
			seen[name] = struct{}{}
		}
		return true
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns a snapshot of all plugins sorted by path.
func (r *registry) Entries() []apis.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]apis.Plugin, 0, r.tr.Len())
	r.tr.Scan(func(p apis.Plugin) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Count returns the number of installed plugins.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tr.Len()
}

// Reset clears all installed plugins.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tr = newTree()
}
