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

package registry_test

import (
	"errors"
	"testing"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/registry"
	"dirpx.dev/clconf/utils/pluginpath"
)

func nopCall(args ...any) (any, error) { return len(args), nil }

func TestAddAndGet(t *testing.T) {
	reg := registry.New()

	if err := reg.Add("/blocks/docs/my/k", "doc"); err != nil {
		t.Fatalf("Add: unexpected error: %v", err)
	}
	if err := reg.AddCall("/blocks/my/k", nopCall); err != nil {
		t.Fatalf("AddCall: unexpected error: %v", err)
	}

	p, err := reg.Get("/blocks/docs/my/k")
	if err != nil {
		t.Fatalf("Get(doc): %v", err)
	}
	if p.Object != "doc" {
		t.Fatalf("Get(doc).Object = %v, want doc", p.Object)
	}
	if _, ok := p.Callable(); ok {
		t.Fatalf("doc payload must not be callable")
	}

	p, err = reg.Get("/blocks/my/k")
	if err != nil {
		t.Fatalf("Get(call): %v", err)
	}
	call, ok := p.Callable()
	if !ok {
		t.Fatalf("Get(call) payload is not callable: %T", p.Object)
	}
	if n, _ := call(1, 2, 3); n != 3 {
		t.Fatalf("call(1,2,3) = %v, want 3", n)
	}

	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}
}

func TestAdd_Conflict(t *testing.T) {
	reg := registry.New()

	if err := reg.Add("/blocks/docs/my/k", "one"); err != nil {
		t.Fatalf("Add: unexpected error: %v", err)
	}
	err := reg.Add("/blocks/docs/my/k", "two")
	if !errors.Is(err, registry.ErrConflictingRegistration) {
		t.Fatalf("expected ErrConflictingRegistration, got: %v", err)
	}
	err = reg.AddCall("/blocks/docs/my/k", nopCall)
	if !errors.Is(err, registry.ErrConflictingRegistration) {
		t.Fatalf("expected ErrConflictingRegistration for AddCall, got: %v", err)
	}

	// First write wins.
	p, _ := reg.Get("/blocks/docs/my/k")
	if p.Object != "one" {
		t.Fatalf("Object = %v, want one", p.Object)
	}
}

func TestAdd_Errors(t *testing.T) {
	reg := registry.New()

	if err := reg.Add("/x", nil); err != registry.ErrNilPlugin {
		t.Fatalf("nil payload: want ErrNilPlugin, got %v", err)
	}
	if err := reg.AddCall("/x", nil); err != registry.ErrNilPlugin {
		t.Fatalf("nil callable: want ErrNilPlugin, got %v", err)
	}
	if err := reg.Add("relative", 1); !errors.Is(err, pluginpath.ErrNotAbsolute) {
		t.Fatalf("relative path: want ErrNotAbsolute, got %v", err)
	}
	if err := reg.Add("/a/", 1); !errors.Is(err, registry.ErrInvalidPath) {
		t.Fatalf("trailing slash: want ErrInvalidPath, got %v", err)
	}
	if err := reg.Add("/a//b", 1); !errors.Is(err, pluginpath.ErrEmptySegment) {
		t.Fatalf("empty segment: want ErrEmptySegment, got %v", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("Count() = %d after failed adds, want 0", reg.Count())
	}
}

func TestGetRemoveUnknown(t *testing.T) {
	reg := registry.New()

	if _, err := reg.Get("/nope"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Get(unknown): want ErrNotFound, got %v", err)
	}
	if _, err := reg.Remove("/nope"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Remove(unknown): want ErrNotFound, got %v", err)
	}
	if reg.Exists("/nope") {
		t.Fatalf("Exists(unknown) = true")
	}
}

func TestRemove(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("/a/b", 1)

	p, err := reg.Remove("/a/b")
	if err != nil || p.Object != 1 {
		t.Fatalf("Remove = (%v,%v), want (1,nil)", p.Object, err)
	}
	if reg.Exists("/a/b") {
		t.Fatalf("Exists after Remove = true")
	}
	// Path is free again.
	if err := reg.Add("/a/b", 2); err != nil {
		t.Fatalf("re-Add after Remove: %v", err)
	}
}

func TestListChildren(t *testing.T) {
	reg := registry.New()
	for _, p := range []apis.PluginPath{
		"/blocks/my/k",
		"/blocks/my-x",
		"/blocks/docs/my/k",
		"/blocks/blocks/opencl_kernel",
		"/blocksmy/k",
		"/framework/conf_loader/opencl",
	} {
		if err := reg.Add(p, string(p)); err != nil {
			t.Fatalf("Add(%q): %v", p, err)
		}
	}

	got := reg.List("/blocks")
	want := []string{"blocks", "docs", "my", "my-x"}
	if len(got) != len(want) {
		t.Fatalf("List(/blocks) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List(/blocks) = %v, want %v", got, want)
		}
	}

	root := reg.List("/")
	if len(root) != 3 || root[0] != "blocks" || root[1] != "blocksmy" || root[2] != "framework" {
		t.Fatalf("List(/) = %v", root)
	}
	if leaf := reg.List("/blocks/my/k"); len(leaf) != 0 {
		t.Fatalf("List(leaf) = %v, want empty", leaf)
	}
}

func TestEntriesSortedAndReset(t *testing.T) {
	reg := registry.New()

	_ = reg.Add("/z", 1)
	_ = reg.Add("/a", 2)
	_ = reg.Add("/m/n", 3)

	entries := reg.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries len = %d, want 3", len(entries))
	}
	if entries[0].Path != "/a" || entries[1].Path != "/m/n" || entries[2].Path != "/z" {
		t.Fatalf("Entries not sorted: %v", entries)
	}

	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("after Reset, Count() = %d, want 0", reg.Count())
	}
	if reg.Exists("/a") {
		t.Fatalf("Exists after Reset = true")
	}
}
