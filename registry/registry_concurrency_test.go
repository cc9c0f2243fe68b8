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
	"fmt"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/registry"
)

// TestConcurrentAddAndGet verifies that Add/Get/Entries/Count are race-free
// and consistent when factories are looked up from many goroutines while
// discovery is still installing plugins.
func TestConcurrentAddAndGet(t *testing.T) {
	reg := registry.New()

	const baseline = 10
	for i := 0; i < baseline; i++ {
		p := apis.PluginPath(fmt.Sprintf("/blocks/k%d", i))
		if err := reg.Add(p, i); err != nil {
			t.Fatalf("add %s: %v", p, err)
		}
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				p := apis.PluginPath(fmt.Sprintf("/blocks/k%d", i%baseline))
				if got, err := reg.Get(p); err != nil || got.Object != i%baseline {
					t.Errorf("get %s: got=%v err=%v", p, got.Object, err)
					return
				}
				_ = reg.Entries()
				_ = reg.List("/blocks")
			}
		}()
	}

	// Writers: each installs its own paths and also races on a shared one.
	var (
		mu      sync.Mutex
		winners int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p := apis.PluginPath(fmt.Sprintf("/blocks/docs/w%d/k%d", w, i))
				if err := reg.Add(p, w); err != nil {
					t.Errorf("add %s: %v", p, err)
					return
				}
			}
			if err := reg.Add("/blocks/shared", w); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(w)
	}

	wg.Wait()

	if winners != 1 {
		t.Fatalf("shared path installed %d times, want exactly 1", winners)
	}
	want := baseline + workers*50 + 1
	if got := reg.Count(); got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
	if got := len(reg.Entries()); got != want {
		t.Fatalf("len(Entries()) = %d, want %d", got, want)
	}
}
