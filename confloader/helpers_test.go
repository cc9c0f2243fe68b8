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

package confloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/config"
	"dirpx.dev/clconf/kernel"
	"dirpx.dev/clconf/registry"
)

// fixture writes k.cl into a temp dir and returns the dir with a minimal
// descriptor pointing at it.
func fixture(t *testing.T) (string, map[string]string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.cl"), []byte("__kernel void run() {}\n"), 0o644))
	return dir, map[string]string{
		"confFilePath": filepath.Join(dir, "x.conf"),
		"source":       "k.cl",
		"kernel_name":  "run",
		"input_types":  "float32",
		"output_types": "float32",
		"factory":      "/my/k",
	}
}

// newRegistry returns a registry holding the real kernel block factory.
func newRegistry(t *testing.T) apis.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, kernel.Register(reg, config.DefaultConfig().KernelFactoryPath))
	return reg
}

type recordedCall struct {
	method string
	args   []any
}

// recBlock records named calls instead of acting on them.
type recBlock struct {
	name  string
	calls []recordedCall
}

func (b *recBlock) Name() string        { return b.name }
func (b *recBlock) SetName(name string) { b.name = name }
func (b *recBlock) Call(method string, args ...any) (any, error) {
	b.calls = append(b.calls, recordedCall{method, args})
	return nil, nil
}

// recordingRegistry returns a registry whose kernel factory hands out
// recBlocks and remembers the arguments it was called with.
func recordingRegistry(t *testing.T) (apis.Registry, *[][]any, *[]*recBlock) {
	t.Helper()
	var (
		gotArgs [][]any
		blocks  []*recBlock
	)
	reg := registry.New()
	err := reg.AddCall(config.DefaultConfig().KernelFactoryPath, func(args ...any) (any, error) {
		gotArgs = append(gotArgs, args)
		b := &recBlock{}
		blocks = append(blocks, b)
		return b, nil
	})
	require.NoError(t, err)
	return reg, &gotArgs, &blocks
}

func with(conf map[string]string, kv ...string) map[string]string {
	out := make(map[string]string, len(conf)+len(kv)/2)
	for k, v := range conf {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

func without(conf map[string]string, keys ...string) map[string]string {
	out := with(conf)
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
