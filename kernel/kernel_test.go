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

package kernel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/kernel"
	"dirpx.dev/clconf/registry"
)

func TestParseDeviceID(t *testing.T) {
	cases := []struct {
		in      string
		want    kernel.Device
		wantErr bool
	}{
		{"0:0", kernel.Device{}, false},
		{"1:2", kernel.Device{Platform: 1, Device: 2}, false},
		{" 3 : 4 ", kernel.Device{Platform: 3, Device: 4}, false},
		{"", kernel.Device{}, false},
		{"1", kernel.Device{}, true},
		{"a:0", kernel.Device{}, true},
		{"0:-1", kernel.Device{}, true},
	}
	for _, tc := range cases {
		got, err := kernel.ParseDeviceID(tc.in)
		if tc.wantErr {
			if !errors.Is(err, kernel.ErrBadDeviceID) {
				t.Fatalf("ParseDeviceID(%q) error = %v, want ErrBadDeviceID", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseDeviceID(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if s := (kernel.Device{Platform: 1, Device: 2}).String(); s != "1:2" {
		t.Fatalf("Device.String() = %q, want %q", s, "1:2")
	}
}

func TestNew_Defaults(t *testing.T) {
	in := []string{"float32", "int16"}
	k, err := kernel.New("0:1", in, nil)
	require.NoError(t, err)

	require.Equal(t, kernel.Device{Device: 1}, k.Device())
	require.Equal(t, []string{"float32", "int16"}, k.InputTypes())
	require.Empty(t, k.OutputTypes())
	require.EqualValues(t, 1, k.LocalSize())
	require.Equal(t, 1.0, k.GlobalFactor())
	require.Equal(t, 1.0, k.ProductionFactor())

	in[0] = "mutated"
	require.Equal(t, "float32", k.InputTypes()[0])
}

func TestCall_SettersAndGetters(t *testing.T) {
	k, err := kernel.New("0:0", nil, nil)
	require.NoError(t, err)

	_, err = k.Call("setSource", "run", "/p/k.cl")
	require.NoError(t, err)
	_, err = k.Call("setLocalSize", uint64(4))
	require.NoError(t, err)
	_, err = k.Call("setGlobalFactor", 2)
	require.NoError(t, err)
	_, err = k.Call("setProductionFactor", "0.5")
	require.NoError(t, err)

	name, src := k.Source()
	require.Equal(t, "run", name)
	require.Equal(t, "/p/k.cl", src)

	v, err := k.Call("getLocalSize")
	require.NoError(t, err)
	require.Equal(t, uint64(4), v)
	v, err = k.Call("getGlobalFactor")
	require.NoError(t, err)
	require.Equal(t, 2.0, v)
	v, err = k.Call("getProductionFactor")
	require.NoError(t, err)
	require.Equal(t, 0.5, v)
	v, err = k.Call("getDeviceId")
	require.NoError(t, err)
	require.Equal(t, "0:0", v)
}

func TestCall_Errors(t *testing.T) {
	k, err := kernel.New("0:0", nil, nil)
	require.NoError(t, err)

	_, err = k.Call("compile")
	require.ErrorIs(t, err, kernel.ErrUnknownMethod)

	_, err = k.Call("setLocalSize")
	require.ErrorIs(t, err, kernel.ErrArguments)

	_, err = k.Call("setLocalSize", "many")
	require.ErrorIs(t, err, kernel.ErrArguments)

	_, err = k.Call("setLocalSize", 0)
	require.ErrorIs(t, err, kernel.ErrInvalidValue)

	_, err = k.Call("setProductionFactor", 0.0)
	require.ErrorIs(t, err, kernel.ErrInvalidValue)
}

func TestGeometry(t *testing.T) {
	cases := []struct {
		name       string
		pf, gf     float64
		inAvail    uint64
		outAvail   uint64
		in, out, g uint64
	}{
		{"defaults limited by output", 1, 1, 10, 4, 4, 4, 4},
		{"defaults limited by input", 1, 1, 3, 8, 3, 3, 3},
		{"interpolating", 2, 1, 10, 15, 7, 15, 7},
		{"decimating with global factor", 0.5, 2, 10, 100, 10, 5, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := kernel.New("", nil, nil)
			require.NoError(t, err)
			require.NoError(t, k.SetProductionFactor(tc.pf))
			require.NoError(t, k.SetGlobalFactor(tc.gf))

			in, out, g := k.Geometry(tc.inAvail, tc.outAvail)
			if in != tc.in || out != tc.out || g != tc.g {
				t.Fatalf("Geometry(%d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tc.inAvail, tc.outAvail, in, out, g, tc.in, tc.out, tc.g)
			}
		})
	}
}

func TestFactory_ThroughRegistry(t *testing.T) {
	reg := registry.New()
	const path apis.PluginPath = "/blocks/blocks/opencl_kernel"
	require.NoError(t, kernel.Register(reg, path))

	p, err := reg.Get(path)
	require.NoError(t, err)
	call, ok := p.Callable()
	require.True(t, ok)

	obj, err := call("1:0", []string{"float32"}, []string{"float32", "uint8"})
	require.NoError(t, err)
	blk, ok := obj.(apis.Block)
	require.True(t, ok)

	k := blk.(*kernel.Kernel)
	require.Equal(t, kernel.Device{Platform: 1}, k.Device())
	require.Equal(t, []string{"float32", "uint8"}, k.OutputTypes())

	_, err = call("0:0")
	require.ErrorIs(t, err, kernel.ErrArguments)
	_, err = call("bad", []string{}, []string{})
	require.ErrorIs(t, err, kernel.ErrBadDeviceID)
}

func TestMethods(t *testing.T) {
	m := kernel.Methods()
	require.Contains(t, m, "setSource")
	require.Contains(t, m, "setLocalSize")
	require.Contains(t, m, "getProductionFactor")
	require.IsIncreasing(t, m)
}
