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

// Package kernel implements the generic OpenCL kernel block the host framework
// installs at /blocks/blocks/opencl_kernel.
//
// The block records everything needed to dispatch a kernel: the target device,
// the port types, the kernel entry point and source path, and the three
// dispatch tunables. Compiling and running OpenCL code is outside this package.
package kernel

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"dirpx.dev/clconf/apis"
)

// DefaultDeviceID selects the first device of the first platform.
const DefaultDeviceID = "0:0"

const (
	defaultLocalSize        = 1
	defaultGlobalFactor     = 1.0
	defaultProductionFactor = 1.0
)

var (
	// ErrBadDeviceID is returned for device markup not of the form "<platform>:<device>".
	ErrBadDeviceID = errors.New("clconf(kernel): bad device id")
	// ErrUnknownMethod is returned by Call for a method the block does not register.
	ErrUnknownMethod = errors.New("clconf(kernel): unknown method")
	// ErrInvalidValue is returned when a setter receives an out-of-range value.
	ErrInvalidValue = errors.New("clconf(kernel): invalid value")
)

// Device identifies an OpenCL platform and a device on it, by index.
type Device struct {
	Platform uint64
	Device   uint64
}

// String formats d in the "<platform>:<device>" markup.
func (d Device) String() string {
	return strconv.FormatUint(d.Platform, 10) + ":" + strconv.FormatUint(d.Device, 10)
}

// ParseDeviceID parses the "<platform>:<device>" markup. Surrounding
// whitespace is ignored; the empty string selects DefaultDeviceID.
func ParseDeviceID(s string) (Device, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultDeviceID
	}
	ps, ds, ok := strings.Cut(s, ":")
	if !ok {
		return Device{}, fmt.Errorf("%w: %q", ErrBadDeviceID, s)
	}
	p, err := strconv.ParseUint(strings.TrimSpace(ps), 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %q", ErrBadDeviceID, s)
	}
	d, err := strconv.ParseUint(strings.TrimSpace(ds), 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %q", ErrBadDeviceID, s)
	}
	return Device{Platform: p, Device: d}, nil
}

// Kernel is the generic OpenCL kernel block. It is safe for concurrent use.
type Kernel struct {
	mu sync.RWMutex

	name        string
	device      Device
	inputTypes  []string
	outputTypes []string

	kernelName string
	source     string

	localSize        uint64
	globalFactor     float64
	productionFactor float64
}

// Ensure Kernel implements apis.Block.
var _ apis.Block = (*Kernel)(nil)

// New constructs a kernel block on the device named by deviceID with one
// input port per entry of inputTypes and one output port per entry of
// outputTypes. The type slices are copied.
func New(deviceID string, inputTypes, outputTypes []string) (*Kernel, error) {
	dev, err := ParseDeviceID(deviceID)
	if err != nil {
		return nil, err
	}
	return &Kernel{
		device:           dev,
		inputTypes:       slices.Clone(inputTypes),
		outputTypes:      slices.Clone(outputTypes),
		localSize:        defaultLocalSize,
		globalFactor:     defaultGlobalFactor,
		productionFactor: defaultProductionFactor,
	}, nil
}

func (k *Kernel) Name() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.name
}

func (k *Kernel) SetName(name string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.name = name
}

// Device returns the target device.
func (k *Kernel) Device() Device {
	return k.device
}

// InputTypes returns a copy of the input port types, in port order.
func (k *Kernel) InputTypes() []string {
	return slices.Clone(k.inputTypes)
}

// OutputTypes returns a copy of the output port types, in port order.
func (k *Kernel) OutputTypes() []string {
	return slices.Clone(k.outputTypes)
}

// SetSource sets the kernel entry point and the path of the file holding its
// source. The file is not read here.
func (k *Kernel) SetSource(kernelName, source string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kernelName = kernelName
	k.source = source
}

// Source returns the kernel entry point and source path.
func (k *Kernel) Source() (kernelName, source string) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.kernelName, k.source
}

// SetLocalSize sets the local work-group size. Zero is rejected.
func (k *Kernel) SetLocalSize(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: local size must be positive", ErrInvalidValue)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.localSize = n
	return nil
}

func (k *Kernel) LocalSize() uint64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.localSize
}

// SetGlobalFactor sets the multiplier from input elements to global size.
func (k *Kernel) SetGlobalFactor(f float64) error {
	if !(f > 0) {
		return fmt.Errorf("%w: global factor must be positive, got %v", ErrInvalidValue, f)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.globalFactor = f
	return nil
}

func (k *Kernel) GlobalFactor() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.globalFactor
}

// SetProductionFactor sets the ratio of output elements produced per input element.
func (k *Kernel) SetProductionFactor(f float64) error {
	if !(f > 0) {
		return fmt.Errorf("%w: production factor must be positive, got %v", ErrInvalidValue, f)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.productionFactor = f
	return nil
}

func (k *Kernel) ProductionFactor() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.productionFactor
}

// Geometry computes one dispatch from the elements available on the inputs
// and the space available on the outputs. It returns how many input elements
// are consumed, how many output elements are produced, and the global work size.
//
// With a production factor above one the output space is the limit; otherwise
// the input is. Fractional element counts are truncated.
func (k *Kernel) Geometry(inputElems, outputElems uint64) (in, out, global uint64) {
	k.mu.RLock()
	pf, gf := k.productionFactor, k.globalFactor
	k.mu.RUnlock()

	if pf > 1 {
		out = min(uint64(float64(inputElems)*pf), outputElems)
		in = uint64(float64(out) / pf)
	} else {
		in = min(uint64(float64(outputElems)/pf), inputElems)
		out = uint64(float64(in) * pf)
	}
	global = uint64(float64(in) * gf)
	return in, out, global
}
