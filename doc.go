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

// Package clconf registers OpenCL kernel blocks described by key/value
// descriptor files into a process-wide plugin registry.
//
// A descriptor names an OpenCL source file, the kernel entry point, the port
// types and a factory path. Loading it installs two plugins:
//
//	/blocks<factory>       a block factory
//	/blocks/docs<factory>  the block's JSON documentation
//
// The factory specializes the generic kernel block registered at
// /blocks/blocks/opencl_kernel each time it is called. Optional tunables
// (local_size, global_factor, production_factor) are either baked into the
// factory or exposed as documented block parameters, never both.
//
// # Design
//
// The package keeps a read-mostly global snapshot holding the Config, the
// Registry, the Builder and a logger. Readers load the snapshot atomically;
// writers (SetConfig, SetRegistry, SetBuilder, SetAll) build a new snapshot
// under a mutex and swap it in.
//
// At init the package performs its static registration: the generic kernel
// block factory at Config().KernelFactoryPath and the conf loader at
// Config().ConfLoaderPath. The conf loader is Load, so it always writes into
// the registry of the current snapshot. Every new snapshot repeats the
// static registration for plugins its registry lacks.
//
// # Usage
//
//	paths, err := clconf.Scan(ctx, "/etc/blocks")
//	...
//	p, _ := clconf.Registry().Get("/blocks/opencl/scale")
//	factory, _ := p.Callable()
//	blk, err := factory("0:0")
//
// # Pinning
//
// SetRegistry pins the given registry: configuration and builder changes no
// longer rebuild it until UnpinRegistry. An unpinned registry is rebuilt by
// the Builder, which migrates the previous registry's plugins.
package clconf
