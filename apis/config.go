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

// Config carries read-only loader knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// BlocksPrefix is prepended to a factory path to form the callable's path.
	BlocksPrefix PluginPath

	// DocsPrefix is prepended to a factory path to form the JSON docs path.
	DocsPrefix PluginPath

	// KernelFactoryPath is where the generic OpenCL kernel block factory lives.
	KernelFactoryPath PluginPath

	// ConfLoaderPath is where the OpenCL conf loader registers itself.
	ConfLoaderPath PluginPath

	// StrictFactory rejects empty or non-slash-prefixed factory values.
	// When false, the factory string is concatenated as given.
	StrictFactory bool

	// LogLevel is the level of the loader's named logger.
	LogLevel string
}
