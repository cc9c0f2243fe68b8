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

// PluginPath is a slash-delimited identifier in the plugin registry namespace,
// for example "/blocks/docs/my/kernel".
//
// A well-formed path starts with "/", has no empty segments and no trailing
// slash. The root path is "/". See utils/pluginpath for validation helpers.
type PluginPath string

// String returns the path as a plain string.
func (p PluginPath) String() string {
	return string(p)
}
