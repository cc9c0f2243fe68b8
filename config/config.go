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

package config

import (
	"flag"

	"dirpx.dev/clconf/apis"
)

const (
	// DefaultBlocksPrefix is where block factories are installed.
	DefaultBlocksPrefix apis.PluginPath = "/blocks"
	// DefaultDocsPrefix is where block JSON descriptors are installed.
	DefaultDocsPrefix apis.PluginPath = "/blocks/docs"
	// DefaultKernelFactoryPath is the registry key of the generic OpenCL kernel block.
	DefaultKernelFactoryPath apis.PluginPath = "/blocks/blocks/opencl_kernel"
	// DefaultConfLoaderPath is the conf-loader dispatch path for "loader = opencl".
	DefaultConfLoaderPath apis.PluginPath = "/framework/conf_loader/opencl"
	// DefaultStrictFactory rejects factory values that would not concatenate
	// into a well-formed plugin path.
	DefaultStrictFactory = true
	// DefaultLogLevel is the level of the loader's logger.
	DefaultLogLevel = "info"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		BlocksPrefix:      DefaultBlocksPrefix,
		DocsPrefix:        DefaultDocsPrefix,
		KernelFactoryPath: DefaultKernelFactoryPath,
		ConfLoaderPath:    DefaultConfLoaderPath,
		StrictFactory:     DefaultStrictFactory,
		LogLevel:          DefaultLogLevel,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithBlocksPrefix sets the BlocksPrefix option.
// An empty prefix resets to the default.
func WithBlocksPrefix(p apis.PluginPath) Option {
	return func(c *apis.Config) {
		c.BlocksPrefix = orDefault(p, DefaultBlocksPrefix)
	}
}

// WithDocsPrefix sets the DocsPrefix option.
// An empty prefix resets to the default.
func WithDocsPrefix(p apis.PluginPath) Option {
	return func(c *apis.Config) {
		c.DocsPrefix = orDefault(p, DefaultDocsPrefix)
	}
}

// WithKernelFactoryPath sets the KernelFactoryPath option.
// An empty path resets to the default.
func WithKernelFactoryPath(p apis.PluginPath) Option {
	return func(c *apis.Config) {
		c.KernelFactoryPath = orDefault(p, DefaultKernelFactoryPath)
	}
}

// WithConfLoaderPath sets the ConfLoaderPath option.
// An empty path resets to the default.
func WithConfLoaderPath(p apis.PluginPath) Option {
	return func(c *apis.Config) {
		c.ConfLoaderPath = orDefault(p, DefaultConfLoaderPath)
	}
}

// WithStrictFactory sets the StrictFactory option.
func WithStrictFactory(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictFactory = strict
	}
}

// WithLogLevel sets the LogLevel option.
func WithLogLevel(level string) Option {
	return func(c *apis.Config) {
		if level == "" {
			level = DefaultLogLevel
		}
		c.LogLevel = level
	}
}

// BindFlags binds the fields of c to fs, using the current values of c as flag defaults.
func BindFlags(fs *flag.FlagSet, c *apis.Config) {
	fs.StringVar((*string)(&c.BlocksPrefix), "blocks-prefix", string(c.BlocksPrefix), "Registry prefix for block factories")
	fs.StringVar((*string)(&c.DocsPrefix), "docs-prefix", string(c.DocsPrefix), "Registry prefix for block JSON docs")
	fs.StringVar((*string)(&c.KernelFactoryPath), "kernel-factory", string(c.KernelFactoryPath), "Registry path of the generic OpenCL kernel block")
	fs.StringVar((*string)(&c.ConfLoaderPath), "conf-loader-path", string(c.ConfLoaderPath), "Registry path of the OpenCL conf loader")
	fs.BoolVar(&c.StrictFactory, "strict-factory", c.StrictFactory, "Reject factory values that are empty or not slash-prefixed")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log verbosity debug | info | warn | error")
}

func orDefault(p, def apis.PluginPath) apis.PluginPath {
	if p == "" {
		return def
	}
	return p
}
