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

// Package confloader registers OpenCL kernel blocks described by key/value
// descriptors.
//
// For each descriptor the loader validates the keys, renders a documentation
// block for the kernel, parses it into a JSON descriptor, and installs two
// plugins: a block factory under BlocksPrefix+factory and the JSON descriptor
// under DocsPrefix+factory. The factory specializes the generic kernel block
// found at KernelFactoryPath when it is called, not at load time.
package confloader

import (
	"strings"

	"go.uber.org/zap"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/docparser"
	"dirpx.dev/clconf/utils/pluginpath"
)

// Loader loads descriptors into a registry.
type Loader struct {
	reg       apis.Registry
	cfg       apis.Config
	newParser func() apis.DocParser
	log       *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithParser sets the constructor of the documentation parser. Each Load
// gets a fresh parser.
func WithParser(fn func() apis.DocParser) Option {
	return func(l *Loader) {
		if fn != nil {
			l.newParser = fn
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Loader writing into reg.
func New(reg apis.Registry, cfg apis.Config, opts ...Option) *Loader {
	l := &Loader{
		reg: reg,
		cfg: cfg,
		newParser: func() apis.DocParser {
			return docparser.New()
		},
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load registers the block described by conf and returns the installed
// plugin paths: the factory path first, then the docs path.
//
// Descriptor errors are *Error values and leave the registry untouched.
// Registry and parser errors are returned as they are; a failure on the docs
// write leaves the factory installed.
func (l *Loader) Load(conf map[string]string) ([]apis.PluginPath, error) {
	fa, da, factory, err := l.Read(conf)
	if err != nil {
		return nil, err
	}

	doc := GenerateDoc(fa, da, factory)
	parser := l.newParser()
	if err := parser.FeedStream(strings.NewReader(doc)); err != nil {
		return nil, err
	}
	obj, err := parser.GetJSONObject(factory)
	if err != nil {
		return nil, err
	}

	callPath := pluginpath.Concat(l.cfg.BlocksPrefix, factory)
	docPath := pluginpath.Concat(l.cfg.DocsPrefix, factory)

	if err := l.reg.AddCall(callPath, NewFactory(l.reg, l.cfg.KernelFactoryPath, factory, fa)); err != nil {
		return nil, err
	}
	if err := l.reg.Add(docPath, obj); err != nil {
		return nil, err
	}

	l.log.Debug("RegisteredBlock",
		zap.String("factory", factory),
		zap.String("kernel", fa.KernelName),
		zap.String("source", fa.Source),
		zap.Strings("inputTypes", fa.InputTypes),
		zap.Strings("outputTypes", fa.OutputTypes),
	)
	return []apis.PluginPath{callPath, docPath}, nil
}

// Read validates conf without touching the registry and returns the factory
// arguments, the documentation metadata and the factory path.
func (l *Loader) Read(conf map[string]string) (FactoryArgs, BlockDescriptionArgs, string, error) {
	rd := reader{strictFactory: l.cfg.StrictFactory, log: l.log}
	return rd.read(conf)
}

// Register installs a Loader for reg at cfg.ConfLoaderPath.
func Register(reg apis.Registry, cfg apis.Config, opts ...Option) (*Loader, error) {
	l := New(reg, cfg, opts...)
	if err := reg.AddCall(cfg.ConfLoaderPath, apis.ConfLoader(l.Load).Call); err != nil {
		return nil, err
	}
	return l, nil
}
