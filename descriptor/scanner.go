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

package descriptor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/utils/pluginpath"
)

// DefaultLoaderPrefix is where conf loaders are registered, one per loader name.
const DefaultLoaderPrefix apis.PluginPath = "/framework/conf_loader"

var (
	// ErrNoLoader is returned for a section without a loader key.
	ErrNoLoader = errors.New("clconf(descriptor): section has no loader")
	// ErrBadLoaderResult is returned when a conf loader returns something other than plugin paths.
	ErrBadLoaderResult = errors.New("clconf(descriptor): conf loader returned unexpected result")
)

// Scanner dispatches descriptor sections to the conf loaders in a registry.
type Scanner struct {
	reg    apis.Registry
	prefix apis.PluginPath
	log    *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLoaderPrefix sets where conf loaders are looked up.
func WithLoaderPrefix(p apis.PluginPath) Option {
	return func(s *Scanner) {
		if p != "" {
			s.prefix = p
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScanner returns a Scanner dispatching through reg.
func NewScanner(reg apis.Registry, opts ...Option) *Scanner {
	s := &Scanner{reg: reg, prefix: DefaultLoaderPrefix, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan loads every descriptor under paths. A path may be a file or a
// directory; directories are walked in lexical order and files without a
// descriptor extension are skipped. A failing file or section does not stop
// the scan: its error is collected and the rest is still loaded. The
// returned paths are those installed by the successful sections, in order.
func (s *Scanner) Scan(ctx context.Context, paths ...string) ([]apis.PluginPath, error) {
	var (
		out  []apis.PluginPath
		errs error
	)
	for _, root := range paths {
		files, err := collect(root)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return out, multierr.Append(errs, err)
			}
			got, err := s.ScanFile(f)
			out = append(out, got...)
			errs = multierr.Append(errs, err)
		}
	}
	return out, errs
}

// ScanFile loads every section of one descriptor file.
func (s *Scanner) ScanFile(path string) ([]apis.PluginPath, error) {
	secs, err := ReadFile(path)
	if err != nil {
		s.log.Warn("DescriptorFailed", zap.String("file", path), zap.Error(err))
		return nil, err
	}

	var (
		out  []apis.PluginPath
		errs error
	)
	for _, sec := range secs {
		got, err := s.Load(sec)
		if err != nil {
			err = fmt.Errorf("%s [%s]: %w", sec.File, sec.Name, err)
			s.log.Warn("DescriptorFailed",
				zap.String("file", sec.File),
				zap.String("section", sec.Name),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, got...)
	}
	return out, errs
}

// Load dispatches one section to the conf loader named by its loader key.
func (s *Scanner) Load(sec Section) ([]apis.PluginPath, error) {
	name, ok := sec.Conf["loader"]
	if !ok || name == "" {
		return nil, ErrNoLoader
	}

	p, err := s.reg.Get(pluginpath.Join(s.prefix, name))
	if err != nil {
		return nil, err
	}
	call, ok := p.Callable()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrBadLoaderResult, p.Path, p.Object)
	}

	res, err := call(sec.Conf)
	if err != nil {
		return nil, err
	}
	paths, ok := res.([]apis.PluginPath)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrBadLoaderResult, res)
	}

	s.log.Debug("DescriptorLoaded",
		zap.String("file", sec.File),
		zap.String("section", sec.Name),
		zap.String("loader", name),
		zap.Int("plugins", len(paths)),
	)
	return paths, nil
}

// collect expands root into the descriptor files to load.
func collect(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
