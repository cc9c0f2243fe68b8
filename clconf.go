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

package clconf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/builder"
	"dirpx.dev/clconf/config"
	"dirpx.dev/clconf/confloader"
	"dirpx.dev/clconf/descriptor"
	"dirpx.dev/clconf/kernel"
	"dirpx.dev/clconf/logging"
	"dirpx.dev/clconf/utils/pluginpath"
)

// init publishes the default state and performs the static registration:
// the generic kernel block factory and the OpenCL conf loader.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.bld = b
	s.log = newLogger(s.cfg)
	if err := install(s.reg, s.cfg); err != nil {
		panic(err)
	}
	st.Store(s)
}

// ErrNilRegistry is returned when a builder returns a nil registry.
var ErrNilRegistry = errors.New("clconf: builder returned nil registry")

// Load registers the OpenCL block described by conf into the global
// registry and returns the installed plugin paths. It is the callable the
// static registration installs at the conf loader path.
func Load(conf map[string]string) ([]apis.PluginPath, error) {
	s := st.Load()
	l := confloader.New(s.reg, s.cfg,
		confloader.WithParser(func() apis.DocParser { return s.bld.BuildParser(s.cfg) }),
		confloader.WithLogger(s.log),
	)
	return l.Load(conf)
}

// Scan loads the descriptor files under paths through the conf loaders in
// the global registry. See descriptor.Scanner.Scan.
func Scan(ctx context.Context, paths ...string) ([]apis.PluginPath, error) {
	s := st.Load()
	sc := descriptor.NewScanner(s.reg,
		descriptor.WithLoaderPrefix(pluginpath.Parent(s.cfg.ConfLoaderPath)),
		descriptor.WithLogger(s.log),
	)
	return sc.Scan(ctx, paths...)
}

// Install performs the static registration into a host-owned registry
// using the current global configuration. The conf loader it installs
// still loads into the global registry.
func Install(reg apis.Registry) error {
	if reg == nil {
		return ErrNilRegistry
	}
	return install(reg, st.Load().cfg)
}

// install performs the static registration into reg. Plugins already
// present, for example migrated from a previous registry, are kept.
func install(reg apis.Registry, cfg apis.Config) error {
	if !reg.Exists(cfg.KernelFactoryPath) {
		if err := kernel.Register(reg, cfg.KernelFactoryPath); err != nil {
			return err
		}
	}
	if !reg.Exists(cfg.ConfLoaderPath) {
		if err := reg.AddCall(cfg.ConfLoaderPath, apis.ConfLoader(Load).Call); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(cfg apis.Config) *zap.Logger {
	level := cfg.LogLevel
	if !logging.ValidLevel(level) {
		level = config.DefaultLogLevel
	}
	return logging.New("clconf", level)
}

// SetAll explicitly sets all global state components.
//
// A nil cfg or bld leaves the corresponding component unchanged. A nil reg
// makes the builder build a fresh one and unpins it; a non-nil reg is pinned.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := true
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, nil)
		npreg = false
	}
	publish(ncfg, nreg, nbld, npreg)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg. An unpinned registry is
// rebuilt, migrating its plugins, and the static registration is repeated
// for the new paths.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = old.bld.BuildRegistry(cfg, old.reg)
	}
	publish(cfg, nreg, old.bld, old.preg)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global registry to reg and pins it. The static
// registration is performed into reg for any plugin it lacks.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old.cfg, reg, old.bld, true)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds an unpinned registry
// with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg)
	}
	publish(old.cfg, nreg, b, old.preg)
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return st.Load().log
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops configuration and builder changes from rebuilding the
// global registry.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg, bld: old.bld, log: old.log, preg: true})
}

// UnpinRegistry lets configuration and builder changes rebuild the global
// registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg, bld: old.bld, log: old.log, preg: false})
}

// publish installs the static plugins into reg and stores the new state.
// Callers hold buildMu.
func publish(cfg apis.Config, reg apis.Registry, bld apis.Builder, preg bool) {
	if reg == nil {
		panic(ErrNilRegistry)
	}
	log := newLogger(cfg)
	if err := install(reg, cfg); err != nil {
		log.Error("StaticRegistrationFailed", zap.Error(err))
	}
	st.Store(&state{cfg: cfg, reg: reg, bld: bld, log: log, preg: preg})
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global plugin registry.
	reg apis.Registry
	// bld builds registries and doc parsers.
	bld apis.Builder
	// log is the loader's named logger.
	log *zap.Logger
	// preg indicates whether the reg is pinned.
	preg bool
}
