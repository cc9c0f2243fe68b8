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

// Program clconf loads OpenCL block descriptors and reports what they register.
//
//	clconf [flags] <file or directory>...
//
// Every flag can also be set through the environment with the CLCONF_ prefix,
// for example CLCONF_LOG_LEVEL=debug.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/burdiyan/go/mainutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/peterbourgon/ff/v4"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"

	"dirpx.dev/clconf"
	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/config"
	"dirpx.dev/clconf/logging"
)

func main() {
	const envVarPrefix = "CLCONF"

	mainutil.Run(func() error {
		ctx := mainutil.TrapSignals()

		fs := flag.NewFlagSet("clconf", flag.ExitOnError)

		cfg := config.DefaultConfig()
		config.BindFlags(fs, &cfg)
		showDocs := fs.Bool("docs", false, "Print the JSON documentation of each loaded block.")
		deviceID := fs.String("instantiate", "", "Construct each loaded block on this device (e.g. 0:0) and dump it.")
		listLoggers := fs.Bool("loggers", false, "Print the named loggers and their levels, then exit.")

		err := ff.Parse(fs, slices.Clone(os.Args[1:]), ff.WithEnvVarPrefix(envVarPrefix))
		if err != nil {
			if errors.Is(err, ff.ErrHelp) {
				fs.Usage()
				return nil
			}

			return err
		}

		clconf.SetConfig(cfg)

		if *listLoggers {
			printLoggers(os.Stdout)
			return nil
		}

		if fs.NArg() == 0 {
			fs.Usage()
			return errors.New("no descriptor files or directories given")
		}

		log := clconf.Logger()

		paths, scanErr := clconf.Scan(ctx, fs.Args()...)
		if scanErr != nil {
			log.Warn("ScanIncomplete", zap.Error(scanErr))
		}

		printTable(os.Stdout, cfg, paths)

		if *showDocs {
			if err := printDocs(os.Stdout, cfg, paths); err != nil {
				return err
			}
		}

		if *deviceID != "" {
			if err := instantiate(cfg, paths, *deviceID); err != nil {
				return err
			}
		}

		return scanErr
	})
}

func kindOf(cfg apis.Config, p apis.PluginPath) string {
	if strings.HasPrefix(string(p), string(cfg.DocsPrefix)+"/") {
		return "docs"
	}
	return "factory"
}

func printTable(w io.Writer, cfg apis.Config, paths []apis.PluginPath) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Plugin", "Kind"})
	for i, p := range paths {
		tw.AppendRow(table.Row{i + 1, p, kindOf(cfg, p)})
	}
	tw.AppendFooter(table.Row{"", "Total", len(paths)})
	tw.Render()
}

func printLoggers(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Logger", "Level"})
	for _, name := range logging.ListLogNames() {
		tw.AppendRow(table.Row{name, logging.GetLogLevel(name).String()})
	}
	tw.Render()
}

func printDocs(w io.Writer, cfg apis.Config, paths []apis.PluginPath) error {
	reg := clconf.Registry()
	for _, p := range paths {
		if kindOf(cfg, p) != "docs" {
			continue
		}
		plug, err := reg.Get(p)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(plug.Object, "", "  ")
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		fmt.Fprintf(w, "%s\n%s\n", p, data)
	}
	return nil
}

// blockSummary is what gets dumped for an instantiated block.
type blockSummary struct {
	Plugin           apis.PluginPath
	Name             string
	Device           any
	Kernel           any
	Source           any
	LocalSize        any
	GlobalFactor     any
	ProductionFactor any
}

func instantiate(cfg apis.Config, paths []apis.PluginPath, deviceID string) error {
	reg := clconf.Registry()
	dump := litter.Config
	dump.HidePrivateFields = true

	for _, p := range paths {
		if kindOf(cfg, p) != "factory" {
			continue
		}
		plug, err := reg.Get(p)
		if err != nil {
			return err
		}
		factory, ok := plug.Callable()
		if !ok {
			return fmt.Errorf("%s is not a factory", p)
		}
		out, err := factory(deviceID)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		blk, ok := out.(apis.Block)
		if !ok {
			return fmt.Errorf("%s returned %T", p, out)
		}

		s := blockSummary{Plugin: p, Name: blk.Name()}
		for _, g := range []struct {
			dst    *any
			method string
		}{
			{&s.Device, "getDeviceId"},
			{&s.Kernel, "getKernelName"},
			{&s.Source, "getSource"},
			{&s.LocalSize, "getLocalSize"},
			{&s.GlobalFactor, "getGlobalFactor"},
			{&s.ProductionFactor, "getProductionFactor"},
		} {
			v, err := blk.Call(g.method)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", p, g.method, err)
			}
			*g.dst = v
		}
		dump.Dump(s)
	}
	return nil
}
