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

package config_test

import (
	"flag"
	"testing"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.BlocksPrefix != config.DefaultBlocksPrefix {
		t.Fatalf("BlocksPrefix = %q, want %q", got.BlocksPrefix, config.DefaultBlocksPrefix)
	}
	if got.DocsPrefix != config.DefaultDocsPrefix {
		t.Fatalf("DocsPrefix = %q, want %q", got.DocsPrefix, config.DefaultDocsPrefix)
	}
	if got.KernelFactoryPath != "/blocks/blocks/opencl_kernel" {
		t.Fatalf("KernelFactoryPath = %q, want /blocks/blocks/opencl_kernel", got.KernelFactoryPath)
	}
	if got.ConfLoaderPath != "/framework/conf_loader/opencl" {
		t.Fatalf("ConfLoaderPath = %q, want /framework/conf_loader/opencl", got.ConfLoaderPath)
	}
	if got.StrictFactory != config.DefaultStrictFactory {
		t.Fatalf("StrictFactory = %v, want %v", got.StrictFactory, config.DefaultStrictFactory)
	}
	if got.LogLevel != config.DefaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", got.LogLevel, config.DefaultLogLevel)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithStrictFactory(t *testing.T) {
	c := config.NewConfig(config.WithStrictFactory(false))
	if c.StrictFactory {
		t.Fatalf("StrictFactory = %v, want false", c.StrictFactory)
	}

	c2 := config.NewConfig(config.WithStrictFactory(true))
	if !c2.StrictFactory {
		t.Fatalf("StrictFactory = %v, want true", c2.StrictFactory)
	}
}

func TestPathOptions_EmptyResetsToDefault(t *testing.T) {
	c := config.NewConfig(
		config.WithBlocksPrefix("/b"),
		config.WithDocsPrefix("/b/d"),
		config.WithKernelFactoryPath("/b/k"),
		config.WithConfLoaderPath("/f/l"),
	)
	want := apis.Config{
		BlocksPrefix:      "/b",
		DocsPrefix:        "/b/d",
		KernelFactoryPath: "/b/k",
		ConfLoaderPath:    "/f/l",
		StrictFactory:     config.DefaultStrictFactory,
		LogLevel:          config.DefaultLogLevel,
	}
	if c != want {
		t.Fatalf("NewConfig(...) = %+v, want %+v", c, want)
	}

	reset := config.NewConfig(
		config.WithBlocksPrefix(""),
		config.WithDocsPrefix(""),
		config.WithKernelFactoryPath(""),
		config.WithConfLoaderPath(""),
		config.WithLogLevel(""),
	)
	if reset != config.DefaultConfig() {
		t.Fatalf("empty options = %+v, want default %+v", reset, config.DefaultConfig())
	}
}

func TestOptions_Order_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithLogLevel("debug"),
		config.WithStrictFactory(false),
		config.WithLogLevel("error"),
		config.WithStrictFactory(true),
	)
	if c.LogLevel != "error" || !c.StrictFactory {
		t.Fatalf("last-wins failed: got %+v", c)
	}
}

func TestBindFlags(t *testing.T) {
	c := config.DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.BindFlags(fs, &c)

	err := fs.Parse([]string{
		"-docs-prefix", "/x/docs",
		"-strict-factory=false",
		"-log-level", "debug",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.DocsPrefix != "/x/docs" {
		t.Fatalf("DocsPrefix = %q, want /x/docs", c.DocsPrefix)
	}
	if c.StrictFactory {
		t.Fatalf("StrictFactory = true, want false")
	}
	if c.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", c.LogLevel)
	}
	if c.BlocksPrefix != config.DefaultBlocksPrefix {
		t.Fatalf("BlocksPrefix = %q, want default", c.BlocksPrefix)
	}
}
