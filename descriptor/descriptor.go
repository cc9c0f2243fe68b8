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

// Package descriptor reads descriptor files and hands each section to the
// conf loader it names.
//
// Two encodings are accepted. INI-style files (.conf, .ini):
//
//	# comment
//	[my_kernel]
//	loader = opencl
//	source = k.cl
//	kernel_name = run
//
// and YAML files (.yaml, .yml) holding a mapping of section name to a flat
// mapping of keys to scalars:
//
//	my_kernel:
//	  loader: opencl
//	  source: k.cl
//	  local_size: 4
//
// Sections keep file order.
package descriptor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for a file whose extension names no known encoding.
	ErrUnsupportedFormat = errors.New("clconf(descriptor): unsupported descriptor format")
	// ErrSyntax is returned for a malformed descriptor file.
	ErrSyntax = errors.New("clconf(descriptor): syntax error")
)

// Section is one descriptor: a named, flat key/value map.
type Section struct {
	// File is the absolute path of the file the section came from.
	File string
	// Name is the section header; keys outside any header form the "" section.
	Name string
	// Conf holds the section's keys with confFilePath set to File.
	Conf map[string]string
}

// Supported reports whether path has a descriptor extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", ".ini", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile parses the descriptor file at path.
func ReadFile(path string) ([]Section, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	var secs []Section
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		secs, err = parseYAML(data)
	default:
		secs, err = parseINI(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}

	for i := range secs {
		secs[i].File = abs
		secs[i].Conf["confFilePath"] = abs
	}
	return secs, nil
}

func parseINI(data []byte) ([]Section, error) {
	var secs []Section
	cur := -1
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("%w: line %d: unclosed section header", ErrSyntax, n)
			}
			secs = append(secs, Section{
				Name: strings.TrimSpace(line[1 : len(line)-1]),
				Conf: map[string]string{},
			})
			cur = len(secs) - 1
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: line %d: expected key = value", ErrSyntax, n)
		}
		if cur < 0 {
			secs = append(secs, Section{Conf: map[string]string{}})
			cur = len(secs) - 1
		}
		secs[cur].Conf[key] = unquote(strings.TrimSpace(val))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return secs, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseYAML(data []byte) ([]Section, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping of sections", ErrSyntax, root.Line)
	}

	secs := make([]Section, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i], root.Content[i+1]
		var conf map[string]string
		if err := body.Decode(&conf); err != nil {
			return nil, fmt.Errorf("%w: section %q: %v", ErrSyntax, name.Value, err)
		}
		if conf == nil {
			conf = map[string]string{}
		}
		secs = append(secs, Section{Name: name.Value, Conf: conf})
	}
	return secs, nil
}
