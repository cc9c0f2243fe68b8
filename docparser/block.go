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

package docparser

import (
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// block is the in-progress description of one documented factory.
type block struct {
	title      string
	docs       []string
	categories []string
	keywords   []string
	params     []*param
	calls      []*call
	factory    *call

	para []string
	cur  *param
}

type param struct {
	key     string
	name    string
	desc    []string
	def     *string
	units   string
	widget  string
	preview string
	tab     string
	options []option
}

type option struct {
	name  string
	value string
}

// call is a factory, setter or initializer declaration: name(arg, arg).
type call struct {
	kind string
	name string
	args []string
}

func newBlock(title string) *block {
	return &block{title: title}
}

// feed consumes one cleaned line.
func (b *block) feed(line string) error {
	if line == "" {
		b.flush()
		return nil
	}
	if !strings.HasPrefix(line, "|") {
		b.para = append(b.para, line)
		return nil
	}

	b.flush()
	dir, payload := splitDirective(line)

	switch dir {
	case "|category":
		b.cur = nil
		if payload == "" {
			return fmt.Errorf("%w: empty |category", ErrMalformed)
		}
		b.categories = append(b.categories, payload)

	case "|keyword":
		b.cur = nil
		if payload == "" {
			return fmt.Errorf("%w: empty |keyword", ErrMalformed)
		}
		b.keywords = append(b.keywords, payload)

	case "|param":
		prm, rest, err := parseParam(payload)
		if err != nil {
			return err
		}
		for _, existing := range b.params {
			if existing.key == prm.key {
				return fmt.Errorf("%w: %s", ErrDuplicateParam, prm.key)
			}
		}
		b.params = append(b.params, prm)
		b.cur = prm
		if rest != "" {
			b.para = append(b.para, rest)
		}

	case "|default", "|units", "|widget", "|preview", "|tab", "|option":
		if b.cur == nil {
			return fmt.Errorf("%w: %s", ErrOrphanDirective, dir)
		}
		return b.cur.set(dir, payload)

	case "|factory":
		b.cur = nil
		if b.factory != nil {
			return fmt.Errorf("%w: second |factory %s", ErrMalformed, payload)
		}
		c, err := parseCall("factory", payload)
		if err != nil {
			return err
		}
		b.factory = c

	case "|setter", "|initializer":
		b.cur = nil
		c, err := parseCall(strings.TrimPrefix(dir, "|"), payload)
		if err != nil {
			return err
		}
		b.calls = append(b.calls, c)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownDirective, dir)
	}
	return nil
}

// flush closes the pending paragraph, attaching it to the current param or to
// the block docs.
func (b *block) flush() {
	if len(b.para) == 0 {
		return
	}
	text := strings.Join(b.para, " ")
	b.para = nil
	if b.cur != nil {
		b.cur.desc = append(b.cur.desc, text)
		return
	}
	b.docs = append(b.docs, text)
}

// checkArgs verifies that every factory and call argument names a declared param.
func (b *block) checkArgs() error {
	keys := make(map[string]struct{}, len(b.params))
	for _, p := range b.params {
		keys[p.key] = struct{}{}
	}
	for _, c := range append([]*call{b.factory}, b.calls...) {
		for _, a := range c.args {
			if _, ok := keys[a]; !ok {
				return fmt.Errorf("%w: %s in %s %s", ErrUnknownParam, a, c.kind, c.name)
			}
		}
	}
	return nil
}

func (p *param) set(dir, payload string) error {
	switch dir {
	case "|default":
		if payload == "" {
			return fmt.Errorf("%w: empty |default for %s", ErrMalformed, p.key)
		}
		p.def = &payload
	case "|units":
		p.units = payload
	case "|widget":
		p.widget = payload
	case "|preview":
		p.preview = payload
	case "|tab":
		p.tab = payload
	case "|option":
		opt, err := parseOption(payload)
		if err != nil {
			return err
		}
		p.options = append(p.options, opt)
	}
	return nil
}

// parseParam parses "key[Display Name] first description line".
// Without brackets the display name is the key.
func parseParam(payload string) (*param, string, error) {
	if payload == "" {
		return nil, "", fmt.Errorf("%w: empty |param", ErrMalformed)
	}
	head, rest := payload, ""
	if i := strings.IndexAny(payload, " \t["); i >= 0 {
		head, rest = payload[:i], payload[i:]
	}
	prm := &param{key: head, name: head}
	if !isIdent(prm.key) {
		return nil, "", fmt.Errorf("%w: bad param key %q", ErrMalformed, prm.key)
	}
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, "", fmt.Errorf("%w: unclosed name for param %s", ErrMalformed, prm.key)
		}
		prm.name = strings.TrimSpace(rest[1:end])
		rest = rest[end+1:]
	}
	return prm, strings.TrimSpace(rest), nil
}

// parseOption parses "[Display Name] value" or a bare "value".
func parseOption(payload string) (option, error) {
	if payload == "" {
		return option{}, fmt.Errorf("%w: empty |option", ErrMalformed)
	}
	if !strings.HasPrefix(payload, "[") {
		return option{name: payload, value: payload}, nil
	}
	end := strings.IndexByte(payload, ']')
	if end < 0 {
		return option{}, fmt.Errorf("%w: unclosed |option name", ErrMalformed)
	}
	opt := option{
		name:  strings.TrimSpace(payload[1:end]),
		value: strings.TrimSpace(payload[end+1:]),
	}
	if opt.value == "" {
		return option{}, fmt.Errorf("%w: |option %q has no value", ErrMalformed, opt.name)
	}
	return opt, nil
}

// parseCall parses "name(arg0, arg1)". Parentheses are optional when there
// are no arguments.
func parseCall(kind, payload string) (*call, error) {
	c := &call{kind: kind, name: payload}
	if i := strings.IndexByte(payload, '('); i >= 0 {
		if !strings.HasSuffix(payload, ")") {
			return nil, fmt.Errorf("%w: unclosed argument list in |%s %s", ErrMalformed, kind, payload)
		}
		c.name = strings.TrimSpace(payload[:i])
		for _, a := range strings.Split(payload[i+1:len(payload)-1], ",") {
			if a = strings.TrimSpace(a); a != "" {
				c.args = append(c.args, a)
			}
		}
	}
	if c.name == "" {
		return nil, fmt.Errorf("%w: |%s without a name", ErrMalformed, kind)
	}
	return c, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// toJSON renders the block with a fixed key order:
// name, path, args, keywords, categories, calls, params, docs.
func (b *block) toJSON() *orderedmap.OrderedMap {
	obj := orderedmap.New()
	obj.Set("name", b.title)
	obj.Set("path", b.factory.name)
	obj.Set("args", nonNil(b.factory.args))
	obj.Set("keywords", nonNil(b.keywords))
	obj.Set("categories", nonNil(b.categories))

	calls := make([]*orderedmap.OrderedMap, 0, len(b.calls))
	for _, c := range b.calls {
		o := orderedmap.New()
		o.Set("type", c.kind)
		o.Set("name", c.name)
		o.Set("args", nonNil(c.args))
		calls = append(calls, o)
	}
	obj.Set("calls", calls)

	params := make([]*orderedmap.OrderedMap, 0, len(b.params))
	for _, p := range b.params {
		params = append(params, p.toJSON())
	}
	obj.Set("params", params)
	obj.Set("docs", nonNil(b.docs))
	return obj
}

func (p *param) toJSON() *orderedmap.OrderedMap {
	o := orderedmap.New()
	o.Set("key", p.key)
	o.Set("name", p.name)
	o.Set("desc", nonNil(p.desc))
	if p.def != nil {
		o.Set("default", *p.def)
	}
	if p.units != "" {
		o.Set("units", p.units)
	}
	if p.widget != "" {
		o.Set("widget", p.widget)
	}
	if p.preview != "" {
		o.Set("preview", p.preview)
	}
	if p.tab != "" {
		o.Set("tab", p.tab)
	}
	if len(p.options) > 0 {
		opts := make([]*orderedmap.OrderedMap, 0, len(p.options))
		for _, opt := range p.options {
			oo := orderedmap.New()
			oo.Set("name", opt.name)
			oo.Set("value", opt.value)
			opts = append(opts, oo)
		}
		o.Set("options", opts)
	}
	return o
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
