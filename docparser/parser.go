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

// Package docparser parses block documentation written in the annotated-comment
// dialect and turns each documented factory into an ordered JSON descriptor.
//
// A documentation block lives inside a C-style comment and starts with a
// |PothosDoc line naming the block:
//
//	/***********************************************************************
//	 * |PothosDoc Adder
//	 * Adds two streams.
//	 *
//	 * |category /Math
//	 * |keyword add
//	 *
//	 * |param gain[Gain] Multiplier applied to the sum.
//	 * |default 1.0
//	 *
//	 * |factory /math/adder(gain)
//	 * |setter setGain(gain)
//	 **********************************************************************/
//
// Plain text lines become paragraphs: of the block docs when they follow the
// header, or of a parameter's description when they follow a |param line.
// An empty line ends a paragraph.
package docparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"

	"dirpx.dev/clconf/apis"
)

var (
	// ErrUnknownDirective is returned for a |directive the dialect does not define.
	ErrUnknownDirective = errors.New("clconf(docparser): unknown directive")
	// ErrMalformed is returned for a directive with a missing or unparsable payload.
	ErrMalformed = errors.New("clconf(docparser): malformed directive")
	// ErrOrphanDirective is returned for a parameter directive with no preceding |param.
	ErrOrphanDirective = errors.New("clconf(docparser): directive outside of |param")
	// ErrMissingFactory is returned when a documentation block has no |factory line.
	ErrMissingFactory = errors.New("clconf(docparser): missing |factory")
	// ErrDuplicateFactory is returned when a factory path is documented twice.
	ErrDuplicateFactory = errors.New("clconf(docparser): duplicate factory")
	// ErrDuplicateParam is returned when a block declares the same param key twice.
	ErrDuplicateParam = errors.New("clconf(docparser): duplicate param")
	// ErrUnknownParam is returned when a factory or call argument names no declared param.
	ErrUnknownParam = errors.New("clconf(docparser): unknown param")
	// ErrUnterminatedComment is returned when a comment is opened but never closed.
	ErrUnterminatedComment = errors.New("clconf(docparser): unterminated comment")
	// ErrUnknownFactory is returned by GetJSONObject for an undocumented factory.
	ErrUnknownFactory = errors.New("clconf(docparser): unknown factory")
)

// Parser accumulates block descriptors across FeedStream calls.
// It is not safe for concurrent use.
type Parser struct {
	order []string
	docs  map[string]*orderedmap.OrderedMap
}

// Ensure Parser implements apis.DocParser.
var _ apis.DocParser = (*Parser)(nil)

// New returns an empty Parser.
func New() *Parser {
	return &Parser{docs: make(map[string]*orderedmap.OrderedMap)}
}

// FeedStream parses every comment in r and records the documented factories.
// On error, factories parsed from earlier comments in r remain recorded.
func (p *Parser) FeedStream(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	text := string(data)
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			return nil
		}
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			return ErrUnterminatedComment
		}
		body := text[start+2 : start+2+end]
		text = text[start+2+end+2:]

		if err := p.parseComment(body); err != nil {
			return err
		}
	}
}

// ListFactories returns the documented factory paths in input order.
func (p *Parser) ListFactories() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// GetJSONObject returns the descriptor documented for factory.
func (p *Parser) GetJSONObject(factory string) (*orderedmap.OrderedMap, error) {
	obj, ok := p.docs[factory]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFactory, factory)
	}
	return obj, nil
}

// parseComment walks one comment body line by line. A comment may hold
// several documentation blocks; each |PothosDoc starts a new one.
func (p *Parser) parseComment(body string) error {
	var b *block
	for _, raw := range strings.Split(body, "\n") {
		line := cleanLine(raw)

		if strings.HasPrefix(line, "|PothosDoc") {
			if b != nil {
				if err := p.commit(b); err != nil {
					return err
				}
			}
			_, title := splitDirective(line)
			if title == "" {
				return fmt.Errorf("%w: |PothosDoc without a title", ErrMalformed)
			}
			b = newBlock(title)
			continue
		}
		if b == nil {
			// Text before the first |PothosDoc is not documentation.
			continue
		}
		if err := b.feed(line); err != nil {
			return fmt.Errorf("%w (in %q)", err, b.title)
		}
	}
	if b != nil {
		return p.commit(b)
	}
	return nil
}

func (p *Parser) commit(b *block) error {
	b.flush()
	if b.factory == nil {
		return fmt.Errorf("%w: %q", ErrMissingFactory, b.title)
	}
	if err := b.checkArgs(); err != nil {
		return err
	}
	path := b.factory.name
	if _, dup := p.docs[path]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateFactory, path)
	}
	p.docs[path] = b.toJSON()
	p.order = append(p.order, path)
	return nil
}

// cleanLine strips comment decoration: surrounding whitespace and the
// leading run of '*' continuation characters.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "*")
	return strings.TrimSpace(s)
}

// splitDirective splits "|name payload" into ("|name", "payload").
func splitDirective(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
