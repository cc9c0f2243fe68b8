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

package confloader

import (
	"errors"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/invopop/validation"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"dirpx.dev/clconf/apis"
	"dirpx.dev/clconf/utils/pluginpath"
)

// Descriptor keys.
const (
	keyConfFilePath     = "confFilePath"
	keySource           = "source"
	keyKernelName       = "kernel_name"
	keyInputTypes       = "input_types"
	keyOutputTypes      = "output_types"
	keyFactory          = "factory"
	keyLocalSize        = "local_size"
	keyGlobalFactor     = "global_factor"
	keyProductionFactor = "production_factor"
	keyBlockName        = "block_name"
	keyCategories       = "categories"
	keyKeywords         = "keywords"
	keyDescription      = "description"
	keyLoader           = "loader"
)

// rawConf mirrors the descriptor map. A nil field means the key is absent.
type rawConf struct {
	ConfFilePath     *string `conf:"confFilePath"`
	Source           *string `conf:"source"`
	KernelName       *string `conf:"kernel_name"`
	InputTypes       *string `conf:"input_types"`
	OutputTypes      *string `conf:"output_types"`
	Factory          *string `conf:"factory"`
	LocalSize        *string `conf:"local_size"`
	GlobalFactor     *string `conf:"global_factor"`
	ProductionFactor *string `conf:"production_factor"`
	BlockName        *string `conf:"block_name"`
	Categories       *string `conf:"categories"`
	Keywords         *string `conf:"keywords"`
	Description      *string `conf:"description"`
	// Loader is consumed by the scanner that dispatched the descriptor.
	Loader *string `conf:"loader"`
}

var knownKeys = []string{
	keyConfFilePath, keySource, keyKernelName, keyInputTypes, keyOutputTypes,
	keyFactory, keyLocalSize, keyGlobalFactor, keyProductionFactor,
	keyBlockName, keyCategories, keyKeywords, keyDescription, keyLoader,
}

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	slashRe = regexp.MustCompile(`^/`)
)

// reader turns a descriptor map into typed arguments.
type reader struct {
	strictFactory bool
	log           *zap.Logger
}

// read validates conf. Presence of the required keys is checked first, in
// declaration order; then kernel_name and factory values; then the source
// path; then the optional integers; then the values rendered into the
// documentation block.
func (r reader) read(conf map[string]string) (FactoryArgs, BlockDescriptionArgs, string, error) {
	var (
		fa  FactoryArgs
		da  BlockDescriptionArgs
		raw rawConf
		md  mapstructure.Metadata
	)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "conf",
		Metadata: &md,
		Result:   &raw,
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return fa, da, "", err
	}
	if err := dec.Decode(conf); err != nil {
		return fa, da, "", err
	}
	r.reportUnused(md.Unused)

	required := []struct {
		key string
		val *string
	}{
		{keyConfFilePath, raw.ConfFilePath},
		{keySource, raw.Source},
		{keyKernelName, raw.KernelName},
		{keyInputTypes, raw.InputTypes},
		{keyOutputTypes, raw.OutputTypes},
		{keyFactory, raw.Factory},
	}
	for _, f := range required {
		if f.val == nil {
			return fa, da, "", missingField(f.key)
		}
	}

	if err := validation.Validate(*raw.KernelName, validation.Required, validation.Match(identRe)); err != nil {
		return fa, da, "", invalidField(keyKernelName, *raw.KernelName, err)
	}
	factory := *raw.Factory
	if r.strictFactory {
		err := validation.Validate(factory,
			validation.Required,
			validation.Match(slashRe),
			validation.By(validPluginPath),
		)
		if err != nil {
			return fa, da, "", invalidField(keyFactory, factory, err)
		}
	}

	src, err := ResolveSource(*raw.ConfFilePath, *raw.Source)
	if err != nil {
		return fa, da, "", err
	}

	fa.Source = src
	fa.KernelName = *raw.KernelName
	fa.InputTypes = Tokenize(*raw.InputTypes)
	fa.OutputTypes = Tokenize(*raw.OutputTypes)

	tunables := []struct {
		key string
		val *string
		dst *Optional[uint64]
	}{
		{keyLocalSize, raw.LocalSize, &fa.LocalSize},
		{keyGlobalFactor, raw.GlobalFactor, &fa.GlobalFactor},
		{keyProductionFactor, raw.ProductionFactor, &fa.ProductionFactor},
	}
	for _, t := range tunables {
		if t.val == nil {
			continue
		}
		n, err := ParseUint(*t.val)
		if err == nil && n == 0 {
			err = errZeroTunable
		}
		if err != nil {
			return fa, da, "", invalidField(t.key, *t.val, err)
		}
		*t.dst = Some(n)
	}

	da.BlockName = fa.KernelName
	if raw.BlockName != nil && strings.TrimSpace(*raw.BlockName) != "" {
		if err := docLine(*raw.BlockName); err != nil {
			return fa, da, "", invalidField(keyBlockName, *raw.BlockName, err)
		}
		da.BlockName = strings.TrimSpace(*raw.BlockName)
	}
	if raw.Categories != nil {
		da.Categories = Tokenize(*raw.Categories)
		if err := docLines(da.Categories); err != nil {
			return fa, da, "", invalidField(keyCategories, *raw.Categories, err)
		}
	} else {
		base := filepath.Base(fa.Source)
		da.Categories = []string{strings.TrimSuffix(base, filepath.Ext(base))}
	}
	if raw.Keywords != nil {
		kw := Tokenize(*raw.Keywords)
		if err := docLines(kw); err != nil {
			return fa, da, "", invalidField(keyKeywords, *raw.Keywords, err)
		}
		da.Keywords = Some(kw)
	}
	if raw.Description != nil {
		if err := docParagraph(*raw.Description); err != nil {
			return fa, da, "", invalidField(keyDescription, *raw.Description, err)
		}
		da.Description = Some(*raw.Description)
	}

	return fa, da, factory, nil
}

// reportUnused logs keys no field consumed, with the closest known key.
func (r reader) reportUnused(keys []string) {
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields := []zap.Field{zap.String("key", k)}
		if m := fuzzy.Find(k, knownKeys); len(m) > 0 {
			fields = append(fields, zap.String("didYouMean", m[0].Str))
		}
		r.log.Debug("UnknownConfKey", fields...)
	}
}

func validPluginPath(v any) error {
	s, _ := v.(string)
	return pluginpath.Validate(apis.PluginPath(s))
}

var (
	errNotUnsigned = errors.New("not a non-negative decimal integer")
	errZeroTunable = errors.New("must be positive")
	errLineBreak   = errors.New("line break in a single-line value")
	errCommentEnd  = errors.New("contains */")
	errDirective   = errors.New("line starts with a | directive")
)

// docLine checks a value rendered on one documentation line.
func docLine(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return errLineBreak
	}
	if strings.Contains(s, "*/") {
		return errCommentEnd
	}
	return nil
}

func docLines(ss []string) error {
	for _, s := range ss {
		if err := docLine(s); err != nil {
			return err
		}
	}
	return nil
}

// docParagraph checks free text rendered as plain documentation lines: it
// must not close the comment or read as a directive once the comment
// decoration is stripped.
func docParagraph(s string) error {
	if strings.Contains(s, "*/") {
		return errCommentEnd
	}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
		if strings.HasPrefix(line, "|") {
			return errDirective
		}
	}
	return nil
}

// ParseUint parses a non-negative decimal integer. Surrounding whitespace is
// ignored; anything else, including a sign, is rejected.
func ParseUint(s string) (uint64, error) {
	t := strings.TrimSpace(s)
	if t == "" || t[0] == '+' || t[0] == '-' {
		return 0, errNotUnsigned
	}
	n, err := strconv.ParseUint(t, 10, 64)
	if err != nil {
		return 0, errNotUnsigned
	}
	return n, nil
}
