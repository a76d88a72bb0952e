// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package builder implements the command-line-style surface for
// assembling a Projection: scopes, glob patterns, explicit pairs and
// rekey-context transform chains, fed token by token in the order a
// shell would hand them to a process.
package builder

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/projection"
	"github.com/thinkgos/valuepairs/transform"
)

// rekeyState is the builder's one piece of carried-over state: either an
// unconsumed base key (from --key/--rekey, waiting to see whether a
// transform option follows) or an already-opened TransformSet accumulating
// steps. The two are mutually exclusive.
type rekeyState struct {
	key  string
	vpts *transform.Set
}

func (sf *rekeyState) open() bool { return sf.key != "" || sf.vpts != nil }

// Builder folds CLI-style tokens into a *projection.Projection one at a
// time: later tokens can flush state opened by earlier ones (a pending
// rekey context, for instance).
type Builder struct {
	proj   *projection.Projection
	engine host.TemplateEngine
	rekey  rekeyState
}

// New returns a Builder that accumulates into proj, compiling explicit-pair
// templates with engine.
func New(proj *projection.Projection, engine host.TemplateEngine) *Builder {
	return &Builder{proj: proj, engine: engine}
}

// ParseArgs feeds args through the grammar in order and returns the first
// error encountered, with the offending token attached. Any rekey context
// still open when args is exhausted is flushed before returning.
func (sf *Builder) ParseArgs(args []string) error {
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if !isFlag(tok) {
			if err := sf.parsePositional(tok); err != nil {
				return err
			}
			continue
		}

		name, value, hasValue := splitToken(tok)
		if !hasValue {
			i++
			if i >= len(args) {
				return errors.Errorf("option %s requires a value", tok)
			}
			value = args[i]
		}

		var err error
		switch name {
		case "--scope", "-s":
			err = sf.parseScope(value)
		case "--exclude", "-x":
			err = sf.parseExclude(value)
		case "--key", "-k":
			err = sf.parseKey(value)
		case "--rekey", "-r":
			err = sf.parseRekey(value)
		case "--pair", "-p":
			err = sf.parsePair(value)
		case "--shift", "-S":
			err = sf.parseShift(value)
		case "--add-prefix", "-A":
			err = sf.parseAddPrefix(value)
		case "--replace-prefix", "-R", "--replace":
			err = sf.parseReplacePrefix(value)
		default:
			err = errors.Errorf("unrecognized option %q", name)
		}
		if err != nil {
			return err
		}
	}
	sf.finishRekey()
	return nil
}

// finishRekey materializes any open TransformSet into the Projection's
// rename chain, or simply drops an unconsumed base key, and clears the
// rekey state either way.
func (sf *Builder) finishRekey() {
	if sf.rekey.vpts != nil {
		sf.proj.AddTransformSet(sf.rekey.vpts)
	}
	sf.rekey = rekeyState{}
}

// startRekey flushes whatever rekey context is open and opens a new one on
// key, without adding a glob pattern.
func (sf *Builder) startRekey(key string) {
	sf.finishRekey()
	sf.rekey.key = key
}

// rekeyVerify returns the currently open TransformSet, creating one from a
// pending base key on first use, or fails if no context is open at all.
func (sf *Builder) rekeyVerify(which string) (*transform.Set, error) {
	if sf.rekey.vpts == nil {
		if sf.rekey.key == "" {
			return nil, errors.Wrapf(ErrTransformWithoutRekeyContext, "--%s", which)
		}
		sf.rekey.vpts = transform.NewSet(sf.rekey.key)
		sf.rekey.key = ""
	}
	return sf.rekey.vpts, nil
}

func (sf *Builder) parsePositional(tok string) error {
	if strings.Contains(tok, "=") {
		return sf.parsePair(tok)
	}
	return sf.parseKey(tok)
}

func (sf *Builder) parseScope(value string) error {
	sf.finishRekey()
	for _, name := range strings.Split(value, ",") {
		if err := sf.proj.AddScopeName(name); err != nil {
			return errors.Wrapf(ErrUnknownScope, "%q", name)
		}
	}
	return nil
}

func (sf *Builder) parseExclude(value string) error {
	sf.finishRekey()
	for _, pattern := range strings.Split(value, ",") {
		if err := sf.proj.AddGlobPattern(pattern, false); err != nil {
			return errors.Wrapf(err, "exclude %q", pattern)
		}
	}
	return nil
}

func (sf *Builder) parseKey(value string) error {
	sf.startRekey(value)
	for _, pattern := range strings.Split(value, ",") {
		if err := sf.proj.AddGlobPattern(pattern, true); err != nil {
			return errors.Wrapf(err, "key %q", pattern)
		}
	}
	return nil
}

func (sf *Builder) parseRekey(value string) error {
	sf.startRekey(value)
	return nil
}

func (sf *Builder) parsePair(value string) error {
	sf.finishRekey()
	eq := strings.IndexByte(value, '=')
	if eq < 0 {
		return errors.Wrapf(ErrPairMissingEquals, "pair %q", value)
	}
	name, spec := value[:eq], value[eq+1:]
	rawValue, typeHint := parsePairType(spec)

	tmpl, err := sf.engine.Compile(rawValue)
	if err != nil {
		return errors.Wrapf(ErrTemplateCompileFailed, "pair %q: %v", name, err)
	}
	if typeHint != "" {
		if err := tmpl.SetTypeHint(typeHint); err != nil {
			return errors.Wrapf(ErrTemplateTypeHintInvalid, "pair %q: %v", name, err)
		}
	}
	sf.proj.AddPair(name, tmpl)
	return nil
}

func (sf *Builder) parseShift(value string) error {
	vpts, err := sf.rekeyVerify("shift")
	if err != nil {
		return err
	}
	vpts.Add(transform.Shift{N: atoiLenient(value)})
	return nil
}

func (sf *Builder) parseAddPrefix(value string) error {
	vpts, err := sf.rekeyVerify("add-prefix")
	if err != nil {
		return err
	}
	vpts.Add(transform.AddPrefix{S: value})
	return nil
}

func (sf *Builder) parseReplacePrefix(value string) error {
	vpts, err := sf.rekeyVerify("replace-prefix")
	if err != nil {
		return err
	}
	eq := strings.IndexByte(value, '=')
	if eq < 0 {
		return errors.Wrapf(ErrReplacePrefixMissingEquals, "replace-prefix %q", value)
	}
	vpts.Add(transform.ReplacePrefix{From: value[:eq], To: value[eq+1:]})
	return nil
}

// parsePairType splits spec into (value, typeHint) per the TYPE(VALUE)
// convention: TYPE matches [A-Za-z_][A-Za-z0-9_]*, optional whitespace,
// then '(' with the matching ')' as the very last byte of spec. Anything
// else leaves spec as the literal value with no type hint — this is an
// all-or-nothing match, never a partial one.
func parsePairType(spec string) (value, typeHint string) {
	if spec == "" {
		return spec, ""
	}
	if !isIdentStart(spec[0]) {
		return spec, ""
	}
	i := 0
	for i < len(spec) && isIdentRune(spec[i]) {
		i++
	}
	nameEnd := i
	for i < len(spec) && (spec[i] == ' ' || spec[i] == '\t') {
		i++
	}
	if i >= len(spec) || spec[i] != '(' {
		return spec, ""
	}
	closeIdx := strings.LastIndexByte(spec[i:], ')')
	if closeIdx < 0 {
		return spec, ""
	}
	closeIdx += i
	if closeIdx != len(spec)-1 {
		return spec, ""
	}
	return spec[i+1 : closeIdx], spec[:nameEnd]
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentRune(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// atoiLenient mirrors C's atoi: a non-numeric or empty value parses as 0
// rather than failing the option.
func atoiLenient(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// isFlag reports whether tok introduces an option rather than standing as
// a positional argument.
func isFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// splitToken separates a flag token into its name and, if present via
// "=" (long form) or direct concatenation (short form, "-kfoo"), its
// value.
func splitToken(tok string) (name, value string, hasValue bool) {
	if strings.HasPrefix(tok, "--") {
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			return tok[:eq], tok[eq+1:], true
		}
		return tok, "", false
	}
	if len(tok) > 2 {
		return tok[:2], tok[2:], true
	}
	return tok, "", false
}
