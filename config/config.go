// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package config loads a declarative ProjectionSpec from YAML, as an
// alternative to the builder's command-line-style token surface — the
// same accumulation operations, driven by a config file instead of argv.
package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/projection"
	"github.com/thinkgos/valuepairs/transform"
)

// PairSpec is one explicit key/value-template entry.
type PairSpec struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Type  string `yaml:"type,omitempty"`
}

// TransformStepSpec is one rekey-chain step; exactly one of Shift,
// AddPrefix or ReplacePrefix must be set.
type TransformStepSpec struct {
	Shift         *int   `yaml:"shift,omitempty"`
	AddPrefix     string `yaml:"add_prefix,omitempty"`
	ReplacePrefix string `yaml:"replace_prefix,omitempty"`
}

// TransformSetSpec is a rekey context: a base key plus its ordered steps.
type TransformSetSpec struct {
	Key   string              `yaml:"key"`
	Steps []TransformStepSpec `yaml:"steps"`
}

// ProjectionSpec is the declarative, file-based equivalent of a sequence
// of builder tokens.
type ProjectionSpec struct {
	Scopes     []string           `yaml:"scopes"`
	Include    []string           `yaml:"include"`
	Exclude    []string           `yaml:"exclude"`
	Pairs      []PairSpec         `yaml:"pairs"`
	Transforms []TransformSetSpec `yaml:"transforms"`
}

// Parse unmarshals a ProjectionSpec from YAML source.
func Parse(data []byte) (*ProjectionSpec, error) {
	var spec ProjectionSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "config: invalid projection spec")
	}
	return &spec, nil
}

// Apply builds out spec's scopes, patterns, transforms and explicit pairs
// into proj, compiling pair templates with engine. It stops at the first
// error, leaving proj partially configured — callers that need an
// all-or-nothing guarantee should Apply into a fresh Projection.
func (sf *ProjectionSpec) Apply(proj *projection.Projection, engine host.TemplateEngine) error {
	for _, name := range sf.Scopes {
		if err := proj.AddScopeName(name); err != nil {
			return errors.Wrapf(err, "config: scope %q", name)
		}
	}
	for _, pattern := range sf.Include {
		if err := proj.AddGlobPattern(pattern, true); err != nil {
			return errors.Wrapf(err, "config: include %q", pattern)
		}
	}
	for _, pattern := range sf.Exclude {
		if err := proj.AddGlobPattern(pattern, false); err != nil {
			return errors.Wrapf(err, "config: exclude %q", pattern)
		}
	}
	for _, pair := range sf.Pairs {
		tmpl, err := engine.Compile(pair.Value)
		if err != nil {
			return errors.Wrapf(err, "config: pair %q", pair.Key)
		}
		if pair.Type != "" {
			if err := tmpl.SetTypeHint(pair.Type); err != nil {
				return errors.Wrapf(err, "config: pair %q type", pair.Key)
			}
		}
		proj.AddPair(pair.Key, tmpl)
	}
	for _, set := range sf.Transforms {
		ts := transform.NewSet(set.Key)
		for _, step := range set.Steps {
			switch {
			case step.Shift != nil:
				ts.Add(transform.Shift{N: *step.Shift})
			case step.AddPrefix != "":
				ts.Add(transform.AddPrefix{S: step.AddPrefix})
			case step.ReplacePrefix != "":
				from, to, err := splitReplacePrefix(step.ReplacePrefix)
				if err != nil {
					return errors.Wrapf(err, "config: transform %q", set.Key)
				}
				ts.Add(transform.ReplacePrefix{From: from, To: to})
			}
		}
		proj.AddTransformSet(ts)
	}
	return nil
}

func splitReplacePrefix(s string) (from, to string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", errors.New("replace_prefix requires \"from=to\"")
}
