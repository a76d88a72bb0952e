// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Command vpdump is a small demonstration harness for the value-pairs
// engine: it builds a synthetic message, configures a Projection from
// command-line tokens, and dumps the result either flat or as a
// hierarchical walk.
//
// Usage:
//
//	vpdump [--nv NAME=VALUE]... [--config FILE] [--walk] [--verbose] -- TOKEN...
//
// TOKEN... is the value-pairs builder grammar (--scope, --key, --pair,
// ...); pflag's parser cannot express that grammar's stateful rekey
// contexts, so everything after "--" is handed to builder.ParseArgs
// verbatim, in order. pflag is used only for this command's own
// repeatable --nv flag, --config and its boolean switches. --config loads a YAML
// ProjectionSpec and applies it before any TOKEN is parsed, so CLI tokens
// layer on top of (and can override) the file-based configuration.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/thinkgos/valuepairs/builder"
	"github.com/thinkgos/valuepairs/config"
	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/host/refimpl"
	"github.com/thinkgos/valuepairs/projection"
	"github.com/thinkgos/valuepairs/walker"
)

func main() {
	var nvFlags []string
	var configPath string
	var walk, verbose bool

	pflag.StringArrayVarP(&nvFlags, "nv", "n", nil, "seed a demo message name=value pair (repeatable)")
	pflag.StringVarP(&configPath, "config", "c", "", "load a YAML ProjectionSpec before applying any builder token")
	pflag.BoolVar(&walk, "walk", false, "emit hierarchical walk output instead of a flat dump")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging of projection evaluation")
	pflag.Parse()

	msg := refimpl.NewMessage()
	msg.Host = "localhost"
	msg.Program = "vpdump"
	msg.Facility = "daemon"
	msg.Pid = strconv.Itoa(os.Getpid())
	msg.MsgID = "-"
	msg.Priority = "6"
	for _, kv := range nvFlags {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "vpdump: --nv %q missing '='\n", kv)
			os.Exit(2)
		}
		msg.Set(name, value)
	}

	macros := refimpl.NewMacros()
	store := refimpl.NewStore()
	engine := refimpl.NewEngine(macros, store)

	log := zap.NewNop()
	if verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "vpdump:", err)
			os.Exit(1)
		}
	}

	proj := projection.New(macros, store, projection.WithLogger(log))
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "vpdump:", err)
			os.Exit(1)
		}
		spec, err := config.Parse(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "vpdump:", err)
			os.Exit(2)
		}
		if err := spec.Apply(proj, engine); err != nil {
			fmt.Fprintln(os.Stderr, "vpdump:", err)
			os.Exit(2)
		}
	}
	if err := builder.New(proj, engine).ParseArgs(pflag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "vpdump:", err)
		os.Exit(2)
	}

	opts := host.TemplateOptions{}
	if walk {
		dumpWalk(proj, msg, opts, log)
		return
	}
	dumpFlat(proj, msg, opts)
}

func dumpFlat(proj *projection.Projection, msg host.Message, opts host.TemplateOptions) {
	proj.ForEach(msg, opts, func(key string, value host.HintedValue) bool {
		fmt.Printf("%s=%s\n", key, value.Value)
		return true
	})
}

func dumpWalk(proj *projection.Projection, msg host.Message, opts host.TemplateOptions, log *zap.Logger) {
	out := proj.Evaluate(msg, opts, true)
	depth := 0
	indent := func() string { return strings.Repeat("  ", depth) }

	cb := walker.Callbacks[struct{}]{
		ObjStart: func(node, parent *walker.Node[struct{}]) bool {
			if node != nil {
				fmt.Printf("%s%s {\n", indent(), node.Key)
				depth++
			}
			return true
		},
		ObjEnd: func(node, parent *walker.Node[struct{}]) bool {
			if node != nil {
				depth--
				fmt.Printf("%s}\n", indent())
			}
			return true
		},
		ProcessValue: func(key string, parent *walker.Node[struct{}], hint host.TypeHint, value string) bool {
			fmt.Printf("%s%s = %s (%s)\n", indent(), key, value, hint)
			return true
		},
	}
	walker.Walk(out, cb, walker.WithLogger(log))
}
