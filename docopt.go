// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package docopt

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/DavidGamba/go-docopt/internal/argparser"
	"github.com/DavidGamba/go-docopt/internal/argvlex"
	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/reducer"
	"github.com/DavidGamba/go-docopt/internal/scanner"
	"github.com/DavidGamba/go-docopt/internal/solver"
	"github.com/DavidGamba/go-docopt/internal/specparse"
	"github.com/DavidGamba/go-docopt/internal/tokens"
	"github.com/DavidGamba/go-docopt/internal/tracelog"
	"github.com/DavidGamba/go-docopt/internal/value"
)

// SetLogger - replaces the package-wide logger used by every pipeline
// stage, silent (io.Discard) by default.
func SetLogger(l *log.Logger) { tracelog.Logger = l }

// Options - the knobs Run accepts.
type Options struct {
	// Argv - the arguments to match, excluding the program name. Defaults
	// to os.Args[1:] when nil.
	Argv []string
	// Env - the environment lookup table for "[env: VAR]" fallbacks.
	// Defaults to the process environment (os.Environ) when nil.
	Env map[string]string
	// Help - when true, any alias in HelpFlags (documented by the spec)
	// short-circuits matching and returns a HelpOutput instead of an error.
	Help bool
	// HelpFlags - aliases that trigger Help, written as on the command
	// line (e.g. "-h", "--help"). Defaults to {"-h", "--help"} when nil.
	HelpFlags []string
	// Version - the string a VersionOutput carries. Any documented alias in
	// VersionFlags short-circuits matching regardless of this field; when it
	// is empty the short-circuit errors with ErrVersionMissing instead of
	// returning a VersionOutput.
	Version string
	// VersionFlags - aliases that trigger the Version short-circuit.
	// Defaults to {"--version"} when nil.
	VersionFlags []string
	// OptionsFirst - stop treating argv tokens as options as soon as the
	// first non-option token is seen, forcing everything after it to be
	// read as positionals. Off by default.
	OptionsFirst bool
	// AllowUnknown - tolerate option tokens not documented anywhere,
	// collecting them under the "?" key instead of failing with
	// ErrUnknownOption.
	AllowUnknown bool
	// AllowTrailingArgs - accept a match that doesn't consume the whole
	// of argv, rather than requiring every token to bind to something.
	AllowTrailingArgs bool
	// StopAt - aliases (as written, e.g. "-n", "--noop") that, when
	// encountered in argv, terminate parsing and slurp the remainder of
	// argv verbatim as that option's value.
	StopAt []string
	// SmartOptions - forwarded to the solver; see solver.Options.
	SmartOptions bool
	// RequireFlags - forwarded to the solver; see solver.Options.
	RequireFlags bool
	// RepeatableOptions - forwarded to the solver; see solver.Options.
	RepeatableOptions bool
	// LaxPlacement - a group containing any non-option element (a
	// "fixed" group) normally requires its elements to bind occurrences in
	// positional order. When LaxPlacement is true, option leaves inside
	// such a group are exempted from that ordering constraint and may bind
	// any occurrence of themselves regardless of where it falls relative
	// to the group's other elements; non-option leaves still match in
	// order. Off by default, matching docopt's strict positional-order
	// reading of a fixed group.
	LaxPlacement bool
}

// Output - the result of a successful Run: a ParseOutput carrying matched
// values, or a HelpOutput/VersionOutput when argv asked to short-circuit.
type Output interface{ isOutput() }

// ParseOutput - the normal case: every argument name that argv, a default
// or an environment fallback gave a value, mapped to its resolved
// RichValue. Names with no value from any source are absent.
type ParseOutput struct {
	Values map[string]value.RichValue
}

func (ParseOutput) isOutput() {}

// HelpOutput - argv requested help and Options.Help was set.
type HelpOutput struct{ Text string }

func (HelpOutput) isOutput() {}

// VersionOutput - argv requested the version and Options.Version was set.
type VersionOutput struct{ Version string }

func (VersionOutput) isOutput() {}

// Compile - runs just the scan and parse stages, producing the raw usage
// spec without resolving options or matching any argv. Useful for
// validating a help text up front.
func Compile(helpText string) (*layout.UsageSpec, error) {
	sections, err := scanner.Scan(helpText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}
	spec, err := specparse.Compile(sections, helpText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecParse, err)
	}
	return spec, nil
}

// Run - drives the whole scan/parse/solve/lex/match/reduce pipeline over
// specOrHelpText and opts.Argv (or os.Args[1:] when nil). specOrHelpText is
// either a raw help-text string, or a *layout.UsageSpec already produced by
// an earlier call to Compile (skipping the scan/parse stages).
func Run(specOrHelpText any, opts Options) (Output, error) {
	usageSpec, err := resolveSpec(specOrHelpText)
	if err != nil {
		return nil, err
	}
	argv := opts.Argv
	if argv == nil {
		argv = os.Args[1:]
	}
	env := opts.Env
	if env == nil {
		env = environToMap(os.Environ())
	}

	solvedSpec, err := solver.Solve(usageSpec, solver.Options{
		SmartOptions:      opts.SmartOptions,
		RequireFlags:      opts.RequireFlags,
		RepeatableOptions: opts.RepeatableOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSolve, err)
	}

	toks, err := argvlex.Lex(argv)
	if err != nil {
		return nil, err
	}
	if opts.OptionsFirst {
		toks = argvlex.ApplyOptionsFirst(toks)
	}

	helpFlags := opts.HelpFlags
	if helpFlags == nil {
		helpFlags = []string{"-h", "--help"}
	}
	versionFlags := opts.VersionFlags
	if versionFlags == nil {
		versionFlags = []string{"--version"}
	}

	if opts.Help && hasAnyAlias(toks, solvedSpec, helpFlags) {
		return HelpOutput{Text: usageSpec.HelpText}, nil
	}
	if hasAnyAlias(toks, solvedSpec, versionFlags) {
		if opts.Version == "" {
			return nil, fmt.Errorf("%w: argv requested --version but Options.Version is empty", ErrVersionMissing)
		}
		return VersionOutput{Version: opts.Version}, nil
	}

	stopAt := make([]layout.OptionAlias, 0, len(opts.StopAt))
	for _, s := range opts.StopAt {
		if a, ok := layout.ParseAliasString(s); ok {
			stopAt = append(stopAt, a)
		}
	}

	matched, err := argparser.Parse(solvedSpec, toks, argparser.Options{
		AllowUnknown:      opts.AllowUnknown,
		AllowTrailingArgs: opts.AllowTrailingArgs,
		StopAt:            stopAt,
		LaxPlacement:      opts.LaxPlacement,
		Env:               env,
		OptionsFirst:      opts.OptionsFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgParse, err)
	}

	values := reducer.Reduce(solvedSpec, matched, env)
	return ParseOutput{Values: values}, nil
}

// resolveSpec - accepts either a raw help-text string (compiled here) or an
// already-compiled *layout.UsageSpec, per the "spec-or-helptext" external
// interface.
func resolveSpec(specOrHelpText any) (*layout.UsageSpec, error) {
	switch v := specOrHelpText.(type) {
	case *layout.UsageSpec:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: empty help text", ErrMissingArgument)
		}
		return Compile(v)
	default:
		return nil, fmt.Errorf("%w: Run expects a help-text string or a *layout.UsageSpec, got %T", ErrMissingArgument, specOrHelpText)
	}
}

// hasAnyAlias - true iff argv carries a token resolving to one of aliases
// and the spec actually documents that alias, so help/version only
// short-circuit when the usage text itself declares the flag.
func hasAnyAlias(toks []tokens.PositionedToken, spec *layout.SolvedSpec, aliases []string) bool {
	for _, s := range aliases {
		alias, ok := layout.ParseAliasString(s)
		if !ok {
			continue
		}
		if hasAlias(toks, spec, alias) {
			return true
		}
	}
	return false
}

// hasAlias - true iff argv carries an option token resolving to alias and
// the spec actually documents that alias (so -h only short-circuits help
// when the usage text itself declares it).
func hasAlias(toks []tokens.PositionedToken, spec *layout.SolvedSpec, alias layout.OptionAlias) bool {
	documented := false
	for _, d := range spec.Descriptions {
		if d.HasAlias(alias) {
			documented = true
			break
		}
	}
	if !documented {
		return false
	}
	for _, pt := range toks {
		switch t := pt.Tok.(type) {
		case tokens.LOpt:
			if alias.IsLong() && t.Name == alias.Long {
				return true
			}
		case tokens.SOpt:
			if alias.IsShort() {
				if t.Head == alias.Short {
					return true
				}
				for _, r := range t.Tail {
					if r == alias.Short {
						return true
					}
				}
			}
		}
	}
	return false
}

func environToMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, e := range environ {
		if idx := strings.IndexByte(e, '='); idx >= 0 {
			out[e[:idx]] = e[idx+1:]
		}
	}
	return out
}
