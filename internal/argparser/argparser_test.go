// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package argparser

import (
	"errors"
	"testing"

	"github.com/DavidGamba/go-docopt/internal/argvlex"
	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/scanner"
	"github.com/DavidGamba/go-docopt/internal/solver"
	"github.com/DavidGamba/go-docopt/internal/specparse"
	"github.com/DavidGamba/go-docopt/internal/value"
	"github.com/stretchr/testify/require"
)

const navalFateHelp = `Naval Fate.

Usage:
  naval_fate ship new <name>...
  naval_fate ship <name> move <x> <y> [--speed=<kn>]
  naval_fate ship shoot <x> <y>
  naval_fate -h | --help

Options:
  -h --help     Show this screen.
  --speed=<kn>  Speed in knots [default: 10].
`

func compileNavalFate(t *testing.T) *layout.SolvedSpec {
	t.Helper()
	sections, err := scanner.Scan(navalFateHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, navalFateHelp)
	require.NoError(t, err)
	solved, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)
	return solved
}

func valueOf(t *testing.T, kvs []layout.KeyValue, key layout.Key) (value.Value, bool) {
	t.Helper()
	for _, kv := range kvs {
		if kv.Arg.Key == key {
			return kv.Value.Value, true
		}
	}
	return value.Value{}, false
}

func TestParseShipNewSlurpsRepeatablePositional(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"ship", "new", "Titanic", "Nemo"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)

	v, ok := valueOf(t, kvs, layout.NewCommandKey("ship"))
	require.True(t, ok)
	require.True(t, v.Equal(value.Bool(true)))

	v, ok = valueOf(t, kvs, layout.NewPositionalKey("<name>"))
	require.True(t, ok)
	require.True(t, v.IsArray())
	names, _ := v.ArrayVal()
	require.Len(t, names, 2)
}

func TestParseShipMoveWithOptionalSpeed(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"ship", "Titanic", "move", "10", "20", "--speed=15"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)

	speedKey := layout.NewOptionKey([]layout.OptionAlias{layout.Long("speed")})
	v, ok := valueOf(t, kvs, speedKey)
	require.True(t, ok)
	s, _ := v.StringVal()
	require.Equal(t, "15", s)
}

func TestParseHelpAliasCollapsesToOneKey(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"-h"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	require.Len(t, kvs, 1)

	toks2, err := argvlex.Lex([]string{"--help"})
	require.NoError(t, err)
	kvs2, err := Parse(spec, toks2, Options{})
	require.NoError(t, err)
	require.Equal(t, kvs[0].Arg.Key, kvs2[0].Arg.Key)
}

func TestParseFailsWithNoMatchingBranch(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"fly"})
	require.NoError(t, err)
	_, err = Parse(spec, toks, Options{})
	require.Error(t, err)
}

func TestParseUnknownOptionRejectedByDefault(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"--bogus"})
	require.NoError(t, err)
	_, err = Parse(spec, toks, Options{})
	require.Error(t, err)
}

func TestParseUnknownOptionAllowed(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"ship", "shoot", "1", "2", "--bogus"})
	require.NoError(t, err)
	_, err = Parse(spec, toks, Options{AllowUnknown: true, AllowTrailingArgs: true})
	require.NoError(t, err)
}

func TestParseUnknownOptionAllowedWithoutAlsoNeedingAllowTrailingArgs(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"ship", "shoot", "1", "2", "--bogus"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{AllowUnknown: true})
	require.NoError(t, err)
	var found bool
	for _, kv := range kvs {
		if kv.Arg.Key == layout.UnknownOptionKey() {
			found = true
			arr, ok := kv.Value.Value.ArrayVal()
			require.True(t, ok)
			require.Len(t, arr, 1)
		}
	}
	require.True(t, found)
}

func TestParseUnknownEOACapturedUnderSyntheticKey(t *testing.T) {
	help := `Usage:
  prog [<name>]
`
	sections, err := scanner.Scan(help)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, help)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"--", "x"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{AllowUnknown: true})
	require.NoError(t, err)
	var found bool
	for _, kv := range kvs {
		if kv.Arg.Key == layout.UnknownEOAKey() {
			found = true
			arr, ok := kv.Value.Value.ArrayVal()
			require.True(t, ok)
			require.Equal(t, []string{"x"}, stringsOf(t, arr))
		}
	}
	require.True(t, found)
}

// stringsOf - unwraps an array of value.String elements for assertion.
func stringsOf(t *testing.T, arr []value.Value) []string {
	t.Helper()
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.StringVal()
		require.True(t, ok)
		out[i] = s
	}
	return out
}

// TestParseConcreteScenarios exercises literal argv inputs end to end,
// covering repeatable-leaf looping, the "--" separator's carried array,
// and fixed (positional-order) group matching.
func TestParseConcreteScenarios(t *testing.T) {
	cases := []struct {
		name    string
		usage   string
		argv    []string
		wantErr bool
		check   func(t *testing.T, kvs []layout.KeyValue)
	}{
		{
			name:  "scenario 1: bare repeatable positional slurps every token",
			usage: "Usage:\n  prog <qux>...\n",
			argv:  []string{"a", "b", "c"},
			check: func(t *testing.T, kvs []layout.KeyValue) {
				v, ok := valueOf(t, kvs, layout.NewPositionalKey("<qux>"))
				require.True(t, ok)
				arr, ok := v.ArrayVal()
				require.True(t, ok)
				require.Equal(t, []string{"a", "b", "c"}, stringsOf(t, arr))
			},
		},
		{
			name:  "scenario 2: repeatable positional stops at -- and EOA carries the rest",
			usage: "Usage:\n  prog <qux>... --\n",
			argv:  []string{"a", "b", "c", "--", "--", "--"},
			check: func(t *testing.T, kvs []layout.KeyValue) {
				// <qux> is not the branch tail here, so it binds one
				// emission per matched literal instead of slurping an array.
				var quxVals []string
				for _, kv := range kvs {
					if kv.Arg.Key == layout.NewPositionalKey("<qux>") {
						s, ok := kv.Value.Value.StringVal()
						require.True(t, ok)
						quxVals = append(quxVals, s)
					}
				}
				require.Equal(t, []string{"a", "b", "c"}, quxVals)

				v, ok := valueOf(t, kvs, layout.EOA{}.Key())
				require.True(t, ok)
				arr, ok := v.ArrayVal()
				require.True(t, ok)
				require.Equal(t, []string{"--", "--"}, stringsOf(t, arr))
			},
		},
		{
			name:  "scenario 6: two independent repeatable option groups each collect their own flag",
			usage: "Usage:\n  prog (-a | -b)... (-d | -e)...\n",
			argv:  []string{"-a", "-d", "-a", "-a", "-d", "-a"},
			check: func(t *testing.T, kvs []layout.KeyValue) {
				// one Bool(true) emission per matched occurrence; the
				// reducer is what folds these into counts.
				counts := map[layout.Key]int{}
				for _, kv := range kvs {
					counts[kv.Arg.Key]++
				}
				require.Equal(t, 4, counts[layout.NewOptionKey([]layout.OptionAlias{layout.Short('a')})])
				require.Equal(t, 2, counts[layout.NewOptionKey([]layout.OptionAlias{layout.Short('d')})])
				require.Equal(t, 0, counts[layout.NewOptionKey([]layout.OptionAlias{layout.Short('b')})])
			},
		},
		{
			name:    "scenario 8: fixed group rejects an out-of-order positional",
			usage:   "Usage:\n  prog ((-i FILE) <env>) -oFILE\n\nOptions:\n  -i FILE  Input file.\n  -o FILE  Output file.\n",
			argv:    []string{"-o", "bar", "x", "-i", "bar"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sections, err := scanner.Scan(tc.usage)
			require.NoError(t, err)
			usage, err := specparse.Compile(sections, tc.usage)
			require.NoError(t, err)
			spec, err := solver.Solve(usage, solver.Options{})
			require.NoError(t, err)

			toks, err := argvlex.Lex(tc.argv)
			require.NoError(t, err)
			kvs, err := Parse(spec, toks, Options{})
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, kvs)
		})
	}
}

func compileHelp(t *testing.T, help string) *layout.SolvedSpec {
	t.Helper()
	sections, err := scanner.Scan(help)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, help)
	require.NoError(t, err)
	solved, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)
	return solved
}

// TestParseRequiredLeafSatisfiedByDefaultFallback: a required option whose
// description carries a default doesn't fail the branch when argv omits it;
// the reducer supplies the default afterwards.
func TestParseRequiredLeafSatisfiedByDefaultFallback(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog --speed=<kn>\n\nOptions:\n  --speed=<kn>  Speed [default: 10].\n")
	toks, err := argvlex.Lex(nil)
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	// satisfied by fallback: nothing consumed, nothing emitted
	require.Empty(t, kvs)
}

func TestParseRequiredLeafSatisfiedByEnvironmentFallback(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog --host=<h>\n\nOptions:\n  --host=<h>  Host [env: APP_HOST].\n")
	toks, err := argvlex.Lex(nil)
	require.NoError(t, err)

	_, err = Parse(spec, toks, Options{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingArgument))

	kvs, err := Parse(spec, toks, Options{Env: map[string]string{"APP_HOST": "example.com"}})
	require.NoError(t, err)
	require.Empty(t, kvs)
}

// TestParseOptionalArgumentBindsOnlyWhenAttached: a "[=LEVEL]" argument
// never slurps the next token; bare use emits a plain boolean presence.
func TestParseOptionalArgumentBindsOnlyWhenAttached(t *testing.T) {
	help := "Usage:\n  prog [--verbose] <file>\n\nOptions:\n  --verbose[=LEVEL]  Be noisy.\n"
	spec := compileHelp(t, help)
	key := layout.NewOptionKey([]layout.OptionAlias{layout.Long("verbose")})

	toks, err := argvlex.Lex([]string{"--verbose", "out.txt"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	v, ok := valueOf(t, kvs, key)
	require.True(t, ok)
	require.True(t, v.Equal(value.Bool(true)))
	v, ok = valueOf(t, kvs, layout.NewPositionalKey("<file>"))
	require.True(t, ok)
	require.True(t, v.Equal(value.String("out.txt")))

	toks, err = argvlex.Lex([]string{"--verbose=2", "out.txt"})
	require.NoError(t, err)
	kvs, err = Parse(spec, toks, Options{})
	require.NoError(t, err)
	v, ok = valueOf(t, kvs, key)
	require.True(t, ok)
	require.True(t, v.Equal(value.String("2")))
}

// TestParseLongOptionSuffixBindsAsValue: a documented argument-taking long
// name that is a strict prefix of the typed token binds the remainder as
// its value ("--hostexample.com" for "--host HOST").
func TestParseLongOptionSuffixBindsAsValue(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog [options]\n\nOptions:\n  --host HOST  Server host.\n")
	toks, err := argvlex.Lex([]string{"--hostexample.com"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	v, ok := valueOf(t, kvs, layout.NewOptionKey([]layout.OptionAlias{layout.Long("host")}))
	require.True(t, ok)
	require.True(t, v.Equal(value.String("example.com")))
}

// TestParseRepeatableOptionSlurpsContiguousRun: "-i a b" with a repeatable
// -i binds both literals, one occurrence each.
func TestParseRepeatableOptionSlurpsContiguousRun(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog (-i <file>)...\n\nOptions:\n  -i <file>  Input.\n")
	toks, err := argvlex.Lex([]string{"-i", "a", "b"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	key := layout.NewOptionKey([]layout.OptionAlias{layout.Short('i')})
	var vals []string
	for _, kv := range kvs {
		if kv.Arg.Key == key {
			s, ok := kv.Value.Value.StringVal()
			require.True(t, ok)
			vals = append(vals, s)
		}
	}
	require.Equal(t, []string{"a", "b"}, vals)
}

func TestParseAmbiguousLongAbbreviationRejected(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog [options]\n\nOptions:\n  --follow     Follow output.\n  --force      Force it.\n")
	toks, err := argvlex.Lex([]string{"--fo"})
	require.NoError(t, err)
	_, err = Parse(spec, toks, Options{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAmbiguousOption))

	toks, err = argvlex.Lex([]string{"--fol"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	v, ok := valueOf(t, kvs, layout.NewOptionKey([]layout.OptionAlias{layout.Long("follow")}))
	require.True(t, ok)
	require.True(t, v.Equal(value.Bool(true)))
}

// TestParseBranchTieBreaksOnFewerFallbackOmissions: when two branches
// consume the same amount of input, the one that satisfied fewer required
// leaves via fallback wins, even when it is listed later.
func TestParseBranchTieBreaksOnFewerFallbackOmissions(t *testing.T) {
	spec := compileHelp(t, "Usage:\n  prog go --b=<y>\n  prog <word>\n\nOptions:\n  --b=<y>  B [default: Z].\n")

	// Both branches consume the single token: branch 1 matches "go" as the
	// command but leans on --b's default (one omission); branch 2 binds it
	// to <word> with none, so branch 2 wins despite being listed second.
	toks, err := argvlex.Lex([]string{"go"})
	require.NoError(t, err)
	kvs, err := Parse(spec, toks, Options{})
	require.NoError(t, err)
	v, ok := valueOf(t, kvs, layout.NewPositionalKey("<word>"))
	require.True(t, ok)
	require.True(t, v.Equal(value.String("go")))
	_, ok = valueOf(t, kvs, layout.NewCommandKey("go"))
	require.False(t, ok)

	// With --b supplied, branch 1 consumes more and wins outright.
	toks, err = argvlex.Lex([]string{"go", "--b=1"})
	require.NoError(t, err)
	kvs, err = Parse(spec, toks, Options{})
	require.NoError(t, err)
	_, ok = valueOf(t, kvs, layout.NewCommandKey("go"))
	require.True(t, ok)
}

func TestParseTrailingInputSurfacesUnexpectedInputError(t *testing.T) {
	spec := compileNavalFate(t)
	toks, err := argvlex.Lex([]string{"ship", "shoot", "1", "2", "stray"})
	require.NoError(t, err)
	_, err = Parse(spec, toks, Options{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnexpectedInput))
	require.True(t, errors.Is(err, ErrNoMatch))
}
