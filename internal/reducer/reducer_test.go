// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package reducer

import (
	"testing"

	"github.com/DavidGamba/go-docopt/internal/argvlex"
	"github.com/DavidGamba/go-docopt/internal/argparser"
	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/scanner"
	"github.com/DavidGamba/go-docopt/internal/solver"
	"github.com/DavidGamba/go-docopt/internal/specparse"
	"github.com/stretchr/testify/require"
)

const help = `Usage:
  prog [-v...] [--speed=<kn>] <name>...
  prog --host=<h>

Options:
  -v            Verbose, may be repeated.
  --speed=<kn>  Speed [default: 10].
  --host=<h>    Host [env: APP_HOST].
`

func compile(t *testing.T) *layout.SolvedSpec {
	t.Helper()
	sections, err := scanner.Scan(help)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, help)
	require.NoError(t, err)
	solved, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)
	return solved
}

func TestReduceAppliesDefaultWhenArgvSilent(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"a", "b"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)

	out := Reduce(spec, matched, map[string]string{})
	rv := out["--speed"]
	require.Equal(t, "string", rv.Value.Kind().String())
	s, _ := rv.Value.StringVal()
	require.Equal(t, "10", s)
}

func TestReduceAppliesArgvValueElseEnvironmentFallback(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"--host=example.com"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})
	rv := out["--host"]
	s, _ := rv.Value.StringVal()
	require.Equal(t, "example.com", s)

	toks2, err := argvlex.Lex([]string{"a"})
	require.NoError(t, err)
	matched2, err := argparser.Parse(spec, toks2, argparser.Options{})
	require.NoError(t, err)
	out2 := Reduce(spec, matched2, map[string]string{"APP_HOST": "fallback.example"})
	rv2 := out2["--host"]
	require.Equal(t, "environment", rv2.Origin.String())
	s2, _ := rv2.Value.StringVal()
	require.Equal(t, "fallback.example", s2)
}

func TestReduceCountsRepeatedFlag(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"-v", "-v", "-v", "a"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})
	rv := out["-v"]
	require.Equal(t, "argv", rv.Origin.String())
	n, _ := rv.Value.IntVal()
	require.Equal(t, 3, n)
}

func TestReduceAccumulatesRepeatablePositional(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"a", "b", "c"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})
	rv := out["<name>"]
	require.True(t, rv.Value.IsArray())
	elems, _ := rv.Value.ArrayVal()
	require.Len(t, elems, 3)
}

func TestReduceBindsEveryAliasToTheSameValue(t *testing.T) {
	aliasHelp := `Usage:
  prog [-h <h> | --host=<h>]

Options:
  -h --host=<h>  Host [default: localhost].
`
	sections, err := scanner.Scan(aliasHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, aliasHelp)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"--host=example.com"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	short, _ := out["-h"].Value.StringVal()
	long, _ := out["--host"].Value.StringVal()
	require.Equal(t, "example.com", short)
	require.Equal(t, "example.com", long)
}

func TestReduceOmitsUnknownBucketWhenNothingUnknownSeen(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"a"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})
	_, ok := out["?"]
	require.False(t, ok)
}

func TestReduceCollectsAllowUnknownOptionsUnderQuestionMarkKey(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"--mystery", "a"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{AllowUnknown: true})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})
	rv := out["?"]
	elems, ok := rv.Value.ArrayVal()
	require.True(t, ok)
	require.Len(t, elems, 1)
	s, _ := elems[0].StringVal()
	require.Equal(t, "--mystery", s)
}

func TestReduceEmitsEOARemainderAsArray(t *testing.T) {
	eoaHelp := `Usage:
  prog <name>... --
`
	sections, err := scanner.Scan(eoaHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, eoaHelp)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"a", "--", "b", "c"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	rv := out["--"]
	require.Equal(t, "argv", rv.Origin.String())
	elems, ok := rv.Value.ArrayVal()
	require.True(t, ok)
	require.Len(t, elems, 2)
	s0, _ := elems[0].StringVal()
	s1, _ := elems[1].StringVal()
	require.Equal(t, []string{"b", "c"}, []string{s0, s1})
}

// TestReduceOmitsLeavesWithNoValueAndNoFallback pins the invariant that the
// output map never carries an Empty-origin entry: an unmatched flag with no
// default, and the synthetic EOA bucket when no stray "--" was seen, are
// both simply absent.
func TestReduceOmitsLeavesWithNoValueAndNoFallback(t *testing.T) {
	spec := compile(t)
	toks, err := argvlex.Lex([]string{"a"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	_, ok := out["-v"]
	require.False(t, ok)
	_, ok = out["EOA"]
	require.False(t, ok)
	for name, rv := range out {
		require.NotEqual(t, "empty", rv.Origin.String(), "key %q carries an Empty-origin value", name)
	}
}

// TestReduceMergesBareDuplicateFlagIntoCount covers a usage line that
// spells the same flag out literally, with no "..." anywhere: every
// occurrence still merges, and an all-boolean merge coerces to a count.
func TestReduceMergesBareDuplicateFlagIntoCount(t *testing.T) {
	dupHelp := `Usage:
  prog -v -v -v
`
	sections, err := scanner.Scan(dupHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, dupHelp)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"-v", "-v", "-v"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	n, ok := out["-v"].Value.IntVal()
	require.True(t, ok)
	require.Equal(t, 3, n)
	require.Equal(t, "argv", out["-v"].Origin.String())
}

// TestReduceMergesBareDuplicatePositionalIntoArray: a duplicated literal
// positional keeps every bound value, concatenated in order.
func TestReduceMergesBareDuplicatePositionalIntoArray(t *testing.T) {
	dupHelp := `Usage:
  prog FILE FILE
`
	sections, err := scanner.Scan(dupHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, dupHelp)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"a", "b"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	elems, ok := out["FILE"].Value.ArrayVal()
	require.True(t, ok)
	require.Len(t, elems, 2)
	first, _ := elems[0].StringVal()
	second, _ := elems[1].StringVal()
	require.Equal(t, []string{"a", "b"}, []string{first, second})
}

// TestReduceGroupRepetitionPropagatesToLeaf covers "[-q]..." style usage:
// the ellipsis sits on the group, not the leaf, but repeated -q still
// reduces to an occurrence count.
func TestReduceGroupRepetitionPropagatesToLeaf(t *testing.T) {
	qHelp := `Usage:
  prog [-i] [-q]...
`
	sections, err := scanner.Scan(qHelp)
	require.NoError(t, err)
	usage, err := specparse.Compile(sections, qHelp)
	require.NoError(t, err)
	spec, err := solver.Solve(usage, solver.Options{})
	require.NoError(t, err)

	toks, err := argvlex.Lex([]string{"-q", "-i", "-q"})
	require.NoError(t, err)
	matched, err := argparser.Parse(spec, toks, argparser.Options{})
	require.NoError(t, err)
	out := Reduce(spec, matched, map[string]string{})

	n, ok := out["-q"].Value.IntVal()
	require.True(t, ok)
	require.Equal(t, 2, n)
	b, ok := out["-i"].Value.BoolVal()
	require.True(t, ok)
	require.True(t, b)
}
