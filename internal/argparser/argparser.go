// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package argparser - the backtracking matcher: resolves lexed argv tokens
// against a SolvedSpec's option descriptions, then tries each top-level
// usage branch in turn, picking whichever fully consumes the most input.
// An alias-to-option map resolves -f/--file to one logical option during
// occurrence building.
package argparser

import (
	"errors"
	"fmt"

	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/tokens"
	"github.com/DavidGamba/go-docopt/internal/tracelog"
	"github.com/DavidGamba/go-docopt/internal/value"
)

// ErrNoMatch - no usage branch matched the given argv.
var ErrNoMatch = errors.New("")

// ErrMissingArgument - a required element of the best-scoring branch was
// never matched and had no fallback.
var ErrMissingArgument = errors.New("")

// ErrUnexpectedInput - a branch matched but argv tokens were left over and
// AllowTrailingArgs was not set.
var ErrUnexpectedInput = errors.New("")

// Options - argparser-level knobs surfaced by the public API.
type Options struct {
	// AllowUnknown - tolerate option tokens that match nothing documented,
	// collecting their source text under the shared unknown-option key
	// instead of failing.
	AllowUnknown bool
	// AllowTrailingArgs - accept a branch match even if occurrences remain
	// unconsumed afterwards, instead of requiring the whole argv to be spent.
	AllowTrailingArgs bool
	// StopAt - aliases that, once matched, terminate parsing and slurp
	// every remaining argv token verbatim as that option's value.
	StopAt []layout.OptionAlias
	// LaxPlacement - exempt option leaves from a fixed group's
	// positional-order floor, so an option may appear anywhere relative to
	// the non-option siblings that make the group fixed.
	LaxPlacement bool
	// Env - the environment lookup table used to precompute each leaf's
	// "[env: VAR]" fallback during preparation.
	Env map[string]string
	// OptionsFirst - marks the trailing positional of every branch CanTerm,
	// so it consumes the remainder of argv as an array.
	OptionsFirst bool
}

// gatherUnknown - splits off every occurrence captured under the shared
// UnknownOptionKey (AllowUnknown's synthetic "?" bucket) from the rest of
// the leftover occurrences, rendering the captured ones into a single
// KeyValue carrying their original source strings. When allowUnknown is
// set, a bare "--" left over because no branch declared an EOA leaf is
// likewise captured, under UnknownEOAKey, instead of counting as leftover
// input.
func gatherUnknown(left []occurrence, allowUnknown bool) ([]occurrence, []layout.KeyValue) {
	var rest []occurrence
	var captured []value.Value
	var eoaRemainder []string
	sawEOA := false
	for _, o := range left {
		switch {
		case o.kind == occOption && o.key == layout.UnknownOptionKey():
			captured = append(captured, value.String(o.source))
		case allowUnknown && o.kind == occEOA:
			sawEOA = true
			eoaRemainder = o.remainder
		default:
			rest = append(rest, o)
		}
	}
	var kvs []layout.KeyValue
	if len(captured) > 0 {
		arg := &layout.Arg{Key: layout.UnknownOptionKey()}
		kvs = append(kvs, layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.Array(captured...)}})
	}
	if sawEOA {
		vals := make([]value.Value, 0, len(eoaRemainder))
		for _, s := range eoaRemainder {
			vals = append(vals, value.String(s))
		}
		arg := &layout.Arg{Key: layout.UnknownEOAKey()}
		kvs = append(kvs, layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.Array(vals...)}})
	}
	return rest, kvs
}

// Parse - matches the lexed argv against spec, returning the flat list of
// matched (Arg, RichValue) pairs from whichever branch wins.
func Parse(spec *layout.SolvedSpec, toks []tokens.PositionedToken, opts Options) ([]layout.KeyValue, error) {
	idx := newOptIndex(spec.Descriptions)
	stopAt := make(map[layout.OptionAlias]bool, len(opts.StopAt))
	for _, a := range opts.StopAt {
		stopAt[a] = true
	}
	occs, err := buildOccurrences(toks, idx, opts.AllowUnknown, stopAt, repeatableOptionKeys(spec))
	if err != nil {
		return nil, err
	}

	fail := &failure{}
	unexpectedLeft := -1
	unexpectedSource := ""
	bestLeftover := -1
	bestOmitted := 0
	var best []layout.KeyValue
	for _, branch := range spec.Layouts {
		p := newPreparer(spec.Descriptions, opts)
		prepared := p.prepareBranch(branch)
		ctx := matchCtx{MinOrder: -1, LaxPlacement: opts.LaxPlacement, Fail: fail}
		ok, final := matchSeq(prepared, matchState{left: occs}, false, ctx)
		if !ok {
			continue
		}
		leftover, unknown := gatherUnknown(final.left, opts.AllowUnknown)
		if len(leftover) > 0 && !opts.AllowTrailingArgs {
			if unexpectedLeft == -1 || len(leftover) < unexpectedLeft {
				unexpectedLeft = len(leftover)
				unexpectedSource = leftover[0].source
			}
			continue
		}
		// most input consumed first; on ties, fewest required leaves
		// satisfied via fallback; on further ties, the earlier branch.
		better := bestLeftover == -1 ||
			len(leftover) < bestLeftover ||
			(len(leftover) == bestLeftover && final.omitted < bestOmitted)
		if better {
			bestLeftover = len(leftover)
			bestOmitted = final.omitted
			best = append(append([]layout.KeyValue{}, final.collected...), unknown...)
		}
	}
	if bestLeftover == -1 {
		tracelog.Logger.Printf("argparser: no usage branch matched %d argv token(s)", len(toks))
		if unexpectedLeft != -1 {
			return nil, fmt.Errorf("%w%w: unexpected input %q", ErrNoMatch, ErrUnexpectedInput, unexpectedSource)
		}
		if fail.recorded {
			return nil, fmt.Errorf("%w%w: missing required argument %s", ErrNoMatch, ErrMissingArgument, fail.leaf)
		}
		return nil, fmt.Errorf("%w: arguments did not match any usage pattern", ErrNoMatch)
	}
	return best, nil
}

// repeatableOptionKeys - the Key of every option leaf marked repeatable
// anywhere in spec, with enclosing-group repeatability propagated inward.
// Consulted while binding occurrence values so a repeating argument-taking
// option may slurp a contiguous run of literals.
func repeatableOptionKeys(spec *layout.SolvedSpec) map[layout.Key]bool {
	out := map[layout.Key]bool{}
	var walk func(seq []layout.SolvedLayout, rep bool)
	walk = func(seq []layout.SolvedLayout, rep bool) {
		for _, node := range seq {
			switch n := node.(type) {
			case layout.SolvedElem:
				if o, ok := n.Arg.(layout.SolvedOption); ok && (rep || o.Repeatable) {
					out[n.Arg.Key()] = true
				}
			case layout.SolvedGroup:
				for _, b := range n.Branches {
					walk(b, rep || n.Repeatable)
				}
			}
		}
	}
	for _, b := range spec.Layouts {
		walk(b, false)
	}
	return out
}
