// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package argvlex - lexes the argv vector into positioned tokens. A pair
// of compiled regexes recognizes long/short option forms and their
// "=value"/bare shapes; a short-option stack is split into head/tail at
// lex time (tokens.SOpt), leaving the bundling decision to the solved
// layout rather than a runtime mode.
package argvlex

import (
	"errors"
	"regexp"

	"github.com/DavidGamba/go-docopt/internal/sliceiterator"
	"github.com/DavidGamba/go-docopt/internal/tokens"
	"github.com/DavidGamba/go-docopt/internal/tracelog"
)

// ErrMalformedInput - an argv string could not be lexed. Reserved for
// future argv syntax; every string currently lexes as one of the five
// token shapes.
var ErrMalformedInput = errors.New("")

// 1: option name (no leading dashes, no explicit arg)
// 2: explicit "=value" suffix, without the "="
var reLong = regexp.MustCompile(`^--([^=]+)(?:=(.*))?$`)
var reShort = regexp.MustCompile(`^-([^=]+)(?:=(.*))?$`)

// Lex - tokenizes argv left to right. Stops at the first "--", collecting
// everything after it verbatim into that token's Remaining.
func Lex(argv []string) ([]tokens.PositionedToken, error) {
	out := make([]tokens.PositionedToken, 0, len(argv))
	id := 0
	it := sliceiterator.New(&argv)
	for it.Next() {
		s := it.Value()
		switch {
		case s == "--":
			rest := []string{}
			for it.Next() {
				rest = append(rest, it.Value())
			}
			out = append(out, tokens.PositionedToken{Tok: tokens.EOA{Remaining: rest}, Source: s, ID: id})
			tracelog.Logger.Printf("argvlex: EOA, %d remaining tokens slurped verbatim", len(rest))
			return out, nil
		case s == "-":
			out = append(out, tokens.PositionedToken{Tok: tokens.Stdin{}, Source: s, ID: id})
		default:
			if m := reLong.FindStringSubmatch(s); m != nil {
				var explicit *string
				if len(m) > 2 && hasExplicit(s, "--"+m[1]) {
					v := m[2]
					explicit = &v
				}
				out = append(out, tokens.PositionedToken{Tok: tokens.LOpt{Name: m[1], ExplicitArg: explicit}, Source: s, ID: id})
			} else if m := reShort.FindStringSubmatch(s); m != nil {
				runes := []rune(m[1])
				var explicit *string
				if hasExplicit(s, "-"+m[1]) {
					v := m[2]
					explicit = &v
				}
				out = append(out, tokens.PositionedToken{
					Tok:    tokens.SOpt{Head: runes[0], Tail: runes[1:], ExplicitArg: explicit},
					Source: s,
					ID:     id,
				})
			} else {
				out = append(out, tokens.PositionedToken{Tok: tokens.Lit{Text: s}, Source: s, ID: id})
			}
		}
		id++
	}
	return out, nil
}

// hasExplicit - true iff s has an "=" immediately following the matched
// dashes+name prefix (distinguishes "--foo" with no arg from "--foo=" with
// an explicit, empty, arg).
func hasExplicit(s, prefix string) bool {
	return len(s) > len(prefix) && s[len(prefix)] == '='
}

// ApplyOptionsFirst - once the first non-option token is seen (a Lit or
// Stdin), every LOpt/SOpt lexed after it is rewritten to a Lit carrying its
// original source text, so it matches as a positional/command instead of an
// option. EOA tokens already stop lexing before this is relevant.
func ApplyOptionsFirst(toks []tokens.PositionedToken) []tokens.PositionedToken {
	out := make([]tokens.PositionedToken, len(toks))
	copy(out, toks)
	seenNonOption := false
	for i, pt := range out {
		switch pt.Tok.(type) {
		case tokens.Lit, tokens.Stdin:
			seenNonOption = true
		case tokens.LOpt, tokens.SOpt:
			if seenNonOption {
				out[i] = tokens.PositionedToken{Tok: tokens.Lit{Text: pt.Source}, Source: pt.Source, ID: pt.ID}
			}
		}
	}
	return out
}
