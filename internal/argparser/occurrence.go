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
	"fmt"
	"strings"

	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/tokens"
)

// ErrUnknownOption - an option token matches nothing in the options section
// and AllowUnknown was not set.
var ErrUnknownOption = errors.New("")

// ErrAmbiguousOption - a long-option abbreviation matches more than one
// documented option.
var ErrAmbiguousOption = errors.New("")

// ErrOptionRequiresArgument - an argument-taking option was given with no value.
var ErrOptionRequiresArgument = errors.New("")

// ErrOptionTakesNoArgument - a value was bound to an option that takes none.
var ErrOptionTakesNoArgument = errors.New("")

// occKind - discriminant for a resolved occurrence.
type occKind int

const (
	occOption occKind = iota
	occArgument
	occEOA
	occStdin
)

// occurrence - one argv element, resolved against the option descriptions:
// option stacks have already been expanded one character per occurrence and
// space-separated/attached argument values already bound.
type occurrence struct {
	kind     occKind
	key      layout.Key
	value    string
	hasValue bool
	source   string
	// remainder carries every subsequent argv token's source text verbatim,
	// consumed in one shot instead of being lexed into further occurrences:
	// set on the EOA occurrence itself (everything after a bare "--"), or
	// on the occurrence that triggered a StopAt alias.
	remainder []string
	// order is this occurrence's position in the flattened occurrence
	// list, assigned once by buildOccurrences and never renumbered; it
	// lets a fixed (positional-order) group reject a candidate that sits
	// earlier than one already bound to a preceding sibling, without the
	// list index itself (which shifts as occurrences are consumed).
	order int
}

// buildOccurrences - walks the lexed argv tokens into a flat occurrence
// list, resolving each option token against the description index (long
// options may abbreviate unambiguously, or bind a documented name's suffix
// as an attached value), expanding short-option stacks one character at a
// time, and binding each argument-taking option's value either from an
// attached "=value", from slurped stack tail characters, or from the next
// separate argv token (a contiguous run of them when the option repeats).
func buildOccurrences(toks []tokens.PositionedToken, idx *optIndex, allowUnknown bool, stopAt map[layout.OptionAlias]bool, repeatable map[layout.Key]bool) ([]occurrence, error) {
	var out []occurrence
	finish := func() []occurrence {
		for i := range out {
			out[i].order = i
		}
		return out
	}
	i := 0
	for i < len(toks) {
		tok := toks[i]
		switch t := tok.Tok.(type) {
		case tokens.LOpt:
			desc, key, implicit, err := idx.resolveLong(t.Name, allowUnknown)
			if err != nil {
				return nil, err
			}
			occ := occurrence{kind: occOption, key: key, source: tok.Source}
			var extra []string
			takesArg := desc != nil && desc.TakesArgument()
			switch {
			case implicit != nil:
				occ.value, occ.hasValue = *implicit, true
			case t.ExplicitArg != nil:
				if desc != nil && !takesArg {
					return nil, fmt.Errorf("%w: option %q takes no argument", ErrOptionTakesNoArgument, tok.Source)
				}
				occ.value, occ.hasValue = *t.ExplicitArg, true
			case takesArg && desc.Arg.Optional:
				// an optional argument binds only when attached with "=".
			case takesArg:
				vals, consumed, err := slurpValues(toks, i, tok.Source, repeatable[key])
				if err != nil {
					return nil, err
				}
				occ.value, occ.hasValue = vals[0], true
				extra = vals[1:]
				i += consumed
			}
			if len(stopAt) > 0 && stopsHere(stopAt, desc, layout.Long(t.Name)) {
				occ.remainder = remainderSources(toks, i+1)
				out = append(out, occ)
				return finish(), nil
			}
			out = append(out, occ)
			for _, v := range extra {
				out = append(out, occurrence{kind: occOption, key: key, value: v, hasValue: true, source: tok.Source})
			}
		case tokens.SOpt:
			occs, consumed, err := expandShortStack(t, toks, i, idx, allowUnknown, stopAt, repeatable, tok.Source)
			if err != nil {
				return nil, err
			}
			if len(stopAt) > 0 {
				if stopIdx := stoppingStackIndex(occs, idx, stopAt); stopIdx >= 0 {
					occs[stopIdx].remainder = remainderSources(toks, i+1+consumed)
					out = append(out, occs[:stopIdx+1]...)
					return finish(), nil
				}
			}
			out = append(out, occs...)
			i += consumed
		case tokens.Lit:
			out = append(out, occurrence{kind: occArgument, value: t.Text, source: tok.Source})
		case tokens.EOA:
			// The EOA leaf (layout.EOA) matches only this marker and emits
			// the carried array directly from its own remainder; the
			// tokens after "--" are deliberately NOT re-exposed as their
			// own occArgument occurrences, so a repeatable positional
			// earlier in the same branch can't reach past the separator
			// and swallow them.
			out = append(out, occurrence{kind: occEOA, source: tok.Source, remainder: append([]string{}, t.Remaining...)})
		case tokens.Stdin:
			out = append(out, occurrence{kind: occStdin, source: tok.Source})
		}
		i++
	}
	return finish(), nil
}

// stopsHere - true iff the resolved description (or, for an unresolved
// token, the literal alias itself) names an alias in the StopAt set.
func stopsHere(stopAt map[layout.OptionAlias]bool, desc *layout.Description, literal layout.OptionAlias) bool {
	if desc != nil {
		for _, a := range desc.Aliases {
			if stopAt[a] {
				return true
			}
		}
		return false
	}
	return stopAt[literal]
}

// stoppingStackIndex - the index within a just-expanded short-option stack
// of the first occurrence whose alias is in the StopAt set, or -1 if none.
func stoppingStackIndex(occs []occurrence, idx *optIndex, stopAt map[layout.OptionAlias]bool) int {
	for i, o := range occs {
		if found, ok := idx.byAliasByKey(o.key); ok {
			for _, a := range found.Aliases {
				if stopAt[a] {
					return i
				}
			}
		}
	}
	return -1
}

// remainderSources - every remaining positioned token's original source
// text, verbatim, starting at from.
func remainderSources(toks []tokens.PositionedToken, from int) []string {
	out := make([]string, 0, len(toks)-from)
	for _, t := range toks[from:] {
		out = append(out, t.Source)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// nextValue - consumes the next plain-literal token as a space-separated
// option argument. Returns how many extra tokens were consumed (0 or 1).
func nextValue(toks []tokens.PositionedToken, i int, source string) (string, int, error) {
	if i+1 >= len(toks) {
		return "", 0, fmt.Errorf("%w: option %q requires an argument", ErrOptionRequiresArgument, source)
	}
	lit, ok := toks[i+1].Tok.(tokens.Lit)
	if !ok {
		return "", 0, fmt.Errorf("%w: option %q requires an argument", ErrOptionRequiresArgument, source)
	}
	return lit.Text, 1, nil
}

// slurpValues - consumes the next Lit token as an option's value; when the
// option is marked repeatable, also consumes any contiguous run of further
// Lits, one value each.
func slurpValues(toks []tokens.PositionedToken, i int, source string, repeatable bool) ([]string, int, error) {
	first, consumed, err := nextValue(toks, i, source)
	if err != nil {
		return nil, 0, err
	}
	vals := []string{first}
	if repeatable {
		for i+consumed+1 < len(toks) {
			lit, ok := toks[i+consumed+1].Tok.(tokens.Lit)
			if !ok {
				break
			}
			vals = append(vals, lit.Text)
			consumed++
		}
	}
	return vals, consumed, nil
}

func expandShortStack(t tokens.SOpt, toks []tokens.PositionedToken, i int, idx *optIndex, allowUnknown bool, stopAt map[layout.OptionAlias]bool, repeatable map[layout.Key]bool, source string) ([]occurrence, int, error) {
	chars := append([]rune{t.Head}, t.Tail...)
	var out []occurrence
	consumed := 0
	for ci := 0; ci < len(chars); ci++ {
		c := chars[ci]
		last := ci == len(chars)-1
		desc, key, err := idx.resolveShort(c, allowUnknown)
		if err != nil {
			return nil, 0, err
		}
		occ := occurrence{kind: occOption, key: key, source: source}
		var extra []string
		takesArg := desc != nil && desc.TakesArgument()
		rest := string(chars[ci+1:])
		switch {
		case takesArg && last && t.ExplicitArg != nil:
			occ.value, occ.hasValue = *t.ExplicitArg, true
		case takesArg && rest != "":
			// the tail characters, plus any explicit "=value", form the value
			v := rest
			if t.ExplicitArg != nil {
				v += "=" + *t.ExplicitArg
			}
			occ.value, occ.hasValue = v, true
			ci = len(chars) // stop: remaining characters were slurped as the value
		case takesArg && desc.Arg.Optional:
			// an optional argument binds only when attached.
		case takesArg:
			vals, n, err := slurpValues(toks, i, source, repeatable[key])
			if err != nil {
				return nil, 0, err
			}
			occ.value, occ.hasValue = vals[0], true
			extra = vals[1:]
			consumed += n
		case last && t.ExplicitArg != nil && desc != nil:
			return nil, 0, fmt.Errorf("%w: option %q takes no argument", ErrOptionTakesNoArgument, source)
		}
		out = append(out, occ)
		for _, v := range extra {
			out = append(out, occurrence{kind: occOption, key: key, value: v, hasValue: true, source: source})
		}
		if desc != nil && stopsHere(stopAt, desc, layout.Short(c)) {
			break // a StopAt character ends the stack: later characters are not resolved
		}
	}
	return out, consumed, nil
}

// optIndex - resolves option tokens against the solved spec's Descriptions.
type optIndex struct {
	byAlias map[layout.OptionAlias]indexedOption
	byKey   map[layout.Key]layout.Description
	long    []string
}

type indexedOption struct {
	desc layout.Description
	key  layout.Key
}

func newOptIndex(descs []layout.Description) *optIndex {
	idx := &optIndex{byAlias: map[layout.OptionAlias]indexedOption{}, byKey: map[layout.Key]layout.Description{}}
	for _, d := range descs {
		key := layout.NewOptionKey(d.Aliases)
		idx.byKey[key] = d
		for _, a := range d.Aliases {
			idx.byAlias[a] = indexedOption{desc: d, key: key}
			if a.IsLong() {
				idx.long = append(idx.long, a.Long)
			}
		}
	}
	return idx
}

// byAliasByKey - looks up the Description owning key, if any.
func (idx *optIndex) byAliasByKey(key layout.Key) (layout.Description, bool) {
	d, ok := idx.byKey[key]
	return d, ok
}

// resolveLong - resolves a typed long-option name: exact match first, then
// unambiguous abbreviation (the typed name is a strict prefix of exactly
// one documented name), then suffix binding (a documented argument-taking
// name is a strict prefix of the typed name, and the remainder is its
// attached value, returned as implicit).
func (idx *optIndex) resolveLong(name string, allowUnknown bool) (*layout.Description, layout.Key, *string, error) {
	if found, ok := idx.byAlias[layout.Long(name)]; ok {
		d := found.desc
		return &d, found.key, nil, nil
	}
	var candidates []string
	for _, n := range idx.long {
		if strings.HasPrefix(n, name) {
			candidates = append(candidates, n)
		}
	}
	switch len(candidates) {
	case 1:
		found := idx.byAlias[layout.Long(candidates[0])]
		d := found.desc
		return &d, found.key, nil, nil
	case 0:
		for _, n := range idx.long {
			if len(name) > len(n) && strings.HasPrefix(name, n) {
				found := idx.byAlias[layout.Long(n)]
				if found.desc.TakesArgument() {
					d := found.desc
					v := name[len(n):]
					return &d, found.key, &v, nil
				}
			}
		}
		if allowUnknown {
			return nil, layout.UnknownOptionKey(), nil, nil
		}
		return nil, layout.Key{}, nil, fmt.Errorf("%w: unknown option --%s", ErrUnknownOption, name)
	default:
		return nil, layout.Key{}, nil, fmt.Errorf("%w: --%s is ambiguous among %s", ErrAmbiguousOption, name, strings.Join(candidates, ", "))
	}
}

func (idx *optIndex) resolveShort(c rune, allowUnknown bool) (*layout.Description, layout.Key, error) {
	if found, ok := idx.byAlias[layout.Short(c)]; ok {
		d := found.desc
		return &d, found.key, nil
	}
	if allowUnknown {
		return nil, layout.UnknownOptionKey(), nil
	}
	return nil, layout.Key{}, fmt.Errorf("%w: unknown option -%c", ErrUnknownOption, c)
}
