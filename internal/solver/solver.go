// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package solver - turns a parsed UsageSpec into a SolvedSpec: short-option
// stacks are expanded one character per leaf, long/short usage mentions are
// resolved against the options-section Descriptions (synthesizing one for
// any option mentioned only in the usage line), "[options]"-style
// References are inlined as independent optional leaves, and groups that
// end up with no branches left are pruned away. Two Descriptions must
// never claim the same alias; indexing validates that up front.
package solver

import (
	"errors"
	"fmt"

	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/tracelog"
)

// ErrSolve - sentinel wrapped by every solving failure.
var ErrSolve = errors.New("")

// SolveError - a solver failure tied to the option alias(es) involved.
type SolveError struct {
	Msg string
}

func (e *SolveError) Error() string { return e.Msg }
func (e *SolveError) Unwrap() error { return ErrSolve }

// Options - solver-level knobs surfaced by the public API.
type Options struct {
	// SmartOptions, when set, extends the slurp-adjacent rule to look
	// through a single-branch, single-element optional group: "-o [FILE]"
	// binds FILE as -o's (now optional) argument. Without it only a bare
	// adjacent positional/command leaf is slurped.
	SmartOptions bool
	// RequireFlags marks every synthesized (undocumented) option as
	// required to appear literally in the usage pattern that mentions it
	// rather than silently tolerated elsewhere.
	RequireFlags bool
	// RepeatableOptions, when set, treats every option as repeatable
	// regardless of whether its usage line or description actually marks
	// it with "...".
	RepeatableOptions bool
}

// Solve - produces a SolvedSpec from a UsageSpec.
func Solve(spec *layout.UsageSpec, opts Options) (*layout.SolvedSpec, error) {
	descByKey, err := indexDescriptions(spec.Descriptions)
	if err != nil {
		return nil, err
	}

	solved := make([][]layout.SolvedLayout, 0, len(spec.Layouts))
	for _, branch := range spec.Layouts {
		used := map[layout.Key]bool{}
		converted, err := convertSequence(branch, descByKey, used, opts)
		if err != nil {
			return nil, err
		}
		solved = append(solved, pruneSequence(converted))
	}

	descriptions := make([]layout.Description, 0, len(descByKey.ordered))
	for _, d := range descByKey.ordered {
		descriptions = append(descriptions, d)
	}

	tracelog.Logger.Printf("solver: solved %d branch(es), %d option description(s)", len(solved), len(descriptions))
	return &layout.SolvedSpec{
		Program:      spec.Program,
		Layouts:      solved,
		Descriptions: descriptions,
		HelpText:     spec.HelpText,
		ShortHelp:    spec.ShortHelp,
	}, nil
}

type descriptionIndex struct {
	byAlias   map[layout.OptionAlias]layout.Description
	ordered   []layout.Description
	synthetic map[layout.Key]bool
}

func indexDescriptions(descs []layout.Description) (*descriptionIndex, error) {
	idx := &descriptionIndex{byAlias: map[layout.OptionAlias]layout.Description{}, synthetic: map[layout.Key]bool{}}
	placeholders := map[layout.Key]string{}
	for _, d := range descs {
		key := layout.NewOptionKey(d.Aliases)
		for _, a := range d.Aliases {
			if existing, ok := idx.byAlias[a]; ok {
				existingKey := layout.NewOptionKey(existing.Aliases)
				if existingKey != key {
					return nil, &SolveError{Msg: fmt.Sprintf("alias %s is documented on two different options", a)}
				}
			}
			idx.byAlias[a] = d
		}
		if d.TakesArgument() {
			if prev, ok := placeholders[key]; ok && !layout.SamePlaceholder(prev, d.Arg.Name) {
				return nil, &SolveError{Msg: fmt.Sprintf("option %s documented with inconsistent placeholders %q and %q", d, prev, d.Arg.Name)}
			}
			placeholders[key] = d.Arg.Name
		}
		idx.ordered = append(idx.ordered, d)
	}
	return idx, nil
}

func (idx *descriptionIndex) lookup(a layout.OptionAlias) (layout.Description, bool) {
	d, ok := idx.byAlias[a]
	return d, ok
}

func (idx *descriptionIndex) synthesize(a layout.OptionAlias, arg *layout.OptionArgument, repeatable bool) layout.Description {
	d := layout.Description{Aliases: []layout.OptionAlias{a}, Arg: arg, Repeatable: repeatable}
	idx.byAlias[a] = d
	idx.ordered = append(idx.ordered, d)
	idx.synthetic[layout.NewOptionKey(d.Aliases)] = true
	return d
}

func convertSequence(seq []layout.UsageLayout, idx *descriptionIndex, used map[layout.Key]bool, opts Options) ([]layout.SolvedLayout, error) {
	var out []layout.SolvedLayout
	for i := 0; i < len(seq); i++ {
		switch n := seq[i].(type) {
		case layout.UsageElem:
			var next layout.UsageLayout
			if i+1 < len(seq) {
				next = seq[i+1]
			}
			converted, consumedNext, err := convertLeaf(n.Arg, next, idx, used, opts)
			if err != nil {
				return nil, err
			}
			if consumedNext {
				i++
			}
			out = append(out, converted...)
		case layout.UsageGroup:
			branches := make([][]layout.SolvedLayout, 0, len(n.Branches))
			for _, b := range n.Branches {
				converted, err := convertSequence(b, idx, used, opts)
				if err != nil {
					return nil, err
				}
				branches = append(branches, converted)
			}
			out = append(out, layout.SolvedGroup{Optional: n.Optional, Repeatable: n.Repeatable, Branches: branches})
		default:
			return nil, &SolveError{Msg: fmt.Sprintf("unknown usage layout node %T", seq[i])}
		}
	}
	return out, nil
}

// convertLeaf - converts one usage leaf. next is the layout immediately
// following it in the same sequence (nil at the tail); the second return
// reports whether next was consumed as a slurped option argument.
func convertLeaf(arg layout.UsageLayoutArg, next layout.UsageLayout, idx *descriptionIndex, used map[layout.Key]bool, opts Options) ([]layout.SolvedLayout, bool, error) {
	switch a := arg.(type) {
	case layout.Command:
		return []layout.SolvedLayout{elem(layout.Command{Name: a.Name, Repeatable: a.Repeatable})}, false, nil
	case layout.Positional:
		return []layout.SolvedLayout{elem(layout.Positional{Name: a.Name, Repeatable: a.Repeatable})}, false, nil
	case layout.EOA:
		return []layout.SolvedLayout{elem(layout.EOA{})}, false, nil
	case layout.Stdin:
		return []layout.SolvedLayout{elem(layout.Stdin{})}, false, nil
	case layout.Option:
		alias := layout.Long(a.LongName)
		desc, ok := idx.lookup(alias)
		if !ok {
			desc = idx.synthesize(alias, a.OptArg, a.Repeatable)
		}
		used[layout.NewOptionKey(desc.Aliases)] = true
		optArg := a.OptArg
		consumedNext := false
		if optArg == nil && desc.TakesArgument() {
			bound, consumed, err := bindAdjacentArgument(alias, desc, next, opts)
			if err != nil {
				return nil, false, err
			}
			optArg, consumedNext = bound, consumed
		}
		solved := layout.SolvedOption{Alias: alias, OptArg: optArg, Repeatable: a.Repeatable || desc.Repeatable || opts.RepeatableOptions, AllAliases: desc.Aliases}
		return []layout.SolvedLayout{layout.SolvedElem{Arg: solved}}, consumedNext, nil
	case layout.OptionStack:
		return convertOptionStack(a, next, idx, used, opts)
	case layout.Reference:
		inlined, err := inlineReference(a.Section, idx, used, opts)
		if err != nil {
			return nil, false, err
		}
		return inlined, false, nil
	default:
		return nil, false, &SolveError{Msg: fmt.Sprintf("unknown usage layout leaf %T", arg)}
	}
}

func elem(arg layout.SolvedLayoutArg) layout.SolvedLayout { return layout.SolvedElem{Arg: arg} }

// bindAdjacentArgument - resolves the "description requires an argument but
// the usage line attaches none" case for alias by slurping the adjacent
// layout: a bare Positional/Command leaf always qualifies, and with
// SmartOptions so does one wrapped in a single-branch, single-element
// optional group (the wrapped form makes the bound argument optional). The
// slurped leaf's name must agree with the description's placeholder. With
// no adjacent leaf to slurp, an optional argument stays bound un-slurped
// and a mandatory one fails the solve.
func bindAdjacentArgument(alias layout.OptionAlias, desc layout.Description, next layout.UsageLayout, opts Options) (*layout.OptionArgument, bool, error) {
	if name, viaOptional, ok := adjacentValueLeaf(next, opts.SmartOptions); ok {
		if !layout.SamePlaceholder(name, desc.Arg.Name) {
			return nil, false, &SolveError{Msg: fmt.Sprintf("option %s is described with argument %q but usage binds %q", alias, desc.Arg.Name, name)}
		}
		return &layout.OptionArgument{Name: desc.Arg.Name, Optional: desc.Arg.Optional || viaOptional}, true, nil
	}
	if !desc.Arg.Optional {
		return nil, false, &SolveError{Msg: fmt.Sprintf("option %s requires argument %q but the usage line provides none", alias, desc.Arg.Name)}
	}
	return desc.Arg, false, nil
}

// adjacentValueLeaf - the name of next when it is a bare Positional or
// Command leaf; with smart, also looks through a single-branch,
// single-element optional group wrapper (viaOptional reports that case).
func adjacentValueLeaf(next layout.UsageLayout, smart bool) (name string, viaOptional, ok bool) {
	switch n := next.(type) {
	case layout.UsageElem:
		switch a := n.Arg.(type) {
		case layout.Positional:
			return a.Name, false, true
		case layout.Command:
			return a.Name, false, true
		}
	case layout.UsageGroup:
		if smart && n.Optional && len(n.Branches) == 1 && len(n.Branches[0]) == 1 {
			if inner, _, ok := adjacentValueLeaf(n.Branches[0][0], false); ok {
				return inner, true, true
			}
		}
	}
	return "", false, false
}

// convertOptionStack - expands "-abc" into one SolvedOption leaf per
// character. Only the trailing character may carry an explicit argument
// from the usage text itself ("-abc=val"). A non-trailing character whose
// description requires an argument is resolved by subsumption: the
// remaining stack characters must spell the argument's placeholder
// ("-abcdFILE" against a "-d FILE" description becomes -a -b -c -d=FILE),
// otherwise the solve fails. A trailing argument-taking character with no
// explicit value slurps the adjacent positional/command, same as the
// long-option case.
func convertOptionStack(stack layout.OptionStack, next layout.UsageLayout, idx *descriptionIndex, used map[layout.Key]bool, opts Options) ([]layout.SolvedLayout, bool, error) {
	var out []layout.SolvedLayout
	consumedNext := false
	for ci := 0; ci < len(stack.Chars); ci++ {
		c := stack.Chars[ci]
		last := ci == len(stack.Chars)-1
		alias := layout.Short(c)
		desc, ok := idx.lookup(alias)
		if !ok {
			var arg *layout.OptionArgument
			if last {
				arg = stack.OptArg
			}
			desc = idx.synthesize(alias, arg, stack.Repeatable)
		}
		used[layout.NewOptionKey(desc.Aliases)] = true

		optArg := desc.Arg
		subsumed := false
		switch {
		case last && stack.OptArg != nil:
			optArg = stack.OptArg
		case desc.TakesArgument() && !last:
			rest := string(stack.Chars[ci+1:])
			if stack.OptArg == nil && layout.SamePlaceholder(rest, desc.Arg.Name) {
				subsumed = true
			} else if !desc.Arg.Optional {
				return nil, false, &SolveError{Msg: fmt.Sprintf("option %s requires argument %q and may not sit mid-stack", alias, desc.Arg.Name)}
			}
		case desc.TakesArgument() && last:
			bound, consumed, err := bindAdjacentArgument(alias, desc, next, opts)
			if err != nil {
				return nil, false, err
			}
			optArg, consumedNext = bound, consumed
		}

		out = append(out, layout.SolvedElem{Arg: layout.SolvedOption{
			Alias:      alias,
			OptArg:     optArg,
			Repeatable: stack.Repeatable || desc.Repeatable || opts.RepeatableOptions,
			AllAliases: desc.Aliases,
		}})
		if subsumed {
			tracelog.Logger.Printf("solver: stack tail %q subsumed as %s's argument placeholder", string(stack.Chars[ci+1:]), alias)
			break
		}
	}
	return out, consumedNext, nil
}

// inlineReference - splices in every documented option (from the referenced
// section) not already literally mentioned elsewhere in this branch, each
// as its own independently-optional leaf so the matcher can accept any
// subset in any order, matching how docopt's "[options]" shorthand behaves
// in practice. The generic "options" reference draws from every description
// block; a named reference ("[foo-options]") draws only from the block
// whose heading slug matches, and fails as unresolved when no description
// carries that section. With RequireFlags, an option only known from being
// mentioned bare in some other usage line (never actually described in the
// options section) is left out of the splice: it must be written out
// literally wherever it's meant to be accepted, rather than silently riding
// along on "[options]".
func inlineReference(section string, idx *descriptionIndex, used map[layout.Key]bool, opts Options) ([]layout.SolvedLayout, error) {
	generic := section == "" || section == "options"
	if !generic {
		found := false
		for _, d := range idx.ordered {
			if d.Section == section {
				found = true
				break
			}
		}
		if !found {
			return nil, &SolveError{Msg: fmt.Sprintf("usage references section %q but no such options section exists", section)}
		}
	}
	var out []layout.SolvedLayout
	for _, d := range idx.ordered {
		if !generic && d.Section != section {
			continue
		}
		key := layout.NewOptionKey(d.Aliases)
		if used[key] {
			continue
		}
		if opts.RequireFlags && idx.synthetic[key] {
			continue
		}
		used[key] = true
		repeatable := d.Repeatable || opts.RepeatableOptions
		solved := layout.SolvedOption{Alias: d.Aliases[0], OptArg: d.Arg, Repeatable: repeatable, AllAliases: d.Aliases}
		out = append(out, layout.SolvedGroup{
			Optional:   true,
			Repeatable: repeatable,
			Branches:   [][]layout.SolvedLayout{{layout.SolvedElem{Arg: solved}}},
		})
	}
	return out, nil
}

// pruneSequence - drops group branches that solved down to nothing, and
// any group whose every branch did so. The outer top-level branch list is
// never pruned this way: a bare "prog" pattern with zero leaves is a
// legitimate "takes no arguments" branch.
func pruneSequence(seq []layout.SolvedLayout) []layout.SolvedLayout {
	var out []layout.SolvedLayout
	for _, node := range seq {
		group, ok := node.(layout.SolvedGroup)
		if !ok {
			out = append(out, node)
			continue
		}
		var branches [][]layout.SolvedLayout
		for _, b := range group.Branches {
			pruned := pruneSequence(b)
			if len(pruned) > 0 {
				branches = append(branches, pruned)
			}
		}
		if len(branches) == 0 {
			continue
		}
		group.Branches = branches
		out = append(out, group)
	}
	return out
}
