// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package argparser

import (
	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/value"
)

// prepared - a SolvedLayout node annotated with its runtime layout.Arg
// bundle (leaves) or its branch structure (groups).
type prepared interface{ isPrepared() }

type preparedLeaf struct{ Arg *layout.Arg }

func (preparedLeaf) isPrepared() {}

type preparedGroup struct {
	Optional   bool
	Repeatable bool
	// Fixed - true iff this group contains a non-option element anywhere in
	// its branches (at any nesting depth) and therefore must match in
	// positional order. Matching threads a rising occurrence-order floor
	// through a Fixed group's own branch instead of scanning it freely.
	Fixed    bool
	Branches [][]prepared
}

func (preparedGroup) isPrepared() {}

// preparer - assigns monotonic ids while walking a SolvedSpec branch.
type preparer struct {
	nextID       int
	descByKey    map[layout.Key]layout.Description
	stopAt       map[layout.OptionAlias]bool
	env          map[string]string
	optionsFirst bool
}

func newPreparer(descs []layout.Description, opts Options) *preparer {
	byKey := make(map[layout.Key]layout.Description, len(descs))
	for _, d := range descs {
		byKey[layout.NewOptionKey(d.Aliases)] = d
	}
	stop := make(map[layout.OptionAlias]bool, len(opts.StopAt))
	for _, a := range opts.StopAt {
		stop[a] = true
	}
	return &preparer{descByKey: byKey, stopAt: stop, env: opts.Env, optionsFirst: opts.OptionsFirst}
}

// prepareBranch - prepares one top-level branch. The trailing repeatable
// positional/command, if any, is flagged CanTerm by prepareLeaf.
func (p *preparer) prepareBranch(seq []layout.SolvedLayout) []prepared {
	return p.prepareSeq(seq, true)
}

func (p *preparer) prepareSeq(seq []layout.SolvedLayout, tail bool) []prepared {
	out := make([]prepared, 0, len(seq))
	for i, node := range seq {
		isLast := tail && i == len(seq)-1
		out = append(out, p.prepareNode(node, isLast))
	}
	return out
}

func (p *preparer) prepareNode(node layout.SolvedLayout, isLast bool) prepared {
	switch n := node.(type) {
	case layout.SolvedElem:
		return p.prepareLeaf(n.Arg, isLast)
	case layout.SolvedGroup:
		branches := make([][]prepared, 0, len(n.Branches))
		for _, b := range n.Branches {
			branches = append(branches, p.prepareSeq(b, isLast))
		}
		return preparedGroup{Optional: n.Optional, Repeatable: n.Repeatable, Fixed: groupIsFixed(n.Branches), Branches: branches}
	default:
		return preparedGroup{}
	}
}

// groupIsFixed - true iff any of branches contains a non-option leaf
// anywhere, at any nesting depth.
func groupIsFixed(branches [][]layout.SolvedLayout) bool {
	for _, b := range branches {
		if seqHasNonOption(b) {
			return true
		}
	}
	return false
}

func seqHasNonOption(seq []layout.SolvedLayout) bool {
	for _, node := range seq {
		switch n := node.(type) {
		case layout.SolvedElem:
			if _, isOption := n.Arg.(layout.SolvedOption); !isOption {
				return true
			}
		case layout.SolvedGroup:
			if groupIsFixed(n.Branches) {
				return true
			}
		}
	}
	return false
}

func (p *preparer) prepareLeaf(leaf layout.SolvedLayoutArg, isLast bool) preparedLeaf {
	p.nextID++
	arg := &layout.Arg{ID: p.nextID, Leaf: leaf, Key: leaf.Key()}

	canTerm := false
	switch l := leaf.(type) {
	case layout.Command:
		canTerm = isLast && l.Repeatable
	case layout.Positional:
		canTerm = isLast && (l.Repeatable || p.optionsFirst)
	case layout.EOA:
		canTerm = true
	case layout.SolvedOption:
		canTerm = p.stopAt[l.Alias]
		if !canTerm {
			for _, a := range l.AllAliases {
				if p.stopAt[a] {
					canTerm = true
					break
				}
			}
		}
	}
	arg.CanTerm = canTerm

	if desc, ok := p.descByKey[arg.Key]; ok {
		d := desc
		arg.Desc = &d
		if d.Default != nil {
			arg.Fallback = &value.RichValue{Origin: value.Default, Value: *d.Default}
		}
		if d.EnvVar != "" {
			if v, ok := p.env[d.EnvVar]; ok {
				arg.Fallback = &value.RichValue{Origin: value.Environment, Value: value.String(v)}
			}
		}
	}
	return preparedLeaf{Arg: arg}
}
