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

// matchState - the immutable state threaded through the combinator match
// functions; every function returns a new value rather than mutating in
// place. omitted counts the required leaves satisfied via their fallback
// instead of real input — a branch-selection tie-breaker — and survives
// only along the path that actually wins, since failed attempts hand back
// the caller's original state.
type matchState struct {
	left      []occurrence
	collected []layout.KeyValue
	omitted   int
}

func removeAt(occs []occurrence, i int) []occurrence {
	out := make([]occurrence, 0, len(occs)-1)
	out = append(out, occs[:i]...)
	out = append(out, occs[i+1:]...)
	return out
}

// matchCtx - carried alongside matchState through one matching attempt:
// MinOrder is the occurrence-order floor a Fixed sequence imposes on its
// next sibling (-1 means unconstrained), and LaxPlacement exempts option
// leaves from that floor even inside a Fixed group. Fail, shared across
// every branch of one Parse, records the deepest point any attempt reached
// before failing, so the surfaced error names the most relevant complaint.
type matchCtx struct {
	MinOrder     int
	LaxPlacement bool
	Fail         *failure
}

// failure - the best-scoring (fewest occurrences left unconsumed) failure
// seen so far, and the display name of the element that caused it.
type failure struct {
	recorded bool
	left     int
	leaf     string
}

func (f *failure) note(left int, leaf string) {
	if f == nil {
		return
	}
	if !f.recorded || left < f.left {
		f.recorded, f.left, f.leaf = true, left, leaf
	}
}

// consumedOrder - the highest order value among occurrences present in
// before.left but gone from after.left, i.e. whatever a single match step
// just consumed. Used to advance a Fixed sequence's floor without having to
// thread a "matched at" result back out of every leaf matcher.
func consumedOrder(before, after matchState) int {
	remaining := make(map[int]bool, len(after.left))
	for _, o := range after.left {
		remaining[o.order] = true
	}
	max := -1
	for _, o := range before.left {
		if !remaining[o.order] && o.order > max {
			max = o.order
		}
	}
	return max
}

// matchSeq - matches a sequence of prepared nodes left to right; a failure
// on any required node fails the whole sequence. When fixed, each node
// after the first must bind an occurrence strictly later (by order) than
// whatever the previous node consumed.
func matchSeq(nodes []prepared, st matchState, fixed bool, ctx matchCtx) (bool, matchState) {
	cur := st
	cursor := ctx
	for _, n := range nodes {
		ok, next := matchNode(n, cur, cursor)
		if !ok {
			ctx.Fail.note(len(cur.left), nodeName(n))
			return false, st
		}
		if fixed {
			if c := consumedOrder(cur, next); c > cursor.MinOrder {
				cursor.MinOrder = c
			}
		}
		cur = next
	}
	return true, cur
}

func matchNode(n prepared, st matchState, ctx matchCtx) (bool, matchState) {
	switch node := n.(type) {
	case preparedLeaf:
		var ok bool
		var next matchState
		if leafRepeatable(node.Arg.Leaf) {
			ok, next = matchRepeatableLeaf(node, st, ctx)
		} else {
			ok, next = matchLeaf(node, st, ctx)
		}
		if !ok && node.Arg.Fallback != nil {
			// a required leaf with a default/environment fallback is
			// satisfied without consuming input; the reducer supplies the
			// fallback value. The omission is counted so branch selection
			// can prefer an alternative that needed no fallback.
			return true, matchState{left: st.left, collected: st.collected, omitted: st.omitted + 1}
		}
		return ok, next
	case preparedGroup:
		return matchGroup(node, st, ctx)
	default:
		return false, st
	}
}

// nodeName - the display name of a prepared node's leftmost element, used
// in missing-argument error messages.
func nodeName(n prepared) string {
	switch node := n.(type) {
	case preparedLeaf:
		return leafName(node.Arg.Leaf)
	case preparedGroup:
		if len(node.Branches) > 0 && len(node.Branches[0]) > 0 {
			return nodeName(node.Branches[0][0])
		}
	}
	return "?"
}

func leafName(leaf layout.SolvedLayoutArg) string {
	switch l := leaf.(type) {
	case layout.Command:
		return l.Name
	case layout.Positional:
		return l.Name
	case layout.SolvedOption:
		return l.Alias.String()
	case layout.EOA:
		return "--"
	case layout.Stdin:
		return "-"
	default:
		return "?"
	}
}

// leafRepeatable - true iff leaf's own "..." flag is set, independent of
// whether it sits at the tail of its branch.
func leafRepeatable(leaf layout.SolvedLayoutArg) bool {
	switch l := leaf.(type) {
	case layout.Command:
		return l.Repeatable
	case layout.Positional:
		return l.Repeatable
	case layout.SolvedOption:
		return l.Repeatable
	default:
		return false
	}
}

// matchRepeatableLeaf - matches a Repeatable leaf as many times as it
// succeeds (at least once, since a bare repeatable leaf is mandatory unless
// its enclosing group is optional, which handles its own omission). Only a
// Positional's CanTerm round consumes everything reachable in one call (via
// matchArgument's array-slurp branch); a second round there would rescan
// the untouched prefix and emit a second, out-of-order array, so that one
// case stops after its first successful round. matchCommand has no such
// slurp branch, so a repeatable trailing Command still loops normally.
func matchRepeatableLeaf(pl preparedLeaf, st matchState, ctx matchCtx) (bool, matchState) {
	_, isPositional := pl.Arg.Leaf.(layout.Positional)
	rounds := 0
	cur := st
	for {
		ok, next := matchLeaf(pl, cur, ctx)
		if !ok {
			break
		}
		cur = next
		rounds++
		if isPositional && pl.Arg.CanTerm {
			break
		}
	}
	if rounds == 0 {
		return false, st
	}
	return true, cur
}

func matchGroup(g preparedGroup, st matchState, ctx matchCtx) (bool, matchState) {
	if !g.Repeatable {
		ok, next := matchEither(g.Branches, st, g.Fixed, ctx)
		if ok {
			return true, next
		}
		if g.Optional {
			return true, st
		}
		return false, st
	}

	// Repeatable: keep matching the best branch until one round fails or
	// makes no further progress; a Required repeatable group needs at
	// least one successful round. A Fixed repeatable group also raises its
	// own floor round over round, so repeats of its branch still bind in
	// positional order.
	rounds := 0
	cur := st
	cursor := ctx
	for {
		ok, next := matchEither(g.Branches, cur, g.Fixed, cursor)
		if !ok {
			break
		}
		if len(next.left) == len(cur.left) {
			// satisfied without consuming (fallbacks only); a further round
			// would make no progress either
			cur = next
			rounds++
			break
		}
		if g.Fixed {
			if c := consumedOrder(cur, next); c > cursor.MinOrder {
				cursor.MinOrder = c
			}
		}
		cur = next
		rounds++
	}
	if rounds == 0 && !g.Optional {
		return false, st
	}
	return true, cur
}

// matchEither - tries every branch against st and keeps the one that
// consumes the most occurrences (fewest left over); on a tie, the one
// that leaned on fewer fallbacks; on a further tie, the earlier branch.
func matchEither(branches [][]prepared, st matchState, fixed bool, ctx matchCtx) (bool, matchState) {
	best := -1
	var bestState matchState
	for _, b := range branches {
		ok, next := matchSeq(b, st, fixed, ctx)
		if !ok {
			continue
		}
		if best == -1 || len(next.left) < best || (len(next.left) == best && next.omitted < bestState.omitted) {
			best = len(next.left)
			bestState = next
		}
	}
	if best == -1 {
		return false, st
	}
	return true, bestState
}

func matchLeaf(pl preparedLeaf, st matchState, ctx matchCtx) (bool, matchState) {
	arg := pl.Arg
	switch leaf := arg.Leaf.(type) {
	case layout.Command:
		return matchCommand(arg, leaf.Name, st, ctx.MinOrder)
	case layout.Positional:
		return matchArgument(arg, st, ctx.MinOrder)
	case layout.EOA:
		return matchEOA(arg, st, ctx.MinOrder)
	case layout.Stdin:
		return matchSimpleKind(arg, occStdin, value.Bool(true), st, ctx.MinOrder)
	case layout.SolvedOption:
		minOrder := ctx.MinOrder
		if ctx.LaxPlacement {
			minOrder = -1
		}
		return matchOption(arg, leaf, st, minOrder)
	default:
		return false, st
	}
}

// matchCommand - finds the first Argument-typed occurrence at order >
// minOrder; if it doesn't textually equal the command name, the whole scan
// stops (no skipping ahead), matching docopt's strict Command.single_match
// semantics.
func matchCommand(arg *layout.Arg, name string, st matchState, minOrder int) (bool, matchState) {
	for i, occ := range st.left {
		if occ.kind != occArgument || occ.order <= minOrder {
			continue
		}
		if occ.value != name {
			return false, st
		}
		kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.Bool(true)}}
		return true, matchState{left: removeAt(st.left, i), collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
	}
	return false, st
}

// matchArgument - binds to the first Argument-typed occurrence at order >
// minOrder, regardless of its text.
func matchArgument(arg *layout.Arg, st matchState, minOrder int) (bool, matchState) {
	for i, occ := range st.left {
		if occ.kind != occArgument || occ.order <= minOrder {
			continue
		}
		if arg.CanTerm {
			rest := make([]value.Value, 0, len(st.left)-i)
			for _, o := range st.left[i:] {
				rest = append(rest, value.String(o.value))
			}
			kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.Array(rest...)}}
			return true, matchState{left: st.left[:i], collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
		}
		kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.String(occ.value)}}
		return true, matchState{left: removeAt(st.left, i), collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
	}
	return false, st
}

func matchSimpleKind(arg *layout.Arg, kind occKind, v value.Value, st matchState, minOrder int) (bool, matchState) {
	for i, occ := range st.left {
		if occ.kind != kind || occ.order <= minOrder {
			continue
		}
		kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: v}}
		return true, matchState{left: removeAt(st.left, i), collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
	}
	return false, st
}

// matchEOA - matches the "--" marker occurrence and emits its carried
// remainder as this leaf's array value.
func matchEOA(arg *layout.Arg, st matchState, minOrder int) (bool, matchState) {
	for i, occ := range st.left {
		if occ.kind != occEOA || occ.order <= minOrder {
			continue
		}
		rest := make([]value.Value, 0, len(occ.remainder))
		for _, s := range occ.remainder {
			rest = append(rest, value.String(s))
		}
		kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: value.Array(rest...)}}
		return true, matchState{left: removeAt(st.left, i), collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
	}
	return false, st
}

func matchOption(arg *layout.Arg, leaf layout.SolvedOption, st matchState, minOrder int) (bool, matchState) {
	for i, occ := range st.left {
		if occ.kind != occOption || occ.key != arg.Key || occ.order <= minOrder {
			continue
		}
		var v value.Value
		switch {
		case arg.CanTerm && occ.remainder != nil:
			rest := make([]value.Value, 0, len(occ.remainder))
			for _, s := range occ.remainder {
				rest = append(rest, value.String(s))
			}
			v = value.Array(rest...)
		case occ.hasValue:
			v = value.String(occ.value)
		default:
			v = value.Bool(true)
		}
		kv := layout.KeyValue{Arg: arg, Value: value.RichValue{Origin: value.Argv, Value: v}}
		return true, matchState{left: removeAt(st.left, i), collected: append(append([]layout.KeyValue{}, st.collected...), kv), omitted: st.omitted}
	}
	return false, st
}
