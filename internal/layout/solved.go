// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package layout

// SolvedLayoutArg - a leaf of a SolvedLayout tree. No OptionStack, no
// Reference survives solving; every Option leaf carries a single resolved
// alias (its full alias set is recovered via the matching Description).
type SolvedLayoutArg interface {
	isSolvedLayoutArg()
	// Key - the canonical identity of this leaf, used by the reducer to
	// collapse repeated/aliased occurrences.
	Key() Key
}

func (c Command) isSolvedLayoutArg()    {}
func (p Positional) isSolvedLayoutArg() {}
func (e EOA) isSolvedLayoutArg()        {}
func (s Stdin) isSolvedLayoutArg()      {}

// Key - Command leaves key by their literal name.
func (c Command) Key() Key { return NewCommandKey(c.Name) }

// Key - Positional leaves key by their placeholder name.
func (p Positional) Key() Key { return NewPositionalKey(p.Name) }

// Key - EOA has a single fixed identity: there is only ever one "--" leaf per branch.
func (e EOA) Key() Key { return Key{kind: KeyCommand, name: "--"} }

// Key - Stdin has a single fixed identity: there is only ever one "-" leaf per branch.
func (s Stdin) Key() Key { return Key{kind: KeyCommand, name: "-"} }

// SolvedOption - a resolved option leaf: exactly one alias (the one
// actually written at this position), an optional bound argument, and
// whether this occurrence may repeat.
type SolvedOption struct {
	Alias      OptionAlias
	OptArg     *OptionArgument
	Repeatable bool
	// AllAliases is the full alias set of the logical option this leaf
	// belongs to (from its Description), used to build the Key so that
	// "-f" and "--file" collapse even though only one alias appears here.
	AllAliases []OptionAlias
}

func (SolvedOption) isSolvedLayoutArg() {}

// Key - keys by the full alias set so every spelling of the same option collapses.
func (o SolvedOption) Key() Key {
	if len(o.AllAliases) > 0 {
		return NewOptionKey(o.AllAliases)
	}
	return NewOptionKey([]OptionAlias{o.Alias})
}

// SolvedLayout - one node of the post-solving usage-shape tree. Every
// branch is non-empty.
type SolvedLayout interface {
	isSolvedLayout()
}

// SolvedElem - a leaf carrying a SolvedLayoutArg.
type SolvedElem struct {
	Arg SolvedLayoutArg
}

func (SolvedElem) isSolvedLayout() {}

// SolvedGroup - a disjunction of non-empty branches, post-solving.
type SolvedGroup struct {
	Optional   bool
	Repeatable bool
	Branches   [][]SolvedLayout
}

func (SolvedGroup) isSolvedLayout() {}
