// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package layout - the recursive usage-shape tree (before and after
// solving), the option-description records fused into it, and the
// canonical Key identity that lets aliases of one option collapse together.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DavidGamba/go-docopt/internal/value"
)

// AliasKind - discriminant for an OptionAlias.
type AliasKind int

// Alias kinds.
const (
	AliasLong AliasKind = iota
	AliasShort
)

// OptionAlias - either Long(name) or Short(char). Multiple aliases may
// refer to the same logical option.
type OptionAlias struct {
	Kind  AliasKind
	Long  string
	Short rune
}

// Long - builds a long-option alias, e.g. Long("host") for --host.
func Long(name string) OptionAlias { return OptionAlias{Kind: AliasLong, Long: name} }

// Short - builds a short-option alias, e.g. Short('h') for -h.
func Short(c rune) OptionAlias { return OptionAlias{Kind: AliasShort, Short: c} }

// IsLong - true if this is a Long alias.
func (a OptionAlias) IsLong() bool { return a.Kind == AliasLong }

// IsShort - true if this is a Short alias.
func (a OptionAlias) IsShort() bool { return a.Kind == AliasShort }

// ParseAliasString - parses an alias exactly as a caller would write it on
// the command line ("-n", "--noop") into an OptionAlias. Used to turn the
// string sets callers pass for StopAt/HelpFlags/VersionFlags into aliases
// comparable against the ones parsed out of a help text.
func ParseAliasString(s string) (OptionAlias, bool) {
	switch {
	case strings.HasPrefix(s, "--") && len(s) > 2:
		return Long(s[2:]), true
	case strings.HasPrefix(s, "-") && len(s) == 2:
		return Short(rune(s[1])), true
	default:
		return OptionAlias{}, false
	}
}

// String - renders the alias the way it appears on the command line, e.g. "--host" or "-h".
func (a OptionAlias) String() string {
	if a.IsShort() {
		return "-" + string(a.Short)
	}
	return "--" + a.Long
}

// OptionArgument - the placeholder name an option's argument uses (e.g.
// FILE), and whether the argument may be omitted ([=VAL] form).
type OptionArgument struct {
	Name     string
	Optional bool
}

// placeholder - normalizes a placeholder for case/angle-bracket-insensitive comparison.
func placeholder(name string) string {
	name = strings.TrimPrefix(name, "<")
	name = strings.TrimSuffix(name, ">")
	return strings.ToLower(name)
}

// SamePlaceholder - true iff two option-argument placeholders name the
// same thing once angle brackets are stripped and case is folded.
func SamePlaceholder(a, b string) bool {
	return placeholder(a) == placeholder(b)
}

// Description - per-option record gathered from the options section: a
// non-empty list of aliases, whether repeated use is meaningful, an
// optional argument spec, an optional default value, and an optional
// environment-variable fallback.
type Description struct {
	Aliases    []OptionAlias
	Repeatable bool
	Arg        *OptionArgument
	Default    *value.Value
	EnvVar     string
	// Section is the normalized heading slug of the description block this
	// record was parsed from ("options", "advanced-options", ...); empty for
	// records the solver synthesizes from bare usage-line mentions.
	Section string
}

// HasAlias - true iff the description lists the given alias.
func (d Description) HasAlias(a OptionAlias) bool {
	for _, existing := range d.Aliases {
		if existing == a {
			return true
		}
	}
	return false
}

// TakesArgument - true iff the option documented by this description consumes an argument.
func (d Description) TakesArgument() bool { return d.Arg != nil }

// String - a stable rendering used for error messages and debug logging.
func (d Description) String() string {
	names := make([]string, 0, len(d.Aliases))
	for _, a := range d.Aliases {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

// KeyKind - discriminant for Key, so commands/positionals/options never collide by name alone.
type KeyKind int

// Key kinds.
const (
	KeyOption KeyKind = iota
	KeyCommand
	KeyPositional
)

// Key - the canonical identity of an argument across its aliases. Two
// SolvedLayoutArg leaves collide in the reducer iff they share a Key.
type Key struct {
	kind    KeyKind
	name    string
	aliases string
}

// NewOptionKey - builds the Key shared by every alias of one logical option.
func NewOptionKey(aliases []OptionAlias) Key {
	rendered := make([]string, 0, len(aliases))
	for _, a := range aliases {
		rendered = append(rendered, a.String())
	}
	sort.Strings(rendered)
	return Key{kind: KeyOption, aliases: strings.Join(rendered, ",")}
}

// UnknownOptionKey - the shared Key every undocumented option occurrence is
// filed under when AllowUnknown lets it through, so the reducer can surface
// them all as one "?" entry rather than dropping them.
func UnknownOptionKey() Key { return Key{kind: KeyOption, name: "?", aliases: "?"} }

// UnknownEOAKey - the Key a bare "--" is filed under when AllowUnknown lets
// it through on a branch that never declares an EOA leaf of its own (every
// declared EOA leaf uses EOA.Key()'s name "--" instead, so this never
// collides with a real one).
func UnknownEOAKey() Key { return Key{kind: KeyCommand, name: "EOA"} }

// NewCommandKey - builds the Key for a literal command name.
func NewCommandKey(name string) Key { return Key{kind: KeyCommand, name: name} }

// NewPositionalKey - builds the Key for a positional placeholder.
func NewPositionalKey(name string) Key { return Key{kind: KeyPositional, name: name} }

// Kind - the kind of argument this Key identifies.
func (k Key) Kind() KeyKind { return k.kind }

// Equal - structural equality, consulted by go-cmp instead of it panicking
// on Key's unexported fields.
func (k Key) Equal(other Key) bool { return k == other }

func (k Key) String() string {
	switch k.kind {
	case KeyOption:
		return fmt.Sprintf("option(%s)", k.aliases)
	case KeyCommand:
		return fmt.Sprintf("command(%s)", k.name)
	case KeyPositional:
		return fmt.Sprintf("positional(%s)", k.name)
	default:
		return "key(?)"
	}
}
