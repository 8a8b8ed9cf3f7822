// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package reducer - stage F: turns the argparser's flat (Arg, RichValue)
// emissions into the final name-keyed map. Every key known anywhere in the
// spec (not just the branch that actually matched) is seeded with its
// Default, then its Environment fallback, then overwritten with whatever
// the argv actually bound, following the Empty < Default < Environment <
// Argv precedence; keys with neither a fallback nor a matched value are
// omitted, so the output never carries an Empty-origin entry. Repeated
// occurrences of a flag-like leaf coerce to a count; repeated occurrences
// of a value-like leaf accumulate into an array.
package reducer

import (
	"github.com/DavidGamba/go-docopt/internal/layout"
	"github.com/DavidGamba/go-docopt/internal/tracelog"
	"github.com/DavidGamba/go-docopt/internal/value"
)

// known - a distinct argument identity discovered anywhere in the spec, with
// the metadata needed to name and fold it. names holds every output key this
// identity must appear under: every documented alias for an option (so "-h"
// and "--help" both land on the same value), or the single literal name for
// a command/positional/EOA/Stdin leaf.
type known struct {
	names      []string
	desc       *layout.Description
	repeatable bool
	flagLike   bool
}

// Reduce - folds matched into the final name-keyed value map, seeded with
// every key reachable anywhere in spec's branches. Every alias of a given
// option is bound to an identical value, per the one-Key-many-aliases
// invariant.
func Reduce(spec *layout.SolvedSpec, matched []layout.KeyValue, environ map[string]string) map[string]value.RichValue {
	knowns := enumerate(spec)

	out := make(map[string]value.RichValue, len(knowns)*2)
	for _, k := range knowns {
		var rv value.RichValue
		switch {
		case k.desc != nil && k.desc.EnvVar != "" && hasEnv(environ, k.desc.EnvVar):
			rv = value.RichValue{Origin: value.Environment, Value: value.String(environ[k.desc.EnvVar])}
		case k.desc != nil && k.desc.Default != nil:
			rv = value.RichValue{Origin: value.Default, Value: *k.desc.Default}
		default:
			// no fallback: the key appears in the output only if argv binds it
			continue
		}
		for _, name := range k.names {
			out[name] = rv
		}
	}

	byKey := map[layout.Key][]layout.KeyValue{}
	for _, kv := range matched {
		byKey[kv.Arg.Key] = append(byKey[kv.Arg.Key], kv)
	}

	for key, occs := range byKey {
		k, ok := knowns[key]
		if !ok {
			tracelog.Logger.Printf("reducer: matched key %s has no known spec entry, skipping", key)
			continue
		}
		// A key can collect several occurrences without any "..." mark: a
		// usage line may spell the same flag or positional out literally
		// more than once ("prog -v -v -v", "prog FILE FILE"). Merging and
		// count-coercion therefore key off the occurrence count as well as
		// the repeatable mark, never off repeatability alone.
		var rv value.RichValue
		switch {
		case len(occs) == 1 && !k.repeatable:
			rv = occs[0].Value
		case k.flagLike && allBoolOccurrences(occs):
			rv = value.RichValue{Origin: maxOrigin(occs), Value: value.Int(countTrue(occs))}
		default:
			acc := value.Array()
			for _, o := range occs {
				acc = value.AppendArray(acc, o.Value.Value)
			}
			rv = value.RichValue{Origin: maxOrigin(occs), Value: acc}
		}
		for _, name := range k.names {
			out[name] = rv
		}
	}

	return out
}

func hasEnv(environ map[string]string, name string) bool {
	_, ok := environ[name]
	return ok
}

// allBoolOccurrences - true iff every matched value for a key is a bool,
// the shape a flag-like leaf normally emits. A stop-at slurp binds an array
// to a flag-like option instead; that keeps its array shape.
func allBoolOccurrences(occs []layout.KeyValue) bool {
	for _, o := range occs {
		if !o.Value.Value.IsBool() {
			return false
		}
	}
	return true
}

func countTrue(occs []layout.KeyValue) int {
	n := 0
	for _, o := range occs {
		if b, _ := o.Value.Value.BoolVal(); b {
			n++
		}
	}
	return n
}

// maxOrigin - the dominant provenance across merged occurrences.
func maxOrigin(occs []layout.KeyValue) value.Origin {
	max := value.Empty
	for _, o := range occs {
		if o.Value.Origin > max {
			max = o.Value.Origin
		}
	}
	return max
}

func enumerate(spec *layout.SolvedSpec) map[layout.Key]known {
	out := map[layout.Key]known{}
	descByKey := map[layout.Key]layout.Description{}
	for _, d := range spec.Descriptions {
		descByKey[layout.NewOptionKey(d.Aliases)] = d
	}
	for _, branch := range spec.Layouts {
		walkSeq(branch, false, descByKey, out)
	}
	// AllowUnknown's synthetic buckets are never declared by any usage
	// line, so they need their own known entries: enumerate over spec
	// leaves alone would never discover them, yet argparser.gatherUnknown
	// may still emit KeyValues keyed by either.
	out[layout.UnknownOptionKey()] = known{names: []string{"?"}, repeatable: true, flagLike: false}
	out[layout.UnknownEOAKey()] = known{names: []string{"EOA"}, repeatable: true, flagLike: false}
	return out
}

// walkSeq - walks one branch sequence; rep carries enclosing-group
// repeatability, which propagates inward onto every leaf it wraps.
func walkSeq(seq []layout.SolvedLayout, rep bool, descByKey map[layout.Key]layout.Description, out map[layout.Key]known) {
	for _, node := range seq {
		switch n := node.(type) {
		case layout.SolvedElem:
			addKnown(n.Arg, rep, descByKey, out)
		case layout.SolvedGroup:
			for _, b := range n.Branches {
				walkSeq(b, rep || n.Repeatable, descByKey, out)
			}
		}
	}
}

func addKnown(leaf layout.SolvedLayoutArg, groupRep bool, descByKey map[layout.Key]layout.Description, out map[layout.Key]known) {
	key := leaf.Key()
	existing, seen := out[key]

	repeatable := groupRep
	flagLike := false
	var desc *layout.Description
	var names []string

	switch l := leaf.(type) {
	case layout.Command:
		repeatable, flagLike, names = repeatable || l.Repeatable, true, []string{l.Name}
	case layout.Positional:
		repeatable, flagLike, names = repeatable || l.Repeatable, false, []string{l.Name}
	case layout.EOA:
		repeatable, names = true, []string{"--"}
	case layout.Stdin:
		flagLike, names = true, []string{"-"}
	case layout.SolvedOption:
		repeatable = repeatable || l.Repeatable
		flagLike = l.OptArg == nil
		if d, ok := descByKey[key]; ok {
			desc = &d
			names = optionAliasNames(d.Aliases)
		} else {
			names = optionAliasNames(l.AllAliases)
		}
	}

	if seen {
		repeatable = repeatable || existing.repeatable
		if desc == nil {
			desc = existing.desc
		}
	}
	out[key] = known{names: names, desc: desc, repeatable: repeatable, flagLike: flagLike}
}

// optionAliasNames - every documented alias of an option, each rendered as
// an output key ("-h", "--help", ...), so every spelling of the option is
// bound to an identical value in the final map.
func optionAliasNames(aliases []layout.OptionAlias) []string {
	names := make([]string, 0, len(aliases))
	for _, a := range aliases {
		names = append(names, a.String())
	}
	if len(names) == 0 {
		return []string{"?"}
	}
	return names
}
