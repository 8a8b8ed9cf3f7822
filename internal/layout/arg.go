// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package layout

import "github.com/DavidGamba/go-docopt/internal/value"

// Arg - the runtime bundle attached to each SolvedLayoutArg leaf during
// parser preparation: a monotonic id (stable iteration/tie-break order),
// the underlying leaf, its canonical Key, whether matching it may
// terminate the parse and slurp the remainder (CanTerm), the Description
// that documents it (nil for bare commands/positionals), and the
// precomputed fallback value (default or environment), if any.
type Arg struct {
	ID      int
	Leaf    SolvedLayoutArg
	Key     Key
	CanTerm bool
	Desc    *Description
	// Fallback is nil when neither a default nor an environment value applies.
	Fallback *value.RichValue
}

// KeyValue - one emission of the argument parser: the Arg that matched and
// the value (with provenance) it produced.
type KeyValue struct {
	Arg   *Arg
	Value value.RichValue
}
