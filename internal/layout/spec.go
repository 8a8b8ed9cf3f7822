// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package layout

// Spec - program name, the disjunction of branches describing its usage,
// the fused option descriptions, and the original help text. Parameterized
// by leaf type so the same container flows unchanged from the parser
// (Spec[UsageLayout]) through the solver (Spec[SolvedLayout]); the trees
// hanging off Layouts are what actually change shape between those two
// instantiations, per-stage, via the distinct UsageLayout/SolvedLayout
// node types of usage.go and solved.go.
type Spec[L any] struct {
	Program      string
	Layouts      [][]L
	Descriptions []Description
	HelpText     string
	ShortHelp    string
}

// UsageSpec - the spec shape produced by the parser.
type UsageSpec = Spec[UsageLayout]

// SolvedSpec - the spec shape produced by the solver.
type SolvedSpec = Spec[SolvedLayout]
