// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package docopt compiles a docopt-convention help text into a command-line
// argument parser and runs it against argv.
//
//	helpText := `Naval Fate.
//
//	Usage:
//	  naval_fate ship new <name>...
//	  naval_fate ship <name> move <x> <y> [--speed=<kn>]
//	  naval_fate -h | --help
//
//	Options:
//	  -h --help     Show this screen.
//	  --speed=<kn>  Speed in knots [default: 10].
//	`
//
//	out, err := docopt.Run(helpText, docopt.Options{Help: true})
//
// Run drives the full scan/parse/solve/lex/match/reduce pipeline in one
// call; Compile exposes just the scan-and-parse stage for callers that want
// to validate a help text without matching any argv.
package docopt
