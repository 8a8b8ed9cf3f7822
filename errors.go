// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package docopt

import (
	"errors"

	"github.com/DavidGamba/go-docopt/internal/argparser"
	"github.com/DavidGamba/go-docopt/internal/argvlex"
	"github.com/DavidGamba/go-docopt/internal/scanner"
	"github.com/DavidGamba/go-docopt/internal/solver"
	"github.com/DavidGamba/go-docopt/internal/specparse"
)

// Sentinel errors returned by Run and Compile. Every failure wraps the
// stage-appropriate sentinel via errors.Is, so callers can branch on why
// parsing failed without string-matching messages.
var (
	// ErrScan - the help text has no "usage:" section to anchor on.
	ErrScan = scanner.ErrNoUsageSection
	// ErrSpecParse - the usage or options section could not be parsed.
	ErrSpecParse = specparse.ErrParse
	// ErrSolve - the parsed usage spec failed validation (alias collision,
	// inconsistent placeholder) while being solved.
	ErrSolve = solver.ErrSolve
	// ErrArgParse - argv did not match any usage branch.
	ErrArgParse = argparser.ErrNoMatch
	// ErrUnknownOption - argv used an option this spec never documents.
	ErrUnknownOption = argparser.ErrUnknownOption
	// ErrAmbiguousOption - an abbreviated long option matches more than one documented option.
	ErrAmbiguousOption = argparser.ErrAmbiguousOption
	// ErrOptionRequiresArgument - an argument-taking option was given no value.
	ErrOptionRequiresArgument = argparser.ErrOptionRequiresArgument
	// ErrOptionTakesNoArgument - a value was attached to an option that takes none.
	ErrOptionTakesNoArgument = argparser.ErrOptionTakesNoArgument
	// ErrMissingRequired - a required usage element was never matched and
	// had no default or environment fallback.
	ErrMissingRequired = argparser.ErrMissingArgument
	// ErrUnexpectedInput - argv carried trailing or misplaced tokens no
	// usage branch could consume.
	ErrUnexpectedInput = argparser.ErrUnexpectedInput
	// ErrMalformedInput - argv failed to lex. Reserved for future argv
	// syntax; the current lexer accepts every string.
	ErrMalformedInput = argvlex.ErrMalformedInput
	// ErrMissingArgument - Run was given neither a help text nor a compiled spec.
	ErrMissingArgument = errors.New("")
	// ErrVersionMissing - argv asked for --version but Options.Version is empty.
	ErrVersionMissing = errors.New("")
)
