// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tracelog - shared debug logger for the compile/match/reduce pipeline.
package tracelog

import (
	"io"
	"log"
)

// Logger instance set to `io.Discard` by default.
// Enable debug logging by setting: `tracelog.Logger.SetOutput(os.Stderr)`.
var Logger = log.New(io.Discard, "docopt: ", log.Lshortfile)
