// This file is part of go-docopt.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package scanner - splits a raw docopt-convention help text into its
// program name, usage block, and one or more option-description blocks.
package scanner

import (
	"errors"
	"regexp"
	"strings"

	"github.com/DavidGamba/go-docopt/internal/tracelog"
)

// ErrNoUsageSection - no "usage:" heading was found in the help text.
var ErrNoUsageSection = errors.New("")

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

var usageHeading = regexp.MustCompile(`(?i)^\s*usage\s*:`)
var descriptionHeading = regexp.MustCompile(`(?i)^\s*([a-z0-9 -]*options)\s*:`)

// Sections - the raw pieces the scanner splits a help text into.
type Sections struct {
	Program      string
	Usage        string
	Descriptions []string
	// Headings holds one normalized heading slug per Descriptions entry
	// ("options", "advanced-options", ...), the names usage-section
	// references resolve against.
	Headings []string
	// ShortUsage is the usage block exactly as written, kept verbatim for
	// re-use as a help-text synopsis fragment.
	ShortUsage string
}

// headingSlug - lowercases a section heading and joins its words with "-",
// the spelling a usage-section reference uses ("Advanced Options:" is
// referenced as "[advanced-options]").
func headingSlug(heading string) string {
	return strings.Join(strings.Fields(strings.ToLower(heading)), "-")
}

// Scan - splits text into Sections. Case-insensitive search for the
// "usage:" anchor; the usage block extends until a blank line or a
// heading of an options/description block. ANSI escapes are stripped
// before heading recognition so colored help text still scans correctly.
func Scan(text string) (Sections, error) {
	clean := ansiEscape.ReplaceAllString(text, "")
	lines := strings.Split(clean, "\n")

	usageStart := -1
	for i, line := range lines {
		if usageHeading.MatchString(line) {
			usageStart = i
			break
		}
	}
	if usageStart == -1 {
		tracelog.Logger.Printf("scanner: no usage: heading found")
		return Sections{}, ErrNoUsageSection
	}

	// The usage block starts right after the "usage:" token itself; content
	// on the same line (after the colon) is kept as the first fragment.
	firstLine := usageHeading.ReplaceAllString(lines[usageStart], "")
	usageLines := []string{strings.TrimSpace(firstLine)}
	end := len(lines)
	for i := usageStart + 1; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || descriptionHeading.MatchString(line) {
			end = i
			break
		}
		usageLines = append(usageLines, line)
	}

	usageBlock := strings.TrimSpace(strings.Join(usageLines, "\n"))
	if usageBlock == "" {
		return Sections{}, ErrNoUsageSection
	}

	program := firstWord(usageBlock)

	var descBlocks []string
	var headings []string
	for i := end; i < len(lines); i++ {
		if m := descriptionHeading.FindStringSubmatch(lines[i]); m != nil {
			var block []string
			rest := descriptionHeading.ReplaceAllString(lines[i], "")
			if strings.TrimSpace(rest) != "" {
				block = append(block, rest)
			}
			j := i + 1
			for ; j < len(lines); j++ {
				if descriptionHeading.MatchString(lines[j]) {
					break
				}
				block = append(block, lines[j])
			}
			text := strings.TrimRight(strings.Join(block, "\n"), " \t\n")
			if strings.TrimSpace(text) != "" {
				descBlocks = append(descBlocks, text)
				headings = append(headings, headingSlug(m[1]))
			}
			i = j - 1
		}
	}

	return Sections{
		Program:      program,
		Usage:        usageBlock,
		Descriptions: descBlocks,
		Headings:     headings,
		ShortUsage:   usageBlock,
	}, nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
