// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/council-vote/models"
)

// ValidatePoll trims the title and options and checks them against the
// creation limits. All problems are collected, not just the first.
func ValidatePoll(title string, options []string) (string, []string, error) {
	var problems []string

	title = strings.TrimSpace(title)
	switch {
	case title == "":
		problems = append(problems, "title is required")
	case utf8.RuneCountInString(title) > models.MaxTitleLength:
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", models.MaxTitleLength))
	}

	if len(options) < models.MinOptions || len(options) > models.MaxOptions {
		problems = append(problems, fmt.Sprintf("poll needs between %d and %d options, got %d",
			models.MinOptions, models.MaxOptions, len(options)))
	}

	trimmed := make([]string, len(options))
	seen := make(map[string]int, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		trimmed[i] = opt

		switch {
		case opt == "":
			problems = append(problems, fmt.Sprintf("option %d is empty", i+1))
			continue
		case utf8.RuneCountInString(opt) > models.MaxOptionLength:
			problems = append(problems, fmt.Sprintf("option %d must be at most %d characters", i+1, models.MaxOptionLength))
		}

		if first, dup := seen[opt]; dup {
			problems = append(problems, fmt.Sprintf("option %d duplicates option %d (%q)", i+1, first+1, opt))
			continue
		}
		seen[opt] = i
	}

	if len(problems) > 0 {
		return "", nil, &ValidationError{Problems: problems}
	}
	return title, trimmed, nil
}
