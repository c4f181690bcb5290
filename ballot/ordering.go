// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/council-vote/models"
)

// Listing groups, in display order
const (
	groupOpen = iota
	groupClosed
	groupPublished
)

func listingGroup(p models.Poll) int {
	switch {
	case p.IsOpen():
		return groupOpen
	case p.ResultsPublished:
		return groupPublished
	default:
		return groupClosed
	}
}

// StateSince returns the time the poll entered its current state.
func StateSince(p models.Poll) time.Time {
	switch listingGroup(p) {
	case groupPublished:
		if p.PublishedAt != nil {
			return *p.PublishedAt
		}
	case groupClosed:
		if p.ClosedAt != nil {
			return *p.ClosedAt
		}
	}
	return p.CreatedAt
}

// SortPolls orders polls for listing: open polls by creation (newest first),
// then closed polls awaiting publication by closing time, then published
// polls by publication time. Ties fall back to creation time, then id.
func SortPolls(polls []models.Poll) {
	slices.SortStableFunc(polls, comparePolls)
}

func comparePolls(a, b models.Poll) int {
	if ga, gb := listingGroup(a), listingGroup(b); ga != gb {
		return ga - gb
	}
	if c := StateSince(b).Compare(StateSince(a)); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
