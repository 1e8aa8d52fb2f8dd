// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package cache provides a generic, thread-safe LRU cache with optional TTL.

The recommendation engine keeps fingerprinted responses in an LRU so that
repeated requests are served without re-running the scorer pipeline.

# Overview

The cache provides:
  - O(1) Get, Add and Remove through a hashmap over a doubly-linked list
  - Strict least-recently-accessed eviction once capacity is exceeded
  - Optional TTL with lazy expiration on read and explicit CleanupExpired
  - Predicate removal (RemoveFunc) for targeted invalidation
  - Hit and miss counters

# Usage

	c := cache.NewLRU[[]Recommendation](1000, time.Hour)
	c.Add(key, recs)
	if recs, ok := c.Get(key); ok {
	    // served from cache
	}

Values are stored as given. Callers storing slices or maps must copy them
on the way in and out if they need isolation.
*/
package cache
