// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import "hash/fnv"

// Bucket maps a caller id to a stable value in [0, 100).
func Bucket(callerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(callerID))
	return int(h.Sum32() % 100)
}
