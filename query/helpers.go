// Package query implements the read side of the directory: owner-facing
// profile lookups, the public page and listing views, and the admin activity
// feed.
package query

import (
	"github.com/wrapsnp/go-directory/scope"
)

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func normalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
