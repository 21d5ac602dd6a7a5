// Package settings stores layered dashboard settings for directory accounts.
// Operator-managed system defaults merge with per-owner overrides into one
// effective snapshot via go-options.
package settings
