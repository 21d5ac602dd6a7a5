// Package activity provides default persistence for the directory
// ActivitySink. The Repository implements both the sink (writes) and the
// ActivityRepository read-side contract so commands can log mutations and
// dashboards can query them later. Host applications can swap the repository
// if they prefer a different storage engine.
package activity
